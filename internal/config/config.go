// Package config loads atlaspack.toml and merges it over a built-in
// profile.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/AnyUserName/atlaspack-cli/internal/encoder"
	"github.com/AnyUserName/atlaspack-cli/internal/profile"
	"github.com/BurntSushi/toml"
)

// FileName is the config file looked up in the input directory.
const FileName = "atlaspack.toml"

// File mirrors atlaspack.toml. Pointer fields distinguish "unset" from
// false.
type File struct {
	Profile     string   `toml:"profile"`
	MaxSize     int      `toml:"max_size"`
	Format      string   `toml:"format"`
	Compression string   `toml:"compression"`
	Workers     int      `toml:"workers"`
	Name        string   `toml:"name"`
	Bundle      *bool    `toml:"bundle"`
	AllowEmpty  *bool    `toml:"allow_empty"`
	KeepExt     *bool    `toml:"keep_ext"`
	Exclude     []string `toml:"exclude"`
}

// Load parses a TOML config file. Keys it does not recognize are returned
// so the caller can warn about them.
func Load(path string) (File, []string, error) {
	var f File
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return File{}, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	var unknown []string
	for _, k := range md.Undecoded() {
		unknown = append(unknown, k.String())
	}
	return f, unknown, nil
}

// Find returns the path of atlaspack.toml inside dir, if present.
func Find(dir string) (string, bool) {
	path := filepath.Join(dir, FileName)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}

// Settings is the resolved configuration for a pack run.
type Settings struct {
	Profile    profile.Profile
	Workers    int    // 0 = NumCPU
	Name       string // atlas base file name
	AllowEmpty bool   // write an atlas even when nothing was packed
	KeepExt    bool   // keep file extensions in sprite names
	Exclude    []string
}

// Default returns settings for the named profile.
func Default(profileName string) Settings {
	p := profile.Get(profileName)
	return Settings{
		Profile: p,
		Name:    "texture_atlas",
	}
}

// Apply overlays the values set in f.
func (s *Settings) Apply(f File) {
	if f.MaxSize != 0 {
		s.Profile.MaxSize = f.MaxSize
	}
	if f.Format != "" {
		s.Profile.Format = f.Format
	}
	if f.Compression != "" {
		s.Profile.Compression = f.Compression
	}
	if f.Bundle != nil {
		s.Profile.Bundle = *f.Bundle
	}
	if f.Workers != 0 {
		s.Workers = f.Workers
	}
	if f.Name != "" {
		s.Name = f.Name
	}
	if f.AllowEmpty != nil {
		s.AllowEmpty = *f.AllowEmpty
	}
	if f.KeepExt != nil {
		s.KeepExt = *f.KeepExt
	}
	if len(f.Exclude) > 0 {
		s.Exclude = append(s.Exclude, f.Exclude...)
	}
}

// EffectiveWorkers returns Workers, or NumCPU when it is zero.
func (s Settings) EffectiveWorkers() int {
	if s.Workers <= 0 {
		return runtime.NumCPU()
	}
	return s.Workers
}

// Validate rejects settings that cannot drive a run.
func (s Settings) Validate() error {
	if err := s.Profile.Validate(); err != nil {
		return err
	}
	if !encoder.Known(s.Profile.Format) {
		return fmt.Errorf("unknown format %q (want png, webp or avif)", s.Profile.Format)
	}
	if _, err := encoder.ParseCompression(s.Profile.Compression); err != nil {
		return err
	}
	if s.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", s.Workers)
	}
	if s.Name == "" || filepath.Base(s.Name) != s.Name {
		return fmt.Errorf("invalid atlas name %q", s.Name)
	}
	for _, pat := range s.Exclude {
		if _, err := filepath.Match(pat, ""); err != nil {
			return fmt.Errorf("bad exclude pattern %q: %w", pat, err)
		}
	}
	return nil
}
