package profile

import (
	"fmt"
	"sort"
)

// Profile defines atlas output parameters for a target platform.
type Profile struct {
	Name        string
	MaxSize     int    // atlas side cap in pixels
	Format      string // "png", "webp", "avif"
	Compression string // png compression: best, default, fast, none
	Bundle      bool   // also write a ZIP with atlas + coordinates
}

// DefaultName is the profile used when none is requested.
const DefaultName = "16k"

// Built-in profiles. The sizes match common GPU texture limits.
var profiles = map[string]Profile{
	"4k": {
		Name:        "4k",
		MaxSize:     4096,
		Format:      "png",
		Compression: "best",
	},
	"8k": {
		Name:        "8k",
		MaxSize:     8192,
		Format:      "png",
		Compression: "best",
	},
	"16k": {
		Name:        "16k",
		MaxSize:     16384,
		Format:      "png",
		Compression: "best",
	},
	"web": {
		Name:        "web",
		MaxSize:     4096,
		Format:      "webp",
		Compression: "best",
		Bundle:      true,
	},
}

// Get returns a profile by name. Falls back to 16k if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	p := profiles[DefaultName]
	p.Name = name // preserve requested name
	return p
}

// Lookup returns a built-in profile and whether it exists.
func Lookup(name string) (Profile, bool) {
	p, ok := profiles[name]
	return p, ok
}

// Names returns the built-in profile names, sorted.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Validate checks that the profile can drive a run.
func (p Profile) Validate() error {
	if p.MaxSize <= 0 {
		return fmt.Errorf("profile %s: max size must be positive, got %d", p.Name, p.MaxSize)
	}
	if p.Format == "" {
		return fmt.Errorf("profile %s: empty format", p.Name)
	}
	return nil
}
