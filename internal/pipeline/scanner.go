package pipeline

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Source represents a discovered image file.
type Source struct {
	// AbsPath is the absolute path to the file on disk.
	AbsPath string
	// RelPath is the slash-separated path relative to the input directory.
	RelPath string
	// Key is the sprite name in the atlas.
	Key string
	// Size is the file size in bytes.
	Size int64
}

// imageExtensions lists recognized image file extensions.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
}

// ScanOptions controls which files become sprites and how they are named.
type ScanOptions struct {
	// KeepExt keeps the extension in the sprite key ("ui/ok.png" instead
	// of "ui/ok").
	KeepExt bool
	// Exclude holds filepath.Match patterns tested against both the
	// relative path and the base name.
	Exclude []string
	// SkipDir is an absolute directory never descended into, typically
	// the output directory when it lives inside the input.
	SkipDir string
}

// ScanImages walks the input directory and returns all image sources,
// sorted by relative path so runs are reproducible.
func ScanImages(inputDir string, opts ScanOptions) ([]Source, error) {
	var sources []Source

	err := filepath.Walk(inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			// Skip hidden directories.
			if strings.HasPrefix(info.Name(), ".") && path != inputDir {
				return filepath.SkipDir
			}
			if opts.SkipDir != "" && path == opts.SkipDir {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !imageExtensions[ext] {
			return nil
		}

		relPath, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)
		if excluded(relPath, opts.Exclude) {
			return nil
		}

		key := relPath
		if !opts.KeepExt {
			key = strings.TrimSuffix(relPath, filepath.Ext(relPath))
		}

		sources = append(sources, Source{
			AbsPath: path,
			RelPath: relPath,
			Key:     key,
			Size:    info.Size(),
		})
		return nil
	})

	sort.Slice(sources, func(i, j int) bool {
		return sources[i].RelPath < sources[j].RelPath
	})
	return sources, err
}

func excluded(relPath string, patterns []string) bool {
	base := filepath.Base(relPath)
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, relPath); ok {
			return true
		}
		if ok, _ := filepath.Match(p, base); ok {
			return true
		}
	}
	return false
}
