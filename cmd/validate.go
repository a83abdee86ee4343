package cmd

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"

	"github.com/AnyUserName/atlaspack-cli/internal/hasher"
	"github.com/AnyUserName/atlaspack-cli/internal/manifest"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <out_dir_or_manifest>",
	Short: "Validate an atlas manifest against the files on disk",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	path, err := manifestPath(args[0])
	if err != nil {
		return err
	}
	m, err := manifest.Load(path)
	if err != nil {
		return err
	}

	errs := validateManifest(m, filepath.Dir(path))
	if len(errs) == 0 {
		printSuccess("Manifest is valid")
		printSuccess("%d sprites in %dx%d, no overlaps, atlas file matches", len(m.Sprites), m.Atlas.Width, m.Atlas.Height)
		return nil
	}

	printError("Manifest has %d error(s):", len(errs))
	for _, e := range errs {
		printDetail("• %s", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errs))
}

func validateManifest(m *manifest.Manifest, baseDir string) []string {
	var errs []string

	if m.Version != manifest.SupportedManifestVersion {
		errs = append(errs, fmt.Sprintf("unsupported manifest version: %d", m.Version))
	}

	// Atlas geometry and file.
	a := m.Atlas
	if a.Width <= 0 || a.Height <= 0 || a.Width != a.Height {
		errs = append(errs, fmt.Sprintf("atlas: invalid dimensions %dx%d", a.Width, a.Height))
	}
	if m.BuildInfo != nil && m.BuildInfo.MaxSize > 0 && a.Width > m.BuildInfo.MaxSize {
		errs = append(errs, fmt.Sprintf("atlas: %d exceeds max size %d", a.Width, m.BuildInfo.MaxSize))
	}
	if a.File == "" {
		errs = append(errs, "atlas: missing file")
	} else {
		data, err := os.ReadFile(filepath.Join(baseDir, a.File))
		switch {
		case err != nil:
			errs = append(errs, fmt.Sprintf("atlas: file not found: %s", a.File))
		case a.Size > 0 && int64(len(data)) != a.Size:
			errs = append(errs, fmt.Sprintf("atlas: size mismatch: manifest=%d, disk=%d", a.Size, len(data)))
		case a.Hash != "" && hasher.ContentHash(data, len(a.Hash)) != a.Hash:
			errs = append(errs, fmt.Sprintf("atlas: hash mismatch for %s", a.File))
		}
	}

	// Sprites: inside the atlas and pairwise disjoint.
	bounds := image.Rect(0, 0, a.Width, a.Height)
	type named struct {
		name string
		r    image.Rectangle
	}
	var rects []named
	for name, sp := range m.Sprites {
		if sp.Width <= 0 || sp.Height <= 0 {
			errs = append(errs, fmt.Sprintf("sprite %q: invalid dimensions %dx%d", name, sp.Width, sp.Height))
			continue
		}
		r := image.Rect(sp.X, sp.Y, sp.X+sp.Width, sp.Y+sp.Height)
		if !r.In(bounds) {
			errs = append(errs, fmt.Sprintf("sprite %q: %v outside atlas %dx%d", name, r, a.Width, a.Height))
		}
		if sp.OffsetX < 0 || sp.OffsetY < 0 ||
			sp.OffsetX+sp.Width > sp.SourceWidth || sp.OffsetY+sp.Height > sp.SourceHeight {
			errs = append(errs, fmt.Sprintf("sprite %q: trim box exceeds source %dx%d", name, sp.SourceWidth, sp.SourceHeight))
		}
		rects = append(rects, named{name, r})
	}
	sort.Slice(rects, func(i, j int) bool {
		if rects[i].r.Min.Y != rects[j].r.Min.Y {
			return rects[i].r.Min.Y < rects[j].r.Min.Y
		}
		return rects[i].name < rects[j].name
	})
	for i := range rects {
		for j := i + 1; j < len(rects) && rects[j].r.Min.Y < rects[i].r.Max.Y; j++ {
			if rects[i].r.Overlaps(rects[j].r) {
				errs = append(errs, fmt.Sprintf("sprites %q and %q overlap", rects[i].name, rects[j].name))
			}
		}
	}

	// Stats consistency.
	s := m.Stats
	if s.Packed != len(m.Sprites) {
		errs = append(errs, fmt.Sprintf("stats.packed mismatch: %d != %d", s.Packed, len(m.Sprites)))
	}
	if s.Unplaced != len(m.Unplaced) {
		errs = append(errs, fmt.Sprintf("stats.unplaced mismatch: %d != %d", s.Unplaced, len(m.Unplaced)))
	}
	if s.Rejected != len(m.Rejected) {
		errs = append(errs, fmt.Sprintf("stats.rejected mismatch: %d != %d", s.Rejected, len(m.Rejected)))
	}
	if s.Packed+s.Unplaced+s.Rejected > s.TotalImages {
		errs = append(errs, fmt.Sprintf("stats: %d packed + %d unplaced + %d rejected exceeds %d images",
			s.Packed, s.Unplaced, s.Rejected, s.TotalImages))
	}

	return errs
}
