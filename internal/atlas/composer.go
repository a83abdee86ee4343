package atlas

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sort"

	"github.com/disintegration/imaging"
)

// DefaultMaxSize is the atlas side used when Options.MaxSize is unset.
const DefaultMaxSize = 16384

// Options configures a packing run.
type Options struct {
	// MaxSize caps the atlas side. Values <= 0 mean DefaultMaxSize.
	MaxSize int
}

// Result is a composed atlas plus where each packed image went.
type Result struct {
	Atlas  *image.NRGBA
	Width  int
	Height int

	// Placements maps image name to its rectangle, for packed images only.
	Placements map[string]Placement
	// Images holds the image behind each placement.
	Images map[string]Image
	// Order lists packed names in the order they were placed.
	Order []string
	// Unplaced lists names that found no free space.
	Unplaced []string
	// Duplicates lists names submitted more than once. The last placed
	// image with a given name wins.
	Duplicates []string

	Packed int
	Total  int
}

// ZeroPacked reports whether a non-empty batch produced no placements.
func (r *Result) ZeroPacked() bool {
	return r.Total > 0 && r.Packed == 0
}

// FillRatio returns the share of atlas pixels covered by placements.
func (r *Result) FillRatio() float64 {
	if r.Width == 0 || r.Height == 0 {
		return 0
	}
	var used int64
	for _, p := range r.Placements {
		used += int64(p.Width) * int64(p.Height)
	}
	return float64(used) / (float64(r.Width) * float64(r.Height))
}

// Status summarizes the run in one line.
func (r *Result) Status() string {
	return fmt.Sprintf("Packed %d of %d images. Atlas size: %dx%d",
		r.Packed, r.Total, r.Width, r.Height)
}

// Compose packs images largest-first into a square atlas sized by
// EstimateSize and copies every placed image into it.
//
// It fails only on an empty batch. Images that do not fit are listed in
// Unplaced; a batch where nothing fit is still returned (see ZeroPacked).
func Compose(images []Image, opts Options) (*Result, error) {
	if len(images) == 0 {
		return nil, ErrEmptyBatch
	}
	maxSize := opts.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	sorted := make([]Image, len(images))
	copy(sorted, images)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Area() > sorted[j].Area()
	})

	size := EstimateSize(sorted, maxSize)

	sizes := make([]image.Point, len(sorted))
	for i, img := range sorted {
		sizes[i] = image.Pt(img.Width, img.Height)
	}
	fits := Pack(size, size, sizes)

	res := &Result{
		Atlas:      imaging.New(size, size, color.NRGBA{}),
		Width:      size,
		Height:     size,
		Placements: make(map[string]Placement, len(sorted)),
		Images:     make(map[string]Image, len(sorted)),
		Total:      len(sorted),
	}

	seen := make(map[string]int, len(sorted))
	for i, img := range sorted {
		seen[img.Name]++
		if seen[img.Name] == 2 {
			res.Duplicates = append(res.Duplicates, img.Name)
		}

		fit := fits[i]
		if fit == nil {
			res.Unplaced = append(res.Unplaced, img.Name)
			continue
		}

		// The canvas starts transparent and placements never overlap, so
		// a plain source copy equals alpha compositing here.
		draw.Draw(res.Atlas, fit.Rect(), img.Pixels, img.Pixels.Bounds().Min, draw.Src)

		if _, dup := res.Placements[img.Name]; !dup {
			res.Order = append(res.Order, img.Name)
		}
		res.Placements[img.Name] = *fit
		res.Images[img.Name] = img
	}
	res.Packed = len(res.Placements)

	return res, nil
}
