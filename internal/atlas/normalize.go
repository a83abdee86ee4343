package atlas

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Image is a trimmed sprite ready for packing.
type Image struct {
	// Name identifies the sprite in the placement map.
	Name string
	// Pixels holds the trimmed straight-alpha buffer with origin (0,0).
	Pixels *image.NRGBA
	// Width and Height are the post-trim dimensions, both >= 1.
	Width  int
	Height int
	// Offset is the trim origin inside the source canvas.
	Offset image.Point
	// SourceWidth and SourceHeight are the canvas size before trimming.
	SourceWidth  int
	SourceHeight int
}

// Area returns Width*Height.
func (img Image) Area() int {
	return img.Width * img.Height
}

// Normalize converts src to NRGBA and crops it to its content bounds.
// A pixel is content when any of its four raw channels is non-zero, so
// opaque black counts. Images without content yield ErrFullyTransparent.
func Normalize(src image.Image, name string) (Image, error) {
	if src == nil {
		return Image{}, fmt.Errorf("normalize %s: %w", name, ErrDecode)
	}
	b := src.Bounds()
	if b.Empty() {
		return Image{}, fmt.Errorf("normalize %s: %w", name, ErrFullyTransparent)
	}

	// Clone re-bases to (0,0) and synthesizes full opacity for formats
	// without alpha.
	canvas := imaging.Clone(src)

	box, ok := contentBounds(canvas)
	if !ok {
		return Image{}, fmt.Errorf("normalize %s: %w", name, ErrFullyTransparent)
	}

	pixels := canvas
	if box != canvas.Bounds() {
		pixels = imaging.Crop(canvas, box)
	}

	return Image{
		Name:         name,
		Pixels:       pixels,
		Width:        box.Dx(),
		Height:       box.Dy(),
		Offset:       box.Min,
		SourceWidth:  b.Dx(),
		SourceHeight: b.Dy(),
	}, nil
}

// contentBounds returns the minimal rectangle holding every pixel that is
// not (0,0,0,0). The image must be based at (0,0).
func contentBounds(img *image.NRGBA) (image.Rectangle, bool) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	minX, minY := w, h
	maxX, maxY := -1, -1

	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			i := x * 4
			if row[i]|row[i+1]|row[i+2]|row[i+3] == 0 {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			maxY = y
		}
	}

	if maxX < 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}
