package pipeline

import (
	"fmt"
	"image"
	"os"

	"github.com/AnyUserName/atlaspack-cli/internal/atlas"
	"github.com/lucasb-eyer/go-colorful"
)

// loadResult holds the normalized form of a single source image.
type loadResult struct {
	src Source
	img atlas.Image
	err error
}

// loadImage opens, decodes and trims one source.
func loadImage(src Source) loadResult {
	result := loadResult{src: src}

	f, err := os.Open(src.AbsPath)
	if err != nil {
		result.err = fmt.Errorf("open %s: %w", src.RelPath, err)
		return result
	}
	defer f.Close()

	result.img, result.err = atlas.Decode(f, src.Key)
	return result
}

// computeAvgColor returns the alpha-weighted mean colour of img as
// "#rrggbb", or "" when every pixel is fully transparent.
func computeAvgColor(img *image.NRGBA) string {
	b := img.Bounds()
	var rSum, gSum, bSum, aSum uint64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		row := img.Pix[off : off+b.Dx()*4]
		for i := 0; i < len(row); i += 4 {
			a := uint64(row[i+3])
			rSum += uint64(row[i]) * a
			gSum += uint64(row[i+1]) * a
			bSum += uint64(row[i+2]) * a
			aSum += a
		}
	}
	if aSum == 0 {
		return ""
	}
	norm := float64(aSum) * 255
	c := colorful.Color{
		R: float64(rSum) / norm,
		G: float64(gSum) / norm,
		B: float64(bSum) / norm,
	}
	return c.Clamped().Hex()
}
