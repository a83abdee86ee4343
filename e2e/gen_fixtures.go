//go:build ignore

// gen_fixtures creates sprite images for the E2E smoke test: padded
// sprites to trim, one opaque JPEG, one fully transparent reject and one
// undecodable file.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	os.MkdirAll(filepath.Join(dir, "items"), 0o755)

	// Background tile (JPEG, opaque, nothing to trim)
	writeJPEG(filepath.Join(dir, "tile.jpg"), gradient(128, 128))

	// Items (PNG, 64x64 canvases with smaller centred content)
	for i := 1; i <= 6; i++ {
		name := fmt.Sprintf("item-%d.png", i)
		writeImage(filepath.Join(dir, "items", name), paddedDisc(64, 64, 8+i*4, uint8(i*40)))
	}

	// Soft-edged glow
	writeImage(filepath.Join(dir, "glow.png"), alphaGradient(96, 32))

	// Rejects
	writeImage(filepath.Join(dir, "empty.png"), image.NewNRGBA(image.Rect(0, 0, 50, 50)))
	os.WriteFile(filepath.Join(dir, "corrupt.png"), []byte("\x89PNG truncated"), 0o644)

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 10 fixtures in %s\n", dir)
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

// paddedDisc draws a filled disc of radius r in the middle of a
// transparent w×h canvas.
func paddedDisc(w, h, r int, base uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	cx, cy := w/2, h/2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r*r {
				img.SetNRGBA(x, y, color.NRGBA{R: base, G: 255 - base, B: 90, A: 255})
			}
		}
	}
	return img
}

func alphaGradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: 220, G: 60, B: 30,
				A: uint8(x * 255 / w),
			})
		}
	}
	return img
}

func writeImage(path string, img *image.NRGBA) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		panic(err)
	}
}

func writeJPEG(path string, img *image.NRGBA) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 85}); err != nil {
		panic(err)
	}
}
