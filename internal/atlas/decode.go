package atlas

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decode reads an encoded image from r and normalizes it.
// Undecodable input is reported as ErrDecode.
func Decode(r io.Reader, name string) (Image, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return Image{}, fmt.Errorf("decode %s: %w: %v", name, ErrDecode, err)
	}
	return Normalize(src, name)
}
