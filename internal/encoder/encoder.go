package encoder

import (
	"image"
)

// Encoder serializes an atlas without losing pixels or alpha.
type Encoder interface {
	// Format returns the output format name (e.g. "png", "webp", "avif").
	Format() string

	// Encode converts the image to bytes.
	Encode(img image.Image) ([]byte, error)

	// Available returns true if the encoder is ready to use.
	// External encoders (cwebp, avifenc) may not be installed.
	Available() bool

	// Extension returns the file extension without dot.
	Extension() string
}
