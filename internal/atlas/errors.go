package atlas

import "errors"

var (
	// ErrDecode is returned when input bytes are not a decodable image.
	ErrDecode = errors.New("not a decodable image")

	// ErrFullyTransparent is returned when every pixel of an image is
	// (0,0,0,0), leaving nothing to trim to.
	ErrFullyTransparent = errors.New("image is fully transparent")

	// ErrEmptyBatch is returned by Compose when no image survived
	// normalization.
	ErrEmptyBatch = errors.New("no images to pack")
)
