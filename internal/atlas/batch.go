package atlas

import (
	"fmt"
	"image"
	"io"
)

// Outcome reports what happened to one submitted image.
type Outcome struct {
	Name    string
	OK      bool
	Message string
	Err     error
}

// Batch collects normalized images for a single packing run. The zero
// value is ready to use. Rejected images never enter the batch.
type Batch struct {
	images []Image
}

// Add normalizes a decoded image and appends it to the batch.
func (b *Batch) Add(src image.Image, name string) Outcome {
	img, err := Normalize(src, name)
	return b.Submit(name, img, err)
}

// AddReader decodes, normalizes and appends an encoded image.
func (b *Batch) AddReader(r io.Reader, name string) Outcome {
	img, err := Decode(r, name)
	return b.Submit(name, img, err)
}

// Submit records the result of a Normalize or Decode done elsewhere, for
// callers that normalize in parallel and collect sequentially.
func (b *Batch) Submit(name string, img Image, err error) Outcome {
	if err != nil {
		return Outcome{Name: name, Message: err.Error(), Err: err}
	}
	b.images = append(b.images, img)
	return Outcome{
		Name:    name,
		OK:      true,
		Message: fmt.Sprintf("added %s (%dx%d)", name, img.Width, img.Height),
	}
}

// Len returns the number of accepted images.
func (b *Batch) Len() int { return len(b.images) }

// Images returns the accepted images in submission order.
func (b *Batch) Images() []Image { return b.images }

// Reset empties the batch.
func (b *Batch) Reset() { b.images = nil }

// Pack composes the batch into an atlas.
func (b *Batch) Pack(opts Options) (*Result, error) {
	return Compose(b.images, opts)
}
