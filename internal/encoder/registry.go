package encoder

import (
	"fmt"
	"image/png"
	"strings"
)

// priority is the display order of formats.
var priority = []string{"png", "webp", "avif"}

// Registry holds all available encoders.
type Registry struct {
	encoders map[string]Encoder
}

// NewRegistry creates a registry, probing all encoders for availability.
func NewRegistry(compression png.CompressionLevel) *Registry {
	r := &Registry{
		encoders: make(map[string]Encoder),
	}

	// Register all encoders. Only available ones will be used.
	all := []Encoder{
		&PNGEncoder{Compression: compression},
		NewWebPEncoder(),
		NewAVIFEncoder(),
	}
	for _, enc := range all {
		if enc.Available() {
			r.encoders[enc.Format()] = enc
		}
	}

	return r
}

// Get returns an encoder for the given format, or nil if unavailable.
func (r *Registry) Get(format string) Encoder {
	return r.encoders[strings.ToLower(format)]
}

// Available returns all available format names.
func (r *Registry) Available() []string {
	var result []string
	for _, f := range priority {
		if _, ok := r.encoders[f]; ok {
			result = append(result, f)
		}
	}
	return result
}

// Resolve returns the encoder for format, falling back to PNG when the
// requested one is not installed. The bool reports whether a fallback
// happened.
func (r *Registry) Resolve(format string) (Encoder, bool) {
	if enc := r.Get(format); enc != nil {
		return enc, false
	}
	return r.encoders["png"], true
}

// Known reports whether format is one this registry can ever provide.
func Known(format string) bool {
	f := strings.ToLower(format)
	for _, p := range priority {
		if p == f {
			return true
		}
	}
	return false
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	avail := r.Available()
	if len(avail) == 0 {
		return "no encoders available"
	}
	return fmt.Sprintf("encoders: %s", strings.Join(avail, ", "))
}
