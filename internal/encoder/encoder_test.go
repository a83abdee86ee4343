package encoder

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestPNGEncoder_Lossless(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	src.SetNRGBA(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 40})
	src.SetNRGBA(6, 3, color.NRGBA{R: 255, A: 255})

	enc := &PNGEncoder{Compression: png.BestCompression}
	data, err := enc.Encode(src)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	out, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	nrgba, ok := out.(*image.NRGBA)
	if !ok {
		t.Fatalf("decoded type %T, want *image.NRGBA", out)
	}
	if !bytes.Equal(nrgba.Pix, src.Pix) {
		t.Error("round-tripped pixels differ")
	}
}

func TestParseCompression(t *testing.T) {
	tests := []struct {
		in      string
		want    png.CompressionLevel
		wantErr bool
	}{
		{"", png.BestCompression, false},
		{"best", png.BestCompression, false},
		{"fast", png.BestSpeed, false},
		{"none", png.NoCompression, false},
		{"default", png.DefaultCompression, false},
		{"ultra", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseCompression(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("%q: err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("%q: got %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRegistry_ResolveFallsBackToPNG(t *testing.T) {
	r := NewRegistry(png.DefaultCompression)

	enc, fellBack := r.Resolve("png")
	if enc == nil || enc.Format() != "png" || fellBack {
		t.Fatalf("png: got %v fallback=%v", enc, fellBack)
	}

	enc, _ = r.Resolve("bmp")
	if enc == nil || enc.Format() != "png" {
		t.Fatalf("unknown format should fall back to png, got %v", enc)
	}
	if r.Available()[0] != "png" {
		t.Errorf("available: %v", r.Available())
	}
}

func TestKnown(t *testing.T) {
	for _, f := range []string{"png", "WEBP", "avif"} {
		if !Known(f) {
			t.Errorf("%s should be known", f)
		}
	}
	if Known("jpeg") {
		t.Error("jpeg drops alpha and must not be offered")
	}
}
