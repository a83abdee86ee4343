package encoder

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
)

// Atomic counter for unique temp file names across goroutines.
var tempCounter atomic.Int64

// tool locates an external encoder binary once.
type tool struct {
	name string
	once sync.Once
	path string
}

func (t *tool) lookup() string {
	t.once.Do(func() {
		if path, err := exec.LookPath(t.name); err == nil {
			t.path = path
		}
	})
	return t.path
}

// runTool writes img as a temporary PNG, runs bin with args built from the
// source and destination paths, and returns the destination file.
func runTool(bin, ext string, img image.Image, args func(src, dst string) []string) ([]byte, error) {
	id := tempCounter.Add(1)
	srcFile, err := os.CreateTemp("", fmt.Sprintf("atlaspack_src_%d_*.png", id))
	if err != nil {
		return nil, fmt.Errorf("create temp: %w", err)
	}
	srcPath := srcFile.Name()
	defer os.Remove(srcPath)

	dstFile, err := os.CreateTemp("", fmt.Sprintf("atlaspack_dst_%d_*.%s", id, ext))
	if err != nil {
		srcFile.Close()
		return nil, fmt.Errorf("create temp: %w", err)
	}
	dstPath := dstFile.Name()
	dstFile.Close()
	defer os.Remove(dstPath)

	// Fast compression; the external tool does the real work.
	enc := &png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(srcFile, img); err != nil {
		srcFile.Close()
		return nil, fmt.Errorf("encode temp png: %w", err)
	}
	srcFile.Close()

	cmd := exec.Command(bin, args(srcPath, dstPath)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", bin, err, string(out))
	}
	return os.ReadFile(dstPath)
}

// WebPEncoder encodes lossless WebP by shelling out to cwebp.
// -exact keeps RGB under fully transparent pixels, which trimmed sprites
// may rely on.
// Install: brew install webp / apt install webp
type WebPEncoder struct {
	tool tool
}

// NewWebPEncoder returns a cwebp-backed encoder.
func NewWebPEncoder() *WebPEncoder {
	return &WebPEncoder{tool: tool{name: "cwebp"}}
}

func (e *WebPEncoder) Format() string    { return "webp" }
func (e *WebPEncoder) Extension() string { return "webp" }
func (e *WebPEncoder) Available() bool   { return e.tool.lookup() != "" }

func (e *WebPEncoder) Encode(img image.Image) ([]byte, error) {
	if !e.Available() {
		return nil, fmt.Errorf("cwebp not found in PATH; install with: brew install webp")
	}
	return runTool(e.tool.lookup(), "webp", img, func(src, dst string) []string {
		return []string{"-lossless", "-exact", "-z", "9", "-mt", "-quiet", src, "-o", dst}
	})
}

// AVIFEncoder encodes lossless AVIF by shelling out to avifenc.
// Install: brew install libavif / apt install libavif-bin
type AVIFEncoder struct {
	tool tool
}

// NewAVIFEncoder returns an avifenc-backed encoder.
func NewAVIFEncoder() *AVIFEncoder {
	return &AVIFEncoder{tool: tool{name: "avifenc"}}
}

func (e *AVIFEncoder) Format() string    { return "avif" }
func (e *AVIFEncoder) Extension() string { return "avif" }
func (e *AVIFEncoder) Available() bool   { return e.tool.lookup() != "" }

func (e *AVIFEncoder) Encode(img image.Image) ([]byte, error) {
	if !e.Available() {
		return nil, fmt.Errorf("avifenc not found in PATH; install with: brew install libavif")
	}
	return runTool(e.tool.lookup(), "avif", img, func(src, dst string) []string {
		return []string{"--lossless", "--speed", "6", "-j", "all", src, dst}
	})
}
