package pipeline

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/AnyUserName/atlaspack-cli/internal/config"
	"github.com/AnyUserName/atlaspack-cli/internal/manifest"
	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zip"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

// padded returns a w×h canvas with an inner content×content square of c.
func padded(w, h, content int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	r := image.Rect(0, 0, content, content).Add(image.Pt((w-content)/2, (h-content)/2))
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func newTestPipeline(in, out string, s config.Settings) *Pipeline {
	return New(Config{
		InputDir:  in,
		OutputDir: out,
		Settings:  s,
		Logger:    log.New(io.Discard),
	})
}

func TestRun_EndToEnd(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writePNG(t, filepath.Join(in, "hero.png"), padded(120, 120, 100, color.NRGBA{R: 255, A: 255}))
	writePNG(t, filepath.Join(in, "items", "coin.png"), padded(50, 50, 50, color.NRGBA{G: 255, A: 255}))
	writePNG(t, filepath.Join(in, "blank.png"), image.NewNRGBA(image.Rect(0, 0, 50, 50)))
	if err := os.WriteFile(filepath.Join(in, "broken.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := config.Default("4k")
	s.Workers = 2
	res, err := newTestPipeline(in, out, s).Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	m := res.Manifest
	if len(m.Sprites) != 2 || len(m.Rejected) != 2 {
		t.Fatalf("sprites %d rejected %d", len(m.Sprites), len(m.Rejected))
	}
	hero := m.Sprites["hero"]
	if hero.X != 0 || hero.Y != 0 || hero.Width != 100 || hero.OffsetX != 10 || hero.SourceWidth != 120 {
		t.Errorf("hero: %+v", hero)
	}
	if hero.AvgColor != "#ff0000" {
		t.Errorf("hero avg colour: %q", hero.AvgColor)
	}
	if coin := m.Sprites["items/coin"]; coin.X != 100 || coin.Y != 0 {
		t.Errorf("coin: %+v", coin)
	}
	if m.Atlas.Width != 256 || m.Atlas.Format != "png" || len(m.Atlas.Hash) != 16 {
		t.Errorf("atlas info: %+v", m.Atlas)
	}
	if m.Stats.TotalImages != 4 || m.Stats.Packed != 2 || m.Stats.Rejected != 2 {
		t.Errorf("stats: %+v", m.Stats)
	}

	for _, p := range []string{res.AtlasPath, res.ManifestPath, res.CoordinatesPath} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing output %s: %v", p, err)
		}
	}
	if res.BundlePath != "" {
		t.Errorf("bundle written without being enabled: %s", res.BundlePath)
	}

	loaded, err := manifest.Load(res.ManifestPath)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	if loaded.Atlas.File != filepath.Base(res.AtlasPath) {
		t.Errorf("manifest atlas file %q, wrote %q", loaded.Atlas.File, res.AtlasPath)
	}

	f, err := os.Open(res.AtlasPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode atlas: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 256 || b.Dy() != 256 {
		t.Errorf("atlas bounds: %v", b)
	}
	if _, _, _, a := decoded.At(120, 20).RGBA(); a == 0 {
		t.Error("coin pixels missing from atlas")
	}
}

func TestRun_ZeroPackedPolicy(t *testing.T) {
	in := t.TempDir()
	writePNG(t, filepath.Join(in, "big.png"), padded(20, 20, 20, color.NRGBA{B: 255, A: 255}))

	s := config.Default("4k")
	s.Profile.MaxSize = 8

	_, err := newTestPipeline(in, t.TempDir(), s).Run()
	if !errors.Is(err, ErrNothingPacked) {
		t.Fatalf("err: got %v, want ErrNothingPacked", err)
	}

	s.AllowEmpty = true
	res, err := newTestPipeline(in, t.TempDir(), s).Run()
	if err != nil {
		t.Fatalf("allow empty: %v", err)
	}
	if len(res.Manifest.Sprites) != 0 || len(res.Manifest.Unplaced) != 1 {
		t.Errorf("manifest: sprites %d unplaced %v", len(res.Manifest.Sprites), res.Manifest.Unplaced)
	}
	if res.Manifest.Atlas.Width != 8 {
		t.Errorf("atlas width: %d", res.Manifest.Atlas.Width)
	}
}

func TestRun_AllRejected(t *testing.T) {
	in := t.TempDir()
	writePNG(t, filepath.Join(in, "clear.png"), image.NewNRGBA(image.Rect(0, 0, 50, 50)))

	_, err := newTestPipeline(in, t.TempDir(), config.Default("16k")).Run()
	if err == nil {
		t.Fatal("expected empty batch error")
	}
}

func TestRun_Bundle(t *testing.T) {
	in := t.TempDir()
	writePNG(t, filepath.Join(in, "a.png"), padded(16, 16, 8, color.NRGBA{R: 9, A: 255}))

	s := config.Default("4k")
	s.Profile.Bundle = true
	s.KeepExt = true
	res, err := newTestPipeline(in, t.TempDir(), s).Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, ok := res.Manifest.Sprites["a.png"]; !ok {
		t.Errorf("keep-ext name missing: %v", res.Manifest.Sprites)
	}

	zr, err := zip.OpenReader(res.BundlePath)
	if err != nil {
		t.Fatalf("open bundle: %v", err)
	}
	defer zr.Close()

	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
	}
	for _, want := range []string{res.Manifest.Atlas.File, manifest.CoordinatesFile, manifest.ManifestFile} {
		if !names[want] {
			t.Errorf("bundle missing %s (have %v)", want, names)
		}
	}
}

func TestComputeAvgColor(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{B: 255, A: 0}) // invisible, ignored

	if got := computeAvgColor(img); got != "#ff0000" {
		t.Errorf("got %q, want #ff0000", got)
	}
	if got := computeAvgColor(image.NewNRGBA(image.Rect(0, 0, 3, 3))); got != "" {
		t.Errorf("transparent: got %q, want empty", got)
	}
}
