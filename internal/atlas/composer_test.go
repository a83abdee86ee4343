package atlas

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strconv"
	"strings"
	"testing"
)

var red = color.NRGBA{R: 255, A: 255}

func TestCompose_SingleSquare(t *testing.T) {
	var b Batch
	if out := b.Add(solid(10, 10, red), "red"); !out.OK {
		t.Fatalf("add: %s", out.Message)
	}

	res, err := b.Pack(Options{MaxSize: 16384})
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	if res.Width != 16 || res.Height != 16 {
		t.Errorf("atlas: got %dx%d, want 16x16", res.Width, res.Height)
	}
	if got := res.Placements["red"]; got != (Placement{X: 0, Y: 0, Width: 10, Height: 10}) {
		t.Errorf("placement: got %+v", got)
	}
	if res.Packed != 1 || res.Total != 1 {
		t.Errorf("counts: got %d/%d", res.Packed, res.Total)
	}
	if got := res.Atlas.NRGBAAt(5, 5); got != red {
		t.Errorf("atlas pixel (5,5): got %v", got)
	}
	if got := res.Atlas.NRGBAAt(12, 12); got != (color.NRGBA{}) {
		t.Errorf("atlas pixel (12,12): got %v, want transparent", got)
	}
	if want := "Packed 1 of 1 images. Atlas size: 16x16"; res.Status() != want {
		t.Errorf("status: got %q", res.Status())
	}
}

func TestCompose_FullyTransparentOnly(t *testing.T) {
	var b Batch
	out := b.Add(image.NewNRGBA(image.Rect(0, 0, 50, 50)), "clear")
	if out.OK || !errors.Is(out.Err, ErrFullyTransparent) {
		t.Fatalf("outcome: %+v", out)
	}
	if b.Len() != 0 {
		t.Fatalf("batch len: got %d, want 0", b.Len())
	}

	res, err := b.Pack(Options{})
	if !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("err: got %v, want ErrEmptyBatch", err)
	}
	if res != nil {
		t.Error("expected no result")
	}
}

func TestCompose_LargestFirst(t *testing.T) {
	var b Batch
	b.Add(solid(50, 50, color.NRGBA{G: 255, A: 255}), "small")
	b.Add(solid(100, 100, red), "big")

	res, err := b.Pack(Options{MaxSize: 4096})
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	if got := res.Placements["big"]; got.X != 0 || got.Y != 0 {
		t.Errorf("big: got %+v, want (0,0)", got)
	}
	if got := res.Placements["small"]; got.X != 100 || got.Y != 0 {
		t.Errorf("small: got %+v, want (100,0)", got)
	}
	if len(res.Order) != 2 || res.Order[0] != "big" {
		t.Errorf("order: got %v", res.Order)
	}
	if got := res.Atlas.NRGBAAt(120, 20); got.G != 255 {
		t.Errorf("small sprite not blitted: %v", got)
	}
}

func TestCompose_StableTies(t *testing.T) {
	images := []Image{
		mustNormalize(t, solid(8, 4, red), "a"),
		mustNormalize(t, solid(4, 8, red), "b"),
		mustNormalize(t, solid(16, 2, red), "c"),
	}
	res, err := Compose(images, Options{})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	want := []string{"a", "b", "c"}
	for i, name := range want {
		if res.Order[i] != name {
			t.Fatalf("order: got %v, want %v", res.Order, want)
		}
	}
}

func TestCompose_OverflowClampsAndSkips(t *testing.T) {
	// One shared buffer keeps memory flat; only dimensions matter here.
	pixels := solid(500, 500, red)
	images := make([]Image, 2000)
	for i := range images {
		images[i] = Image{Name: "tile" + strconv.Itoa(i), Pixels: pixels, Width: 500, Height: 500}
	}

	res, err := Compose(images, Options{MaxSize: 4096})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if res.Width != 4096 || res.Height != 4096 {
		t.Errorf("atlas: got %dx%d, want 4096x4096", res.Width, res.Height)
	}
	if res.Packed != 64 {
		t.Errorf("packed: got %d, want 64 (8 rows of 8)", res.Packed)
	}
	if res.Total != 2000 || len(res.Unplaced) != 2000-res.Packed {
		t.Errorf("total %d, unplaced %d", res.Total, len(res.Unplaced))
	}
	assertLayout(t, res)
}

func TestCompose_ZeroPacked(t *testing.T) {
	var b Batch
	b.Add(solid(20, 20, red), "too-big")

	res, err := b.Pack(Options{MaxSize: 8})
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	if !res.ZeroPacked() {
		t.Errorf("expected zero packed, got %d/%d", res.Packed, res.Total)
	}
	if len(res.Placements) != 0 || len(res.Unplaced) != 1 {
		t.Errorf("placements %v unplaced %v", res.Placements, res.Unplaced)
	}
	if res.Atlas == nil || res.Width != 8 {
		t.Error("atlas should still be allocated")
	}
}

func TestCompose_DuplicateNamesLastWins(t *testing.T) {
	var b Batch
	b.Add(solid(30, 30, red), "sprite")
	b.Add(solid(10, 10, color.NRGBA{B: 255, A: 255}), "sprite")

	res, err := b.Pack(Options{})
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	if res.Packed != 1 || res.Total != 2 {
		t.Errorf("counts: got %d/%d", res.Packed, res.Total)
	}
	if got := res.Placements["sprite"]; got.Width != 10 {
		t.Errorf("placement: got %+v, want the later 10x10", got)
	}
	if len(res.Duplicates) != 1 || res.Duplicates[0] != "sprite" {
		t.Errorf("duplicates: got %v", res.Duplicates)
	}
	if len(res.Order) != 1 {
		t.Errorf("order: got %v", res.Order)
	}
}

func TestCompose_MonotonicInMaxSize(t *testing.T) {
	images := make([]Image, 30)
	for i := range images {
		images[i] = mustNormalize(t, solid(10, 10, red), "sq"+strconv.Itoa(i))
	}

	prev := -1
	for _, maxSize := range []int{8, 16, 24, 32, 50, 64, 128, 4096} {
		res, err := Compose(images, Options{MaxSize: maxSize})
		if err != nil {
			t.Fatalf("max %d: %v", maxSize, err)
		}
		if res.Packed < prev {
			t.Fatalf("max %d: packed %d dropped below %d", maxSize, res.Packed, prev)
		}
		prev = res.Packed
		assertLayout(t, res)
	}
	if prev != 30 {
		t.Errorf("largest max size packed %d, want 30", prev)
	}
}

func TestCompose_MixedBatchLayout(t *testing.T) {
	var b Batch
	for i := 0; i < 60; i++ {
		w, h := 3+(i*37)%61, 2+(i*53)%47
		b.Add(solid(w, h, color.NRGBA{R: uint8(i), G: 9, B: 200, A: 255}), "s"+strconv.Itoa(i))
	}
	res, err := b.Pack(Options{MaxSize: 16384})
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	assertLayout(t, res)
	if res.FillRatio() <= 0 || res.FillRatio() > 1 {
		t.Errorf("fill ratio out of range: %f", res.FillRatio())
	}
	for name, p := range res.Placements {
		img := res.Images[name]
		if got, want := res.Atlas.NRGBAAt(p.X, p.Y), img.Pixels.NRGBAAt(0, 0); got != want {
			t.Errorf("%s: atlas origin %v, sprite origin %v", name, got, want)
		}
	}
}

func TestBatch_AddReader(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, solid(12, 7, red)); err != nil {
		t.Fatal(err)
	}

	var b Batch
	ok := b.AddReader(&buf, "sprite.png")
	if !ok.OK || ok.Message != "added sprite.png (12x7)" {
		t.Errorf("outcome: %+v", ok)
	}
	bad := b.AddReader(strings.NewReader("nope"), "broken.png")
	if bad.OK || !errors.Is(bad.Err, ErrDecode) {
		t.Errorf("outcome: %+v", bad)
	}
	if b.Len() != 1 {
		t.Errorf("len: got %d", b.Len())
	}
	b.Reset()
	if b.Len() != 0 {
		t.Error("reset left images behind")
	}
}

// assertLayout checks that placements stay inside the atlas, never overlap
// and that the atlas is square.
func assertLayout(t *testing.T, res *Result) {
	t.Helper()
	if res.Width != res.Height {
		t.Fatalf("atlas not square: %dx%d", res.Width, res.Height)
	}
	bounds := image.Rect(0, 0, res.Width, res.Height)
	rects := make([]image.Rectangle, 0, len(res.Placements))
	for name, p := range res.Placements {
		r := p.Rect()
		if !r.In(bounds) {
			t.Fatalf("%s: %v outside %v", name, r, bounds)
		}
		for _, o := range rects {
			if r.Overlaps(o) {
				t.Fatalf("%s: %v overlaps %v", name, r, o)
			}
		}
		rects = append(rects, r)
	}
}

func mustNormalize(t *testing.T, src image.Image, name string) Image {
	t.Helper()
	img, err := Normalize(src, name)
	if err != nil {
		t.Fatalf("normalize %s: %v", name, err)
	}
	return img
}
