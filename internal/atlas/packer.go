package atlas

import "image"

// Placement is the rectangle assigned to one image, in atlas pixels.
type Placement struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect returns the placement as an image.Rectangle.
func (p Placement) Rect() image.Rectangle {
	return image.Rect(p.X, p.Y, p.X+p.Width, p.Y+p.Height)
}

// node is one region of the free-space tree. A free node is a leaf; a used
// node holds a placed rectangle at its origin and owns exactly two children.
type node struct {
	x, y, w, h  int
	used        bool
	right, down int // arena indices, -1 while free
}

// Packer allocates rectangles inside a fixed width×height area.
//
// Each placement goes into the first free leaf found by a depth-first,
// right-before-down walk that is large enough; no best-fit comparison is
// made. The chosen leaf is split into a strip to the right of the rectangle
// (as tall as it) and the full-width band below it. The tree never grows
// past the root bounds.
//
// A Packer is not safe for concurrent use.
type Packer struct {
	width, height int
	nodes         []node
}

// NewPacker returns a packer whose root covers the full atlas.
func NewPacker(width, height int) *Packer {
	return &Packer{
		width:  width,
		height: height,
		nodes:  []node{{w: width, h: height, right: -1, down: -1}},
	}
}

// Insert places a w×h rectangle and reports whether it fit.
func (p *Packer) Insert(w, h int) (Placement, bool) {
	if w <= 0 || h <= 0 {
		return Placement{}, false
	}
	i := p.find(0, w, h)
	if i < 0 {
		return Placement{}, false
	}
	p.split(i, w, h)
	n := p.nodes[i]
	return Placement{X: n.x, Y: n.y, Width: w, Height: h}, true
}

func (p *Packer) find(i, w, h int) int {
	n := p.nodes[i]
	if n.used {
		if r := p.find(n.right, w, h); r >= 0 {
			return r
		}
		return p.find(n.down, w, h)
	}
	if w <= n.w && h <= n.h {
		return i
	}
	return -1
}

func (p *Packer) split(i, w, h int) {
	n := p.nodes[i]
	down := len(p.nodes)
	p.nodes = append(p.nodes,
		node{x: n.x, y: n.y + h, w: n.w, h: n.h - h, right: -1, down: -1},
		node{x: n.x + w, y: n.y, w: n.w - w, h: h, right: -1, down: -1},
	)
	p.nodes[i].used = true
	p.nodes[i].down = down
	p.nodes[i].right = down + 1
}

// Pack places sizes in order into a fresh width×height tree. The result is
// parallel to sizes; a nil entry means that rectangle did not fit.
func Pack(width, height int, sizes []image.Point) []*Placement {
	p := NewPacker(width, height)
	fits := make([]*Placement, len(sizes))
	for i, s := range sizes {
		if pl, ok := p.Insert(s.X, s.Y); ok {
			fits[i] = &pl
		}
	}
	return fits
}
