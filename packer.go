package tilemap

import (
	"image"
	"sort"
)

const (
	// atlas canvas starts at this size & doubles up to the max
	atlasStartSize = 128
	atlasMaxSize   = 2048
)

// Packer hands out non overlapping rectangles on a canvas that grows by
// doubling (alternating width & height) up to a maximum size.
//
// Allocation is first-fit over a list of free rectangles; the rectangle a
// request lands in is split into a strip to the right of the request and a
// strip below it. Requests are placed in the order they arrive.
type Packer struct {
	width, height       int
	maxWidth, maxHeight int
	growWidth           bool
	free                []image.Rectangle
}

// NewPacker returns a packer with a width x height canvas that may grow up to
// maxWidth x maxHeight.
func NewPacker(width, height, maxWidth, maxHeight int) *Packer {
	return &Packer{
		width:     width,
		height:    height,
		maxWidth:  maxWidth,
		maxHeight: maxHeight,
		growWidth: true,
		free:      []image.Rectangle{image.Rect(0, 0, width, height)},
	}
}

// Width of the canvas as it stands
func (p *Packer) Width() int {
	return p.width
}

// Height of the canvas as it stands
func (p *Packer) Height() int {
	return p.height
}

// Allocate reserves a w x h area & returns its top left corner.
// ok is false once the canvas is at its maximum size & nothing fits.
func (p *Packer) Allocate(w, h int) (x, y int, ok bool) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}

	for {
		for i, f := range p.free {
			if f.Dx() < w || f.Dy() < h {
				continue
			}
			p.split(i, w, h)
			return f.Min.X, f.Min.Y, true
		}
		if !p.grow() {
			return 0, 0, false
		}
	}
}

// split reserves w x h at the top left of free rect i, replacing it with
// whatever is left to the right & below.
func (p *Packer) split(i, w, h int) {
	f := p.free[i]
	right := image.Rect(f.Min.X+w, f.Min.Y, f.Max.X, f.Min.Y+h)
	below := image.Rect(f.Min.X, f.Min.Y+h, f.Max.X, f.Max.Y)

	parts := []image.Rectangle{}
	for _, r := range []image.Rectangle{right, below} {
		if !r.Empty() {
			parts = append(parts, r)
		}
	}

	rest := append([]image.Rectangle{}, p.free[i+1:]...)
	p.free = append(append(p.free[:i], parts...), rest...)
}

// grow doubles one axis of the canvas, returns false if both are maxed out.
func (p *Packer) grow() bool {
	canWidth := p.width < p.maxWidth
	canHeight := p.height < p.maxHeight

	switch {
	case p.growWidth && canWidth, !canHeight && canWidth:
		old := p.width
		p.width = min(p.width*2, p.maxWidth)
		p.extend(true, old, p.width, p.height)
		p.growWidth = false
	case canHeight:
		old := p.height
		p.height = min(p.height*2, p.maxHeight)
		p.extend(false, old, p.height, p.width)
		p.growWidth = true
	default:
		return false
	}
	return true
}

// extend adds the area between old & size along one axis to the free list.
// Free rects touching the old edge are stretched so large requests can use
// the space either side of the edge; the rest of the new strip is added as
// new free rects. `span` is the canvas size on the other axis.
func (p *Packer) extend(horizontal bool, old, size, span int) {
	type interval struct{ lo, hi int }
	covered := []interval{}

	for i, f := range p.free {
		if horizontal && f.Max.X == old {
			p.free[i].Max.X = size
			covered = append(covered, interval{f.Min.Y, f.Max.Y})
		} else if !horizontal && f.Max.Y == old {
			p.free[i].Max.Y = size
			covered = append(covered, interval{f.Min.X, f.Max.X})
		}
	}

	sort.Slice(covered, func(i, j int) bool { return covered[i].lo < covered[j].lo })

	at := 0
	gaps := append(covered, interval{span, span})
	for _, c := range gaps {
		if c.lo > at {
			if horizontal {
				p.free = append(p.free, image.Rect(old, at, size, c.lo))
			} else {
				p.free = append(p.free, image.Rect(at, old, c.lo, size))
			}
		}
		if c.hi > at {
			at = c.hi
		}
	}
}
