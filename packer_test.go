package tilemap

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackerFirstFit(t *testing.T) {
	p := NewPacker(128, 128, 2048, 2048)

	x, y, ok := p.Allocate(64, 32)
	require.True(t, ok)
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)

	// fills the strip to the right of the first request
	x, y, ok = p.Allocate(64, 32)
	require.True(t, ok)
	assert.Equal(t, 64, x)
	assert.Equal(t, 0, y)

	// then the space below
	x, y, ok = p.Allocate(128, 96)
	require.True(t, ok)
	assert.Equal(t, 0, x)
	assert.Equal(t, 32, y)

	assert.Equal(t, 128, p.Width())
	assert.Equal(t, 128, p.Height())
}

func TestPackerGrowsAlternatingAxes(t *testing.T) {
	p := NewPacker(128, 128, 2048, 2048)

	_, _, ok := p.Allocate(200, 10)
	require.True(t, ok)
	assert.Equal(t, 256, p.Width())
	assert.Equal(t, 128, p.Height())

	_, _, ok = p.Allocate(10, 200)
	require.True(t, ok)
	assert.Equal(t, 256, p.Width())
	assert.Equal(t, 256, p.Height())

	_, _, ok = p.Allocate(300, 300)
	require.True(t, ok)
	assert.True(t, p.Width() >= 300)
	assert.True(t, p.Height() >= 300)
}

func TestPackerOverflow(t *testing.T) {
	p := NewPacker(128, 128, 2048, 2048)

	_, _, ok := p.Allocate(2049, 1)
	assert.False(t, ok)
	assert.Equal(t, 2048, p.Width())
	assert.Equal(t, 2048, p.Height())

	// a full size request still fits
	x, y, ok := p.Allocate(2048, 2048)
	require.True(t, ok)
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)

	_, _, ok = p.Allocate(1, 1)
	assert.False(t, ok)
}

func TestPackerNoOverlap(t *testing.T) {
	p := NewPacker(128, 128, 1024, 1024)

	sizes := []image.Point{}
	for i := 0; i < 60; i++ {
		sizes = append(sizes, image.Pt(10+(i*37)%90, 10+(i*53)%70))
	}

	placed := []image.Rectangle{}
	for _, s := range sizes {
		x, y, ok := p.Allocate(s.X, s.Y)
		require.True(t, ok)
		placed = append(placed, image.Rect(x, y, x+s.X, y+s.Y))
	}

	canvas := image.Rect(0, 0, p.Width(), p.Height())
	for i, a := range placed {
		assert.True(t, a.In(canvas), "%v outside %v", a, canvas)
		for _, b := range placed[i+1:] {
			assert.False(t, a.Overlaps(b), "%v overlaps %v", a, b)
		}
	}
}

func TestPackerFreeListStaysDisjoint(t *testing.T) {
	p := NewPacker(128, 128, 2048, 2048)
	for _, s := range []image.Point{{100, 20}, {20, 100}, {150, 150}, {5, 5}, {400, 30}} {
		_, _, ok := p.Allocate(s.X, s.Y)
		require.True(t, ok)
	}

	canvas := image.Rect(0, 0, p.Width(), p.Height())
	for i, a := range p.free {
		assert.True(t, a.In(canvas))
		for _, b := range p.free[i+1:] {
			assert.False(t, a.Overlaps(b), "free %v overlaps %v", a, b)
		}
	}
}

func TestPackerZeroSize(t *testing.T) {
	p := NewPacker(128, 128, 128, 128)

	_, _, ok := p.Allocate(0, 0)
	assert.True(t, ok)

	x, y, ok := p.Allocate(128, 128)
	assert.True(t, ok)
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)
}
