package tilemap

import (
	"fmt"
	"math"
)

// PixelSize is the world size of one map pixel.
// TMX positions are in pixels (top-left origin, y down); we convert to world
// units (bottom-left origin, y up) by scaling by PixelSize.
const PixelSize = 0.01

// Orientation of the map grid
type Orientation int

const (
	Orthogonal Orientation = iota
	Isometric
	Staggered
	Hexagonal
)

var orientationNames = []string{"orthogonal", "isometric", "staggered", "hexagonal"}

func (o Orientation) String() string {
	if int(o) < 0 || int(o) >= len(orientationNames) {
		return fmt.Sprintf("Orientation(%d)", int(o))
	}
	return orientationNames[o]
}

// ParseOrientation reads the TMX orientation token
func ParseOrientation(s string) (Orientation, bool) {
	for i, name := range orientationNames {
		if s == name {
			return Orientation(i), true
		}
	}
	return Orthogonal, false
}

// Vec2 is a 2D position or size in world units
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

func (v Vec2) Scale(f float64) Vec2 {
	return Vec2{v.X * f, v.Y * f}
}

// Info holds the map wide geometry all conversions are done against.
type Info struct {
	Orientation Orientation

	// in tiles
	Width  int
	Height int

	// in world units (pixels * PixelSize)
	TileWidth  float64
	TileHeight float64
}

// tileLocalInfo is the frame used for shapes defined on a single tile: one
// orthogonal cell of the tile's own size.
func tileLocalInfo(tileWidth, tileHeight int) Info {
	return Info{
		Orientation: Orthogonal,
		Width:       1,
		Height:      1,
		TileWidth:   float64(tileWidth) * PixelSize,
		TileHeight:  float64(tileHeight) * PixelSize,
	}
}

// MapWidth in world units
func (i Info) MapWidth() float64 {
	w := float64(i.Width)
	switch i.Orientation {
	case Isometric:
		return (w + float64(i.Height)) * 0.5 * i.TileWidth
	case Staggered, Hexagonal:
		return (w + 0.5) * i.TileWidth
	default:
		return w * i.TileWidth
	}
}

// MapHeight in world units
func (i Info) MapHeight() float64 {
	h := float64(i.Height)
	switch i.Orientation {
	case Isometric:
		return (float64(i.Width) + h) * 0.5 * i.TileHeight
	case Staggered:
		return (h + 1) * 0.5 * i.TileHeight
	case Hexagonal:
		return (h*0.75 + 0.25) * i.TileHeight
	default:
		return h * i.TileHeight
	}
}

// ConvertPosition turns a TMX pixel position into a world position.
func (i Info) ConvertPosition(pos Vec2) Vec2 {
	switch i.Orientation {
	case Isometric:
		// tiled measures both isometric axes in tile-height pixels.
		// (0,0) is the top corner of the diamond, H half tiles from the left.
		ix := pos.X * PixelSize / i.TileHeight
		iy := pos.Y * PixelSize / i.TileHeight
		return Vec2{
			X: (float64(i.Height) + ix - iy) * i.TileWidth * 0.5,
			Y: (float64(i.Width+i.Height) - ix - iy) * i.TileHeight * 0.5,
		}
	default:
		return Vec2{
			X: pos.X * PixelSize,
			Y: i.MapHeight() - pos.Y*PixelSize,
		}
	}
}

// TileIndexToPosition returns the world position of the bottom-left of the
// tile at (x, y), y counted from the top row.
func (i Info) TileIndexToPosition(x, y int) Vec2 {
	fx, fy := float64(x), float64(y)
	switch i.Orientation {
	case Isometric:
		return Vec2{
			X: (float64(i.Height) + fx - fy - 1) * i.TileWidth * 0.5,
			Y: (float64(i.Width+i.Height) - fx - fy - 2) * i.TileHeight * 0.5,
		}
	case Staggered, Hexagonal:
		step := 0.5
		if i.Orientation == Hexagonal {
			step = 0.75
		}
		px := fx * i.TileWidth
		if y%2 != 0 {
			px = (fx + 0.5) * i.TileWidth
		}
		return Vec2{X: px, Y: (float64(i.Height) - 1 - fy) * step * i.TileHeight}
	default:
		return Vec2{X: fx * i.TileWidth, Y: (float64(i.Height) - 1 - fy) * i.TileHeight}
	}
}

// PositionToTileIndex is the inverse of TileIndexToPosition. The returned
// bool is false when the position falls outside the map.
func (i Info) PositionToTileIndex(pos Vec2) (int, int, bool) {
	var x, y int
	switch i.Orientation {
	case Isometric:
		ox := pos.X/i.TileWidth - float64(i.Height)*0.5
		oy := float64(i.Width+i.Height)*0.5 - pos.Y/i.TileHeight
		x = int(math.Floor(oy + ox))
		y = int(math.Floor(oy - ox))
	case Staggered, Hexagonal:
		step := 0.5
		if i.Orientation == Hexagonal {
			step = 0.75
		}
		y = i.Height - 1 - int(math.Floor(pos.Y/(i.TileHeight*step)))
		if y%2 == 0 {
			x = int(math.Floor(pos.X / i.TileWidth))
		} else {
			x = int(math.Floor(pos.X/i.TileWidth - 0.5))
		}
	default:
		x = int(math.Floor(pos.X / i.TileWidth))
		y = i.Height - 1 - int(math.Floor(pos.Y/i.TileHeight))
	}
	return x, y, x >= 0 && x < i.Width && y >= 0 && y < i.Height
}
