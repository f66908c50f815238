package tilemap

// LayerKind tells which variant a Layer is
type LayerKind int

const (
	TileLayerKind LayerKind = iota
	ObjectGroupKind
	ImageLayerKind
)

func (k LayerKind) String() string {
	switch k {
	case TileLayerKind:
		return "tile"
	case ObjectGroupKind:
		return "object"
	case ImageLayerKind:
		return "image"
	}
	return "unknown"
}

// Layer is one of *TileLayer, *ObjectGroup or *ImageLayer.
// Switch on the concrete type (or Kind) to get at the payload.
type Layer interface {
	Kind() LayerKind
	Header() *LayerHeader
}

// LayerHeader holds what all layer kinds share.
type LayerHeader struct {
	Name       string
	Width      int // in tiles
	Height     int // in tiles
	Visible    bool
	Properties *PropertySet // nil if the layer has no <properties>
}

func (h *LayerHeader) Header() *LayerHeader {
	return h
}

// loadHeader reads the attributes common to <layer>, <objectgroup> & <imagelayer>
func loadHeader(el *element) LayerHeader {
	h := LayerHeader{
		Name:    el.String("name"),
		Width:   el.Int("width"),
		Height:  el.Int("height"),
		Visible: true,
	}
	if el.HasAttr("visible") {
		h.Visible = el.Int("visible") != 0
	}
	if props := el.Child("properties"); props != nil {
		h.Properties = loadPropertySet(props)
	}
	return h
}

// Tile is one cell of a TileLayer
type Tile struct {
	GID int

	// Entry is the registry entry of GID, nil if no tileset defines it.
	Entry *TileEntry
}

// Sprite of the tile, nil if the gid is unknown
func (t *Tile) Sprite() *Sprite {
	if t.Entry == nil {
		return nil
	}
	return t.Entry.Sprite
}

// Properties of the tile, nil if none are set
func (t *Tile) Properties() *PropertySet {
	if t.Entry == nil {
		return nil
	}
	return t.Entry.Properties
}

// ObjectGroup defined on the tile in its tileset, or nil
func (t *Tile) ObjectGroup() *ObjectGroup {
	if t.Entry == nil {
		return nil
	}
	return t.Entry.ObjectGroup
}

// TileLayer is a grid of tiles, Width x Height, stored row major.
type TileLayer struct {
	LayerHeader
	tiles []Tile
}

// NewTileLayer returns an empty (all gid 0) tile layer
func NewTileLayer(name string, width, height int) *TileLayer {
	return &TileLayer{
		LayerHeader: LayerHeader{Name: name, Width: width, Height: height, Visible: true},
		tiles:       make([]Tile, width*height),
	}
}

func (l *TileLayer) Kind() LayerKind {
	return TileLayerKind
}

// At returns the tile at (x, y) or nil if the cell is empty or out of bounds.
// (0,0) is the top left cell.
func (l *TileLayer) At(x, y int) *Tile {
	if x < 0 || x >= l.Width || y < 0 || y >= l.Height {
		return nil
	}
	t := &l.tiles[y*l.Width+x]
	if t.GID == 0 {
		// the nil tile
		return nil
	}
	return t
}

// GIDs returns a copy of the raw gid grid, row major
func (l *TileLayer) GIDs() []int {
	out := make([]int, len(l.tiles))
	for i, t := range l.tiles {
		out[i] = t.GID
	}
	return out
}

// ObjectGroup is a layer of free form objects. Tiles may also carry one,
// describing shapes in the tile's own frame.
type ObjectGroup struct {
	LayerHeader
	objects []*Object
}

func (g *ObjectGroup) Kind() LayerKind {
	return ObjectGroupKind
}

func (g *ObjectGroup) NumObjects() int {
	return len(g.objects)
}

// Object returns the i'th object or nil
func (g *ObjectGroup) Object(i int) *Object {
	if i < 0 || i >= len(g.objects) {
		return nil
	}
	return g.objects[i]
}

func (g *ObjectGroup) Objects() []*Object {
	return g.objects
}

// ImageLayer is a single image anchored at its top left corner.
type ImageLayer struct {
	LayerHeader

	// world position of the image's top left
	Position Vec2

	// image file as written in the map
	Source string

	Sprite *Sprite
}

func (l *ImageLayer) Kind() LayerKind {
	return ImageLayerKind
}
