/* file holds the Document: a loaded map with its layers & tile registry,
and the parse that builds one.
*/
package tilemap

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
)

// versions of the map format we read
var supportedVersions = map[string]bool{
	"1.0":   true,
	"1.0.0": true,
}

// Document is a loaded tile map.
// A Document produced by Parse is complete; it's never returned half loaded.
type Document struct {
	info       Info
	layers     []Layer
	registry   *Registry
	properties *PropertySet
	textures   []Texture
	warnings   []string
}

// New returns an empty document, to be built up with SetInfo & AddLayer.
func New() *Document {
	return &Document{registry: newRegistry()}
}

// Info returns the map geometry
func (d *Document) Info() Info {
	return d.info
}

// SetInfo sets the map geometry, tile sizes in pixels.
// Geometry is fixed once layers exist, so this fails with ErrLayersExist then.
func (d *Document) SetInfo(o Orientation, width, height int, tileWidth, tileHeight float64) error {
	if len(d.layers) > 0 {
		return newError(ErrLayersExist, "cannot change info of a map with %d layer(s)", len(d.layers))
	}
	d.info = Info{
		Orientation: o,
		Width:       width,
		Height:      height,
		TileWidth:   tileWidth * PixelSize,
		TileHeight:  tileHeight * PixelSize,
	}
	return nil
}

// AddLayer appends a layer
func (d *Document) AddLayer(l Layer) {
	d.layers = append(d.layers, l)
}

// InsertLayer puts a layer at index i, appending if i is past the end.
func (d *Document) InsertLayer(i int, l Layer) {
	if i < 0 {
		i = 0
	}
	if i >= len(d.layers) {
		d.layers = append(d.layers, l)
		return
	}
	d.layers = append(d.layers, nil)
	copy(d.layers[i+1:], d.layers[i:])
	d.layers[i] = l
}

func (d *Document) NumLayers() int {
	return len(d.layers)
}

// Layer returns the i'th layer in document order, or nil.
func (d *Document) Layer(i int) Layer {
	if i < 0 || i >= len(d.layers) {
		return nil
	}
	return d.layers[i]
}

func (d *Document) Layers() []Layer {
	return d.layers
}

// Registry of every gid defined by the map's tilesets
func (d *Document) Registry() *Registry {
	return d.registry
}

// TileSprite returns the sprite of gid or nil
func (d *Document) TileSprite(gid int) *Sprite {
	if e := d.registry.Get(gid); e != nil {
		return e.Sprite
	}
	return nil
}

// TileProperties returns the properties of gid or nil
func (d *Document) TileProperties(gid int) *PropertySet {
	if e := d.registry.Get(gid); e != nil {
		return e.Properties
	}
	return nil
}

// TileCollisionShapes returns the collision shapes of gid (possibly empty)
func (d *Document) TileCollisionShapes(gid int) []*Object {
	if e := d.registry.Get(gid); e != nil {
		return e.CollisionShapes
	}
	return nil
}

// TileObjectGroup returns the object group defined on gid or nil
func (d *Document) TileObjectGroup(gid int) *ObjectGroup {
	if e := d.registry.Get(gid); e != nil {
		return e.ObjectGroup
	}
	return nil
}

// Properties set on the map itself, nil if none
func (d *Document) Properties() *PropertySet {
	return d.properties
}

// Textures returns the sheet & atlas textures of the map's tilesets, in tileset order.
func (d *Document) Textures() []Texture {
	return d.textures
}

// Warnings lists things that were skipped without failing the load
// (eg. polygons with too few points).
func (d *Document) Warnings() []string {
	return d.warnings
}

// Load replaces the document with the map read from r.
// On failure the document is left empty.
func (d *Document) Load(r io.Reader, cfg *Config) error {
	nd, err := Decode(r, cfg)
	if err != nil {
		*d = *New()
		return err
	}
	*d = *nd
	return nil
}

// Open reads a map file. If cfg has no Resources, files are read relative to
// the map's directory.
func Open(fname string, cfg *Config) (*Document, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, wrapError(ErrResourceMissing, err, "map %s", fname)
	}

	c := Config{}
	if cfg != nil {
		c = *cfg
	}
	if c.Resources == nil {
		c.Resources = NewDirResources(filepath.Dir(fname))
		c.BaseDir = ""
	}
	return Parse(data, &c)
}

// Decode a map from a stream
func Decode(r io.Reader, cfg *Config) (*Document, error) {
	buf := bytes.Buffer{}
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, wrapError(ErrMalformedDocument, err, "read")
	}
	return Parse(buf.Bytes(), cfg)
}

// Parse a map document. Tilesets are all resolved before any layer is read;
// any failure aborts the whole parse.
func Parse(data []byte, cfg *Config) (*Document, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Resources == nil {
		c := *cfg
		c.Resources = DefaultConfig().Resources
		cfg = &c
	}

	p := &parser{
		cfg:      cfg,
		reg:      newRegistry(),
		tilesets: map[string]*element{},
	}
	return p.parse(data)
}

// parser is the state of one parse. Nothing here outlives it.
type parser struct {
	cfg  *Config
	info Info
	reg  *Registry

	// external tilesets by source
	tilesets map[string]*element

	textures []Texture
	warnings []string
}

func (p *parser) warnf(format string, args ...interface{}) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

func (p *parser) parse(data []byte) (*Document, error) {
	root, err := parseTree(data)
	if err != nil {
		return nil, wrapError(ErrMalformedDocument, err, "invalid xml")
	}
	if root.Name != "map" {
		return nil, newError(ErrMalformedDocument, "root element is <%s>, not <map>", root.Name)
	}

	version := root.String("version")
	if !supportedVersions[version] {
		return nil, newError(ErrUnsupportedVersion, "version %q", version)
	}

	orientation, ok := ParseOrientation(root.String("orientation"))
	if !ok {
		return nil, newError(ErrUnsupportedOrientation, "orientation %q", root.String("orientation"))
	}

	p.info = Info{
		Orientation: orientation,
		Width:       root.Int("width"),
		Height:      root.Int("height"),
		TileWidth:   root.Float("tilewidth") * PixelSize,
		TileHeight:  root.Float("tileheight") * PixelSize,
	}

	if p.cfg.Preload {
		if pl, ok := p.cfg.Resources.(Preloader); ok {
			pl.Preload(p.imagePaths(root)...)
		}
	}

	tilesets := root.ChildrenNamed("tileset")
	for _, ts := range tilesets {
		if err := p.loadTileset(ts); err != nil {
			return nil, err
		}
	}

	doc := &Document{
		info:     p.info,
		registry: p.reg,
	}
	if props := root.Child("properties"); props != nil {
		doc.properties = loadPropertySet(props)
	}

	for _, child := range root.Children {
		var (
			l   Layer
			err error
		)
		switch child.Name {
		case "layer":
			l, err = loadTileLayer(child, p.reg)
		case "objectgroup":
			l, err = loadObjectGroup(child, frame{info: p.info, reg: p.reg, warn: p.warnf})
		case "imagelayer":
			l, err = loadImageLayer(child, p.info, p.cfg.Resources, p.cfg.BaseDir)
		default:
			continue
		}
		if err != nil {
			return nil, err
		}
		doc.layers = append(doc.layers, l)
	}

	doc.textures = p.textures
	doc.warnings = p.warnings
	return doc, nil
}

// imagePaths lists every image the map will ask for: tileset sheets, tile
// images & image layers. External tilesets are read (& cached) on the way.
// Tilesets that fail to load are skipped here, the real load reports them.
func (p *parser) imagePaths(root *element) []string {
	paths := []string{}
	for _, el := range root.ChildrenNamed("tileset") {
		ts, dir, err := p.tilesetElement(el)
		if err != nil {
			continue
		}
		if img := ts.Child("image"); img != nil {
			paths = append(paths, path.Join(dir, img.String("source")))
			continue
		}
		for _, tel := range ts.ChildrenNamed("tile") {
			if img := tel.Child("image"); img != nil {
				paths = append(paths, path.Join(dir, img.String("source")))
			}
		}
	}
	for _, el := range root.ChildrenNamed("imagelayer") {
		if img := el.Child("image"); img != nil {
			paths = append(paths, path.Join(p.cfg.BaseDir, img.String("source")))
		}
	}
	return paths
}
