package tilemap

import (
	"image"
	"path"

	"golang.org/x/image/draw"
)

// tilesetResolution is what either kind of tileset resolves to: a sprite per gid.
type tilesetResolution struct {
	texture Texture
	sprites map[int]*Sprite
}

// tileImage is one image of an image collection tileset waiting to be packed
type tileImage struct {
	gid    int
	img    image.Image
	width  int
	height int
	x, y   int
}

// loadTileset resolves a <tileset> (inline or external) into the registry.
func (p *parser) loadTileset(el *element) error {
	firstGID := el.Int("firstgid")

	ts, dir, err := p.tilesetElement(el)
	if err != nil {
		return err
	}

	var res *tilesetResolution
	if img := ts.Child("image"); img != nil {
		res, err = p.resolveSheet(ts, img, firstGID, dir)
	} else {
		res, err = p.resolveCollection(ts, firstGID, dir)
	}
	if err != nil {
		return err
	}

	p.textures = append(p.textures, res.texture)
	for gid, sprite := range res.sprites {
		p.reg.entry(gid).Sprite = sprite
	}

	return p.loadTileMetadata(ts, firstGID)
}

// tilesetElement returns the <tileset> holding the definition & the directory
// its image paths are relative to. External tilesets are read once per parse.
func (p *parser) tilesetElement(el *element) (*element, string, error) {
	source, ok := el.Attr("source")
	if !ok {
		return el, p.cfg.BaseDir, nil
	}

	tsxPath := path.Join(p.cfg.BaseDir, source)
	if ts, ok := p.tilesets[source]; ok {
		return ts, path.Dir(tsxPath), nil
	}

	data, err := p.cfg.Resources.File(tsxPath)
	if err != nil {
		return nil, "", wrapError(ErrResourceMissing, err, "tileset %s", tsxPath)
	}
	root, err := parseTree(data)
	if err != nil {
		return nil, "", wrapError(ErrMalformedDocument, err, "tileset %s", tsxPath)
	}
	if root.Name != "tileset" {
		return nil, "", newError(ErrMalformedDocument, "tileset %s: root element is <%s>", tsxPath, root.Name)
	}
	if !root.HasChild("image") {
		return nil, "", newError(ErrUnsupportedTileset, "tileset %s: external tilesets of individual images are not supported", tsxPath)
	}

	p.tilesets[source] = root
	return root, path.Dir(tsxPath), nil
}

// resolveSheet slices a single tileset image into a grid of tiles.
func (p *parser) resolveSheet(ts, img *element, firstGID int, dir string) (*tilesetResolution, error) {
	tileWidth := ts.Int("tilewidth")
	tileHeight := ts.Int("tileheight")
	spacing := ts.Int("spacing")
	margin := ts.Int("margin")
	if tileWidth <= 0 || tileHeight <= 0 {
		return nil, newError(ErrStructuralMismatch, "tileset %q has tile size %dx%d", ts.String("name"), tileWidth, tileHeight)
	}

	texPath := path.Join(dir, img.String("source"))
	tex, err := p.cfg.Resources.Texture(texPath)
	if err != nil {
		return nil, wrapError(ErrResourceMissing, err, "could not load texture %s", texPath)
	}
	// tiles sit edge to edge on the sheet, don't let samples bleed over
	tex.SetFilter(FilterNearest)

	// bottom left, shifted by the tile offset
	hotSpot := Vec2{}
	if offset := ts.Child("tileoffset"); offset != nil {
		hotSpot.X += offset.Float("x") / float64(tileWidth)
		hotSpot.Y += offset.Float("y") / float64(tileHeight)
	}

	imageWidth := img.Int("width")
	imageHeight := img.Int("height")
	if imageWidth == 0 || imageHeight == 0 {
		// size is optional in the file, fall back to the texture
		imageWidth = tex.Bounds().Dx()
		imageHeight = tex.Bounds().Dy()
	}

	res := &tilesetResolution{texture: tex, sprites: map[int]*Sprite{}}
	gid := firstGID
	for y := margin; y+tileHeight <= imageHeight-margin; y += tileHeight + spacing {
		for x := margin; x+tileWidth <= imageWidth-margin; x += tileWidth + spacing {
			res.sprites[gid] = &Sprite{
				Texture: tex,
				Rect:    image.Rect(x, y, x+tileWidth, y+tileHeight),
				HotSpot: hotSpot,
			}
			gid++
		}
	}
	return res, nil
}

// resolveCollection packs every per-tile <image> into one atlas texture.
func (p *parser) resolveCollection(ts *element, firstGID int, dir string) (*tilesetResolution, error) {
	images := []*tileImage{}
	for _, tel := range ts.ChildrenNamed("tile") {
		iel := tel.Child("image")
		if iel == nil {
			continue
		}

		imgPath := path.Join(dir, iel.String("source"))
		img, err := p.cfg.Resources.Image(imgPath)
		if err != nil {
			return nil, wrapError(ErrResourceMissing, err, "could not load image %s", imgPath)
		}

		ti := &tileImage{
			gid:    firstGID + tel.Int("id"),
			img:    img,
			width:  iel.Int("width"),
			height: iel.Int("height"),
		}
		if ti.width == 0 || ti.height == 0 {
			ti.width = img.Bounds().Dx()
			ti.height = img.Bounds().Dy()
		}
		images = append(images, ti)
	}

	if len(images) == 0 {
		return nil, newError(ErrUnsupportedTileset, "tileset %q has neither a sheet image nor tile images", ts.String("name"))
	}

	packer := NewPacker(atlasStartSize, atlasStartSize, atlasMaxSize, atlasMaxSize)
	for _, ti := range images {
		// 1px gap so neighbours don't bleed into each other when sampled
		x, y, ok := packer.Allocate(ti.width+1, ti.height+1)
		if !ok {
			return nil, newError(ErrPackingOverflow, "tileset %q: no room for %dx%d image of gid %d in a %dx%d atlas",
				ts.String("name"), ti.width, ti.height, ti.gid, atlasMaxSize, atlasMaxSize)
		}
		ti.x, ti.y = x, y
	}

	atlas := buildAtlas(packer.Width(), packer.Height(), images)
	tex := NewImageTexture(atlas)

	res := &tilesetResolution{texture: tex, sprites: map[int]*Sprite{}}
	for _, ti := range images {
		res.sprites[ti.gid] = &Sprite{
			Texture: tex,
			Rect:    image.Rect(ti.x, ti.y, ti.x+ti.width, ti.y+ti.height),
		}
	}
	return res, nil
}

// buildAtlas copies each image to its packed position. Images whose pixels
// don't match the size declared in the tileset are scaled to it.
func buildAtlas(width, height int, images []*tileImage) *image.RGBA {
	atlas := image.NewRGBA(image.Rect(0, 0, width, height))
	for _, ti := range images {
		dst := image.Rect(ti.x, ti.y, ti.x+ti.width, ti.y+ti.height)
		src := ti.img.Bounds()
		if src.Dx() == ti.width && src.Dy() == ti.height {
			draw.Draw(atlas, dst, ti.img, src.Min, draw.Src)
		} else {
			draw.ApproxBiLinear.Scale(atlas, dst, ti.img, src, draw.Src, nil)
		}
	}
	return atlas
}

// loadTileMetadata reads per tile properties & object groups, for either kind of tileset.
func (p *parser) loadTileMetadata(ts *element, firstGID int) error {
	tileWidth := ts.Int("tilewidth")
	tileHeight := ts.Int("tileheight")

	for _, tel := range ts.ChildrenNamed("tile") {
		gid := firstGID + tel.Int("id")

		w, h := tileWidth, tileHeight
		if tel.HasChild("image") && !ts.HasChild("image") {
			if e := p.reg.Get(gid); e != nil && e.Sprite != nil {
				sz := e.Sprite.Size()
				w, h = sz.X, sz.Y
			}
		}
		local := tileLocalInfo(w, h)

		// collision shapes, anchored like map objects but within the tile
		for _, gel := range tel.ChildrenNamed("objectgroup") {
			shapes := []*Object{}
			for _, oel := range gel.ChildrenNamed("object") {
				o, err := loadObject(oel, frame{info: local, reg: p.reg, warn: p.warnf})
				if err != nil {
					return err
				}
				shapes = append(shapes, o)
			}
			p.reg.entry(gid).CollisionShapes = shapes
		}

		if props := tel.Child("properties"); props != nil {
			p.reg.entry(gid).Properties = loadPropertySet(props)
		}

		if gel := tel.Child("objectgroup"); gel != nil {
			group, err := loadObjectGroup(gel, frame{info: local, reg: p.reg, local: true, warn: p.warnf})
			if err != nil {
				return err
			}
			p.reg.entry(gid).ObjectGroup = group
		}
	}
	return nil
}
