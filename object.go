package tilemap

import (
	"fmt"
	"strconv"
	"strings"
)

// ObjectType is the shape of an Object
type ObjectType int

const (
	ObjectRectangle ObjectType = iota
	ObjectEllipse
	ObjectPolygon
	ObjectPolyline
	ObjectTile
)

func (t ObjectType) String() string {
	switch t {
	case ObjectRectangle:
		return "rectangle"
	case ObjectEllipse:
		return "ellipse"
	case ObjectPolygon:
		return "polygon"
	case ObjectPolyline:
		return "polyline"
	case ObjectTile:
		return "tile"
	}
	return "unknown"
}

// Object is a shape placed on an object group. Positions & sizes are in world units.
type Object struct {
	ID         int
	Name       string
	Type       string // user defined type / class
	ObjectType ObjectType

	// Rectangle & Ellipse: bottom-left corner, or the centre for shapes in a
	// tile's own object group. Tile: bottom-left of the stamp.
	Position Vec2
	Size     Vec2

	// Polygon & Polyline only, in world units
	Points []Vec2

	// Tile only. Without width / height attributes Size is the sprite's
	// native size in pixels and SpriteSized is set.
	GID         int
	Sprite      *Sprite
	SpriteSized bool

	Properties *PropertySet
}

// frame carries what object conversion needs: the geometry to convert
// against and the registry to resolve tile stamps with.
type frame struct {
	info Info
	reg  *Registry

	// local is set for objects in a tile's own object group; rectangles &
	// ellipses are then anchored at their centre.
	local bool

	warn func(format string, args ...interface{})
}

// loadObjectGroup reads an <objectgroup>
func loadObjectGroup(el *element, f frame) (*ObjectGroup, error) {
	g := &ObjectGroup{LayerHeader: loadHeader(el)}
	for _, oel := range el.ChildrenNamed("object") {
		o, err := loadObject(oel, f)
		if err != nil {
			return nil, err
		}
		g.objects = append(g.objects, o)
	}
	return g, nil
}

// classifyObject decides the shape of an <object>
func classifyObject(el *element) ObjectType {
	switch {
	case el.HasAttr("gid"):
		return ObjectTile
	case el.HasChild("polygon"):
		return ObjectPolygon
	case el.HasChild("polyline"):
		return ObjectPolyline
	case el.HasChild("ellipse"):
		return ObjectEllipse
	}
	return ObjectRectangle
}

// loadObject reads one <object> & converts it into world units
func loadObject(el *element, f frame) (*Object, error) {
	o := &Object{
		ID:         el.Int("id"),
		Name:       "Object",
		Type:       el.String("type"),
		ObjectType: classifyObject(el),
	}
	if name, ok := el.Attr("name"); ok {
		o.Name = name
	}
	if o.Type == "" {
		// tiled >= 1.9 writes "class"
		o.Type = el.String("class")
	}

	pos := Vec2{el.Float("x"), el.Float("y")}
	size := Vec2{el.Float("width"), el.Float("height")}

	switch o.ObjectType {
	case ObjectRectangle, ObjectEllipse:
		o.Size = size.Scale(PixelSize)
		if f.local {
			o.Position = Vec2{
				X: pos.X*PixelSize + o.Size.X/2,
				Y: f.info.TileHeight - (pos.Y*PixelSize + o.Size.Y/2),
			}
		} else {
			o.Position = f.info.ConvertPosition(Vec2{pos.X, pos.Y + size.Y})
		}

	case ObjectTile:
		o.Position = f.info.ConvertPosition(pos)
		o.GID = el.Int("gid")
		if e := f.reg.Get(o.GID); e != nil {
			o.Sprite = e.Sprite
		}
		if el.HasAttr("width") || el.HasAttr("height") {
			o.Size = size.Scale(PixelSize)
		} else if o.Sprite != nil {
			sz := o.Sprite.Size()
			o.Size = Vec2{float64(sz.X), float64(sz.Y)}
			o.SpriteSized = true
		}
		if o.Sprite == nil && f.warn != nil {
			f.warn("object %q: gid %d has no tile", o.Name, o.GID)
		}

	case ObjectPolygon, ObjectPolyline:
		tag := "polygon"
		if o.ObjectType == ObjectPolyline {
			tag = "polyline"
		}
		points, err := parsePoints(el.Child(tag).String("points"))
		if err != nil {
			return nil, wrapError(ErrStructuralMismatch, err, "object %q", o.Name)
		}
		if len(points) < 2 {
			if f.warn != nil {
				f.warn("object %q: %s with %d point(s) has no geometry", o.Name, tag, len(points))
			}
			return o, nil
		}
		o.Points = make([]Vec2, len(points))
		for i, p := range points {
			o.Points[i] = f.info.ConvertPosition(pos.Add(p))
		}
	}

	if props := el.Child("properties"); props != nil {
		o.Properties = loadPropertySet(props)
	}
	return o, nil
}

// parsePoints reads a points attribute "x0,y0 x1,y1 ..." (pixels)
func parsePoints(s string) ([]Vec2, error) {
	fields := strings.Fields(s)
	out := make([]Vec2, 0, len(fields))
	for _, field := range fields {
		xy := strings.Split(field, ",")
		if len(xy) != 2 {
			return nil, fmt.Errorf("invalid point %q", field)
		}
		x, err := strconv.ParseFloat(xy[0], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid point %q: %w", field, err)
		}
		y, err := strconv.ParseFloat(xy[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid point %q: %w", field, err)
		}
		out = append(out, Vec2{x, y})
	}
	return out, nil
}
