package tilemap

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// objectMap wraps objects in a width x height orthogonal map with 32px tiles
func objectMap(width, height int, objects string) string {
	return fmt.Sprintf(`<map version="1.0" orientation="orthogonal" width="%d" height="%d" tilewidth="32" tileheight="32">
 <tileset firstgid="1" name="sheet" tilewidth="32" tileheight="32">
  <image source="sheet.png" width="128" height="64"/>
 </tileset>
 <objectgroup name="objects">
  %s
 </objectgroup>
</map>`, width, height, objects)
}

func loadObjects(t *testing.T, data string) (*Document, *ObjectGroup) {
	doc, err := Parse([]byte(data), &Config{Resources: sheetResources()})
	require.Nil(t, err)
	g, ok := doc.Layer(0).(*ObjectGroup)
	require.True(t, ok)
	return doc, g
}

func TestEllipseObject(t *testing.T) {
	_, g := loadObjects(t, objectMap(2, 1, `<object id="3" name="pond" x="10" y="20" width="4" height="6"><ellipse/></object>`))

	require.Equal(t, 1, g.NumObjects())
	o := g.Object(0)
	assert.Equal(t, ObjectEllipse, o.ObjectType)
	assert.Equal(t, 3, o.ID)
	assert.Equal(t, "pond", o.Name)
	assert.InDelta(t, 0.04, o.Size.X, 1e-9)
	assert.InDelta(t, 0.06, o.Size.Y, 1e-9)
	// bottom left of the bounding box, map height is 0.32
	assert.InDelta(t, 0.10, o.Position.X, 1e-9)
	assert.InDelta(t, 0.06, o.Position.Y, 1e-9)
}

func TestRectangleObjectDefaults(t *testing.T) {
	_, g := loadObjects(t, objectMap(2, 2, `
  <object x="32" y="32" width="32" height="32" class="door">
   <properties><property name="locked" value="true"/></properties>
  </object>
  <object x="0" y="0" width="1" height="1" name="" type="marker" class="ignored"/>`))

	require.Equal(t, 2, g.NumObjects())

	a := g.Object(0)
	assert.Equal(t, ObjectRectangle, a.ObjectType)
	assert.Equal(t, "Object", a.Name)
	assert.Equal(t, "door", a.Type)
	assert.InDelta(t, 0.32, a.Position.X, 1e-9)
	assert.InDelta(t, 0.0, a.Position.Y, 1e-9)
	locked, ok := a.Properties.Bool("locked")
	assert.True(t, ok)
	assert.True(t, locked)

	b := g.Object(1)
	assert.Equal(t, "", b.Name)
	assert.Equal(t, "marker", b.Type)
	assert.Nil(t, b.Properties)
	assert.Nil(t, g.Object(2))
}

func TestPolygonObject(t *testing.T) {
	doc, g := loadObjects(t, objectMap(4, 4, `
  <object x="100" y="50"><polygon points="0,0 10,0 10,10"/></object>
  <object x="0" y="0"><polyline points="0,0 32,32"/></object>`))

	poly := g.Object(0)
	assert.Equal(t, ObjectPolygon, poly.ObjectType)
	require.Len(t, poly.Points, 3)
	expect := []Vec2{{1.0, 0.78}, {1.1, 0.78}, {1.1, 0.68}}
	for i, p := range expect {
		assert.InDelta(t, p.X, poly.Points[i].X, 1e-9)
		assert.InDelta(t, p.Y, poly.Points[i].Y, 1e-9)
	}

	line := g.Object(1)
	assert.Equal(t, ObjectPolyline, line.ObjectType)
	require.Len(t, line.Points, 2)
	assert.InDelta(t, 1.28, line.Points[0].Y, 1e-9)
	assert.InDelta(t, 0.96, line.Points[1].Y, 1e-9)

	assert.Empty(t, doc.Warnings())
}

func TestPolygonTooFewPoints(t *testing.T) {
	doc, g := loadObjects(t, objectMap(1, 1, `
  <object name="speck" x="5" y="5">
   <properties><property name="k" value="v"/></properties>
   <polygon points="1,1"/>
  </object>
  <object x="5" y="5"><polyline points=""/></object>`))

	require.Equal(t, 2, g.NumObjects())
	assert.Empty(t, g.Object(0).Points)
	assert.Empty(t, g.Object(1).Points)
	// no geometry, so nothing else is read either
	assert.Nil(t, g.Object(0).Properties)
	require.Len(t, doc.Warnings(), 2)
	assert.Contains(t, doc.Warnings()[0], "speck")
}

func TestPolygonBadPoints(t *testing.T) {
	_, err := Parse([]byte(objectMap(1, 1, `<object><polygon points="0,0 1;1"/></object>`)), &Config{Resources: sheetResources()})

	assert.True(t, errors.Is(err, ErrStructuralMismatch))
}

func TestTileObject(t *testing.T) {
	doc, g := loadObjects(t, objectMap(4, 4, `
  <object gid="1" x="0" y="64"/>
  <object gid="2" x="0" y="64" width="64" height="16"/>
  <object name="ghost" gid="99" x="0" y="0"/>`))

	a := g.Object(0)
	assert.Equal(t, ObjectTile, a.ObjectType)
	assert.Equal(t, 1, a.GID)
	assert.Same(t, doc.TileSprite(1), a.Sprite)
	assert.InDelta(t, 0.0, a.Position.X, 1e-9)
	assert.InDelta(t, 0.64, a.Position.Y, 1e-9)
	// no size written, take the sprite's pixel size as is
	assert.True(t, a.SpriteSized)
	assert.Equal(t, Vec2{32, 32}, a.Size)
	sz := a.Sprite.Size()
	assert.Equal(t, Vec2{float64(sz.X), float64(sz.Y)}, a.Size)

	b := g.Object(1)
	assert.False(t, b.SpriteSized)
	assert.InDelta(t, 0.64, b.Size.X, 1e-9)
	assert.InDelta(t, 0.16, b.Size.Y, 1e-9)

	c := g.Object(2)
	assert.Nil(t, c.Sprite)
	assert.Equal(t, Vec2{}, c.Size)
	require.Len(t, doc.Warnings(), 1)
	assert.Contains(t, doc.Warnings()[0], "ghost")
}

func TestIsometricObject(t *testing.T) {
	data := `<map version="1.0" orientation="isometric" width="2" height="2" tilewidth="64" tileheight="32">
 <objectgroup name="o">
  <object x="0" y="0" width="0" height="0"/>
  <object x="32" y="0" width="0" height="0"/>
 </objectgroup>
</map>`

	_, g := loadObjects(t, data)

	// the map's top corner
	top := g.Object(0).Position
	assert.InDelta(t, 0.64, top.X, 1e-9)
	assert.InDelta(t, 0.64, top.Y, 1e-9)

	// one tile along the x axis runs down & right
	right := g.Object(1).Position
	assert.InDelta(t, 0.96, right.X, 1e-9)
	assert.InDelta(t, 0.48, right.Y, 1e-9)
}

func TestParsePoints(t *testing.T) {
	pts, err := parsePoints(" 0,0\n 1.5,-2 ")
	require.Nil(t, err)
	assert.Equal(t, []Vec2{{0, 0}, {1.5, -2}}, pts)

	_, err = parsePoints("1,2,3")
	assert.NotNil(t, err)

	_, err = parsePoints("a,2")
	assert.NotNil(t, err)
}
