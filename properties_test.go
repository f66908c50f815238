package tilemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPropertySet(t *testing.T) {
	root, err := parseTree([]byte(`<properties>
 <property name="speed" type="float" value="1.5"/>
 <property name="count" type="int" value="3"/>
 <property name="solid" type="bool" value="true"/>
 <property name="note">line one
line two</property>
 <property name="speed" value="2"/>
</properties>`))
	require.Nil(t, err)

	ps := loadPropertySet(root)

	// re-setting keeps the first position
	assert.Equal(t, []string{"speed", "count", "solid", "note"}, ps.Names())
	assert.Equal(t, 4, ps.Len())
	assert.Equal(t, "line one\nline two", ps.Get("note"))

	f, ok := ps.Float("speed")
	assert.True(t, ok)
	assert.Equal(t, 2.0, f)

	i, ok := ps.Int("count")
	assert.True(t, ok)
	assert.Equal(t, 3, i)

	b, ok := ps.Bool("solid")
	assert.True(t, ok)
	assert.True(t, b)

	_, ok = ps.Int("note")
	assert.False(t, ok)
	_, ok = ps.Bool("missing")
	assert.False(t, ok)
}

func TestPropertySetNil(t *testing.T) {
	var ps *PropertySet

	assert.False(t, ps.Has("a"))
	assert.Equal(t, "", ps.Get("a"))
	assert.Equal(t, 0, ps.Len())
	assert.Nil(t, ps.Names())
	assert.Equal(t, map[string]string{}, ps.Map())

	_, ok := ps.Float("a")
	assert.False(t, ok)
}

func TestPropertySetMerge(t *testing.T) {
	a := NewPropertySet()
	a.Set("x", "1")
	a.Set("y", "2")

	b := NewPropertySet()
	b.Set("y", "3")
	b.Set("z", "4")

	a.Merge(b).Merge(nil)

	assert.Equal(t, []string{"x", "y", "z"}, a.Names())
	assert.Equal(t, map[string]string{"x": "1", "y": "3", "z": "4"}, a.Map())
	assert.True(t, a.Has("z"))
}
