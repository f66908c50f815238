package tilemap

import (
	"image"
	"sort"
)

// Sprite is a rectangle of a texture.
type Sprite struct {
	Texture Texture

	// in texture pixels
	Rect image.Rectangle

	// HotSpot is the sprite's anchor as a fraction of its size,
	// (0,0) is bottom left, (0,1) top left.
	HotSpot Vec2
}

// Size of the sprite in pixels
func (s *Sprite) Size() image.Point {
	return s.Rect.Size()
}

// TileEntry is everything known about one gid.
type TileEntry struct {
	GID             int
	Sprite          *Sprite
	Properties      *PropertySet
	CollisionShapes []*Object
	ObjectGroup     *ObjectGroup
}

// Registry maps global tile ids to their entries.
type Registry struct {
	entries map[int]*TileEntry
}

func newRegistry() *Registry {
	return &Registry{entries: map[int]*TileEntry{}}
}

// Get returns the entry for gid or nil
func (r *Registry) Get(gid int) *TileEntry {
	if r == nil {
		return nil
	}
	return r.entries[gid]
}

// GIDs returns every registered gid, ascending
func (r *Registry) GIDs() []int {
	out := make([]int, 0, len(r.entries))
	for gid := range r.entries {
		out = append(out, gid)
	}
	sort.Ints(out)
	return out
}

func (r *Registry) Len() int {
	return len(r.entries)
}

// entry returns the entry for gid, creating it if needed
func (r *Registry) entry(gid int) *TileEntry {
	e, ok := r.entries[gid]
	if !ok {
		e = &TileEntry{GID: gid}
		r.entries[gid] = e
	}
	return e
}
