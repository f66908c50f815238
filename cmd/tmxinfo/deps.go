package main

import (
	"image"
	"path"
	"path/filepath"
	"sort"
	"sync"

	"github.com/voidshard/tilemap"
)

// recorder passes reads through to the wrapped Resources and notes every
// path asked for, so we know which tilesets & images a map depends on.
type recorder struct {
	tilemap.Resources

	lock  sync.Mutex
	paths map[string]bool
}

func newRecorder(r tilemap.Resources) *recorder {
	return &recorder{Resources: r, paths: map[string]bool{}}
}

func (r *recorder) note(p string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.paths[p] = true
}

func (r *recorder) Texture(p string) (tilemap.Texture, error) {
	r.note(p)
	return r.Resources.Texture(p)
}

func (r *recorder) Image(p string) (image.Image, error) {
	r.note(p)
	return r.Resources.Image(p)
}

func (r *recorder) File(p string) ([]byte, error) {
	r.note(p)
	return r.Resources.File(p)
}

func (r *recorder) Preload(paths ...string) {
	for _, p := range paths {
		r.note(p)
	}
	if pre, ok := r.Resources.(tilemap.Preloader); ok {
		pre.Preload(paths...)
	}
}

// dirs the recorded paths live in, joined to root
func (r *recorder) dirs(root string) []string {
	r.lock.Lock()
	defer r.lock.Unlock()
	out := []string{}
	for p := range r.paths {
		out = append(out, filepath.Join(root, filepath.FromSlash(path.Dir(p))))
	}
	return out
}

// deps maps each map file to the directories holding it & everything it reads
type deps struct {
	byMap map[string][]string
}

func newDeps() *deps {
	return &deps{byMap: map[string][]string{}}
}

// set replaces the directories a map depends on. The map's own directory is
// always included.
func (d *deps) set(fname string, dirs []string) {
	seen := map[string]bool{}
	out := []string{}
	for _, dir := range append([]string{filepath.Dir(fname)}, dirs...) {
		dir = filepath.Clean(dir)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		out = append(out, dir)
	}
	sort.Strings(out)
	d.byMap[fname] = out
}

// dirs every map depends on, sorted
func (d *deps) dirs() []string {
	seen := map[string]bool{}
	out := []string{}
	for _, dirs := range d.byMap {
		for _, dir := range dirs {
			if !seen[dir] {
				seen[dir] = true
				out = append(out, dir)
			}
		}
	}
	sort.Strings(out)
	return out
}

// mapsIn returns the maps that read something from dir, sorted
func (d *deps) mapsIn(dir string) []string {
	dir = filepath.Clean(dir)
	out := []string{}
	for fname, dirs := range d.byMap {
		for _, have := range dirs {
			if have == dir {
				out = append(out, fname)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}
