package tilemap

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path"
	"runtime"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// DirResources is a Resources implementation reading from a file system.
// Decoded images & textures are cached by path so tilesets sharing an image
// share one texture.
type DirResources struct {
	fsys fs.FS

	lock     sync.Mutex
	images   map[string]image.Image
	textures map[string]*ImageTexture
}

// NewDirResources reads files under the given directory
func NewDirResources(dir string) *DirResources {
	return NewFSResources(os.DirFS(dir))
}

// NewFSResources reads files from any fs.FS (embed.FS, fstest.MapFS, ...)
func NewFSResources(fsys fs.FS) *DirResources {
	return &DirResources{
		fsys:     fsys,
		images:   map[string]image.Image{},
		textures: map[string]*ImageTexture{},
	}
}

// File returns the raw bytes at path
func (r *DirResources) File(p string) ([]byte, error) {
	return fs.ReadFile(r.fsys, cleanPath(p))
}

// Image decodes (or returns the cached decode of) the image at path
func (r *DirResources) Image(p string) (image.Image, error) {
	p = cleanPath(p)

	r.lock.Lock()
	img, ok := r.images[p]
	r.lock.Unlock()
	if ok {
		return img, nil
	}

	data, err := fs.ReadFile(r.fsys, p)
	if err != nil {
		return nil, err
	}
	img, _, err = image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", p, err)
	}

	r.lock.Lock()
	defer r.lock.Unlock()
	if cached, ok := r.images[p]; ok {
		// lost a race with a concurrent preload, keep the first
		return cached, nil
	}
	r.images[p] = img
	return img, nil
}

// Texture returns the shared texture for the image at path
func (r *DirResources) Texture(p string) (Texture, error) {
	p = cleanPath(p)

	r.lock.Lock()
	tex, ok := r.textures[p]
	r.lock.Unlock()
	if ok {
		return tex, nil
	}

	img, err := r.Image(p)
	if err != nil {
		return nil, err
	}

	r.lock.Lock()
	defer r.lock.Unlock()
	if tex, ok = r.textures[p]; !ok {
		tex = NewImageTexture(img)
		r.textures[p] = tex
	}
	return tex, nil
}

// Preload decodes the given images concurrently & waits for them all.
// Failures are not reported here, the later Texture / Image call will return them.
func (r *DirResources) Preload(paths ...string) {
	g := errgroup.Group{}
	g.SetLimit(runtime.NumCPU())

	seen := map[string]bool{}
	for _, p := range paths {
		p = cleanPath(p)
		if seen[p] {
			continue
		}
		seen[p] = true

		p := p
		g.Go(func() error {
			r.Image(p)
			return nil
		})
	}

	g.Wait()
}

// cleanPath turns a map relative reference into a valid fs.FS path
func cleanPath(p string) string {
	p = path.Clean(strings.ReplaceAll(p, "\\", "/"))
	return strings.TrimPrefix(p, "/")
}
