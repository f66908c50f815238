package tilemap

import (
	"image"
)

// Filter is the sampling mode a renderer should use for a texture
type Filter int

const (
	FilterDefault Filter = iota
	FilterNearest
	FilterBilinear
)

// Texture is a renderer-side image. We only need to know its size and be able
// to ask for a sampling filter; upload & drawing belong to the caller.
type Texture interface {
	// Bounds of the texture in pixels
	Bounds() image.Rectangle

	// SetFilter asks for the given sampling filter
	SetFilter(f Filter)
}

// Resources resolves the files a map refers to.
// Paths are slash separated & already joined with the map's directory.
type Resources interface {
	// Texture returns the texture for an image file.
	Texture(path string) (Texture, error)

	// Image returns decoded pixels of an image file (used to build atlases).
	Image(path string) (image.Image, error)

	// File returns the raw bytes of a file (external tilesets).
	File(path string) ([]byte, error)
}

// Preloader is implemented by Resources that can load textures in the
// background. Preload must block until every requested path has been
// attempted; failures are reported later by Texture / Image.
type Preloader interface {
	Preload(paths ...string)
}

// ImageTexture is a Texture backed by an in-memory image.
// Atlases built for image collection tilesets are ImageTextures.
type ImageTexture struct {
	img    image.Image
	filter Filter
}

// NewImageTexture wraps an image
func NewImageTexture(img image.Image) *ImageTexture {
	return &ImageTexture{img: img}
}

func (t *ImageTexture) Bounds() image.Rectangle {
	return t.img.Bounds()
}

func (t *ImageTexture) SetFilter(f Filter) {
	t.filter = f
}

func (t *ImageTexture) Filter() Filter {
	return t.filter
}

// Image returns the underlying pixels
func (t *ImageTexture) Image() image.Image {
	return t.img
}
