package tilemap

import (
	"image"
	"path"
)

// loadImageLayer reads an <imagelayer>. The image's top left sits at the
// top left of the map.
func loadImageLayer(el *element, info Info, res Resources, dir string) (*ImageLayer, error) {
	l := &ImageLayer{LayerHeader: loadHeader(el)}

	img := el.Child("image")
	if img == nil {
		return nil, newError(ErrStructuralMismatch, "image layer %q has no image", l.Name)
	}

	l.Position = Vec2{0, info.MapHeight()}
	l.Source = img.String("source")

	texPath := path.Join(dir, l.Source)
	tex, err := res.Texture(texPath)
	if err != nil {
		return nil, wrapError(ErrResourceMissing, err, "could not load texture %s", texPath)
	}

	b := tex.Bounds()
	l.Sprite = &Sprite{
		Texture: tex,
		Rect:    image.Rect(0, 0, b.Dx(), b.Dy()),
		HotSpot: Vec2{0, 1},
	}
	return l, nil
}
