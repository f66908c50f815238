/* Package render draws a loaded tilemap.Document to an image.

It's a preview renderer: layers are painted in document order onto a canvas
the size of the map in pixels, optionally with object outlines on top.
*/
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/nfnt/resize"
	"golang.org/x/image/draw"

	"github.com/voidshard/tilemap"
)

// Options control what gets drawn
type Options struct {
	// output pixels per map pixel, 0 means 1
	Scale float64

	// draw outlines of objects in object groups
	Objects bool

	// draw layers marked invisible
	Hidden bool

	// outline colour for objects, defaults to red
	ObjectColour color.Color

	// canvas fill, defaults to transparent
	Background color.Color
}

// Render draws doc. Textures must be *tilemap.ImageTexture (as produced by
// tilemap.DirResources) so their pixels can be read.
func Render(doc *tilemap.Document, opts *Options) (image.Image, error) {
	if opts == nil {
		opts = &Options{}
	}

	info := doc.Info()
	width := int(math.Ceil(info.MapWidth()/tilemap.PixelSize - 1e-6))
	height := int(math.Ceil(info.MapHeight()/tilemap.PixelSize - 1e-6))
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("map has no area (%dx%d px)", width, height)
	}

	r := &renderer{
		dc:      gg.NewContext(width, height),
		info:    info,
		opts:    opts,
		sprites: map[*tilemap.Sprite]image.Image{},
	}
	if opts.Background != nil {
		r.dc.SetColor(opts.Background)
		r.dc.Clear()
	}

	for i, l := range doc.Layers() {
		if !l.Header().Visible && !opts.Hidden {
			continue
		}

		var err error
		switch layer := l.(type) {
		case *tilemap.TileLayer:
			err = r.tileLayer(layer)
		case *tilemap.ImageLayer:
			err = r.sprite(layer.Sprite, layer.Position)
		case *tilemap.ObjectGroup:
			if opts.Objects {
				err = r.objectGroup(layer)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("layer %d (%s): %w", i, l.Header().Name, err)
		}
	}

	out := r.dc.Image()
	if opts.Scale > 0 && opts.Scale != 1 {
		out = resize.Resize(uint(float64(width)*opts.Scale), 0, out, resize.NearestNeighbor)
	}
	return out, nil
}

type renderer struct {
	dc   *gg.Context
	info tilemap.Info
	opts *Options

	// cut out sprite images
	sprites map[*tilemap.Sprite]image.Image
}

// toPixel turns a world position into canvas pixels (top left origin)
func (r *renderer) toPixel(v tilemap.Vec2) (float64, float64) {
	return v.X / tilemap.PixelSize, (r.info.MapHeight() - v.Y) / tilemap.PixelSize
}

func (r *renderer) tileLayer(l *tilemap.TileLayer) error {
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			t := l.At(x, y)
			if t == nil || t.Sprite() == nil {
				continue
			}
			if err := r.sprite(t.Sprite(), r.info.TileIndexToPosition(x, y)); err != nil {
				return err
			}
		}
	}
	return nil
}

// sprite draws s so that its hot spot lands on pos
func (r *renderer) sprite(s *tilemap.Sprite, pos tilemap.Vec2) error {
	if s == nil {
		return nil
	}
	img, err := r.spriteImage(s)
	if err != nil {
		return err
	}

	size := s.Rect.Size()
	px, py := r.toPixel(pos)
	left := px - s.HotSpot.X*float64(size.X)
	top := py + s.HotSpot.Y*float64(size.Y) - float64(size.Y)

	r.dc.DrawImage(img, int(math.Round(left)), int(math.Round(top)))
	return nil
}

// spriteImage cuts the sprite out of its texture. gg draws images from their
// bounds' origin, so the cut out always starts at (0,0).
func (r *renderer) spriteImage(s *tilemap.Sprite) (image.Image, error) {
	if img, ok := r.sprites[s]; ok {
		return img, nil
	}

	tex, ok := s.Texture.(*tilemap.ImageTexture)
	if !ok {
		return nil, fmt.Errorf("texture %T has no readable pixels", s.Texture)
	}

	img := image.NewRGBA(image.Rect(0, 0, s.Rect.Dx(), s.Rect.Dy()))
	draw.Draw(img, img.Bounds(), tex.Image(), s.Rect.Min, draw.Src)

	r.sprites[s] = img
	return img, nil
}

func (r *renderer) objectGroup(g *tilemap.ObjectGroup) error {
	colour := r.opts.ObjectColour
	if colour == nil {
		colour = color.RGBA{255, 0, 0, 255}
	}
	r.dc.SetColor(colour)
	r.dc.SetLineWidth(1)

	for _, o := range g.Objects() {
		switch o.ObjectType {
		case tilemap.ObjectRectangle, tilemap.ObjectTile:
			// tile objects are anchored bottom left like rectangles
			x, y := r.toPixel(o.Position)
			w, h := o.Size.X/tilemap.PixelSize, o.Size.Y/tilemap.PixelSize
			if o.SpriteSized {
				w, h = o.Size.X, o.Size.Y
			}
			if o.ObjectType == tilemap.ObjectTile && o.Sprite != nil {
				if err := r.sprite(o.Sprite, o.Position); err != nil {
					return err
				}
			}
			r.dc.DrawRectangle(x, y-h, w, h)
		case tilemap.ObjectEllipse:
			x, y := r.toPixel(o.Position)
			rx, ry := o.Size.X/tilemap.PixelSize/2, o.Size.Y/tilemap.PixelSize/2
			r.dc.DrawEllipse(x+rx, y-ry, rx, ry)
		case tilemap.ObjectPolygon, tilemap.ObjectPolyline:
			if len(o.Points) < 2 {
				continue
			}
			for i, p := range o.Points {
				x, y := r.toPixel(p)
				if i == 0 {
					r.dc.MoveTo(x, y)
				} else {
					r.dc.LineTo(x, y)
				}
			}
			if o.ObjectType == tilemap.ObjectPolygon {
				r.dc.ClosePath()
			}
		}
		r.dc.Stroke()
	}
	return nil
}
