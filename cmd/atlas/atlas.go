package main

import (
	"fmt"
	"image"
	"sort"

	"golang.org/x/image/draw"

	"github.com/voidshard/tilemap"
)

// Placement is where one input image went in the atlas
type Placement struct {
	Name   string `yaml:"name"`
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type namedImage struct {
	name string
	img  image.Image
}

// pack places the images (largest first) on a canvas growing from 128x128 up
// to maxSize, leaving `padding` px right & below each image.
func pack(images []namedImage, padding, maxSize int) (*image.RGBA, []Placement, error) {
	sorted := make([]namedImage, len(images))
	copy(sorted, images)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].img.Bounds(), sorted[j].img.Bounds()
		if a.Dy() != b.Dy() {
			return a.Dy() > b.Dy()
		}
		return a.Dx() > b.Dx()
	})

	start := min(128, maxSize)
	packer := tilemap.NewPacker(start, start, maxSize, maxSize)

	placed := []Placement{}
	for _, ni := range sorted {
		b := ni.img.Bounds()
		x, y, ok := packer.Allocate(b.Dx()+padding, b.Dy()+padding)
		if !ok {
			return nil, nil, fmt.Errorf("no room for %s (%dx%d) in a %dx%d atlas", ni.name, b.Dx(), b.Dy(), maxSize, maxSize)
		}
		placed = append(placed, Placement{Name: ni.name, X: x, Y: y, Width: b.Dx(), Height: b.Dy()})
	}

	atlas := image.NewRGBA(image.Rect(0, 0, packer.Width(), packer.Height()))
	for i, p := range placed {
		src := sorted[i].img
		dst := image.Rect(p.X, p.Y, p.X+p.Width, p.Y+p.Height)
		draw.Draw(atlas, dst, src, src.Bounds().Min, draw.Src)
	}

	sort.Slice(placed, func(i, j int) bool { return placed[i].Name < placed[j].Name })
	return atlas, placed, nil
}
