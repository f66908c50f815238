package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestPack(t *testing.T) {
	colours := map[string]color.RGBA{
		"a": {255, 0, 0, 255},
		"b": {0, 255, 0, 255},
		"c": {0, 0, 255, 255},
	}
	images := []namedImage{
		{"a", solid(20, 10, colours["a"])},
		{"b", solid(100, 100, colours["b"])},
		{"c", solid(60, 40, colours["c"])},
	}

	atlas, placed, err := pack(images, 1, 2048)
	require.Nil(t, err)
	require.Len(t, placed, 3)

	// sorted by name
	assert.Equal(t, "a", placed[0].Name)
	assert.Equal(t, "c", placed[2].Name)

	for i, p := range placed {
		r := image.Rect(p.X, p.Y, p.X+p.Width, p.Y+p.Height)
		assert.True(t, r.In(atlas.Bounds()))
		for _, o := range placed[i+1:] {
			assert.False(t, r.Overlaps(image.Rect(o.X, o.Y, o.X+o.Width+1, o.Y+o.Height+1)))
		}
		got := color.RGBAModel.Convert(atlas.At(p.X+p.Width/2, p.Y+p.Height/2))
		assert.Equal(t, colours[p.Name], got, p.Name)
	}

	// the tallest goes first
	for _, p := range placed {
		if p.Name == "b" {
			assert.Equal(t, 0, p.X)
			assert.Equal(t, 0, p.Y)
		}
	}
}

func TestPackOverflow(t *testing.T) {
	_, _, err := pack([]namedImage{{"big", solid(300, 10, color.White)}}, 1, 256)

	assert.NotNil(t, err)
}

func TestReadImages(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"one.png", "two.png"} {
		f, err := os.Create(filepath.Join(dir, name))
		require.Nil(t, err)
		require.Nil(t, png.Encode(f, solid(4, 4, color.White)))
		require.Nil(t, f.Close())
	}
	require.Nil(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644))
	require.Nil(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0755))

	images, err := readImages(dir)
	require.Nil(t, err)

	require.Len(t, images, 2)
	assert.Equal(t, "one.png", images[0].name)
	assert.Equal(t, "two.png", images[1].name)
}
