package main

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/go-yaml/yaml"
	"github.com/mitchellh/go-homedir"

	"github.com/voidshard/tilemap"
)

const desc = `Packs a directory of images into a single atlas image.

Uses the same packer (& 1px padding) as image collection tilesets do when a
map is loaded, so it's handy to check a collection will fit before using it.`

var cli struct {
	Input string `arg:"" help:"directory of images"`

	Output string `short:"o" default:"atlas.png" help:"where to write the atlas"`
	Index  string `short:"x" help:"write a yaml index of where each image went"`

	Padding int `default:"1" help:"gap right & below each image in px"`
	MaxSize int `default:"2048" help:"largest width / height of the atlas in px"`
}

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true, ".webp": true,
}

// readImages decodes every image directly inside dir
func readImages(dir string) ([]namedImage, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	res := tilemap.NewDirResources(dir)
	out := []namedImage{}
	for _, e := range entries {
		if e.IsDir() || !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		img, err := res.Image(e.Name())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		out = append(out, namedImage{name: e.Name(), img: img})
	}
	return out, nil
}

// savePng to disk
func savePng(fpath string, in image.Image) error {
	buff := new(bytes.Buffer)
	err := png.Encode(buff, in)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(fpath, buff.Bytes(), 0644)
}

func expand(path string) string {
	out, err := homedir.Expand(path)
	if err != nil {
		panic(err)
	}
	return out
}

func main() {
	kong.Parse(
		&cli,
		kong.Name("atlas"),
		kong.Description(desc),
	)

	images, err := readImages(expand(cli.Input))
	if err != nil {
		panic(err)
	}
	if len(images) == 0 {
		fmt.Fprintf(os.Stderr, "no images found in %s\n", cli.Input)
		os.Exit(1)
	}

	atlas, placed, err := pack(images, cli.Padding, cli.MaxSize)
	if err != nil {
		panic(err)
	}

	err = savePng(expand(cli.Output), atlas)
	if err != nil {
		panic(err)
	}
	fmt.Printf("packed %d images into %s (%dx%d)\n", len(placed), cli.Output, atlas.Bounds().Dx(), atlas.Bounds().Dy())

	if cli.Index == "" {
		return
	}
	data, err := yaml.Marshal(placed)
	if err != nil {
		panic(err)
	}
	err = ioutil.WriteFile(expand(cli.Index), data, 0644)
	if err != nil {
		panic(err)
	}
}
