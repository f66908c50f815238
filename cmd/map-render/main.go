package main

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"io/ioutil"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mitchellh/go-homedir"

	"github.com/voidshard/tilemap"
	"github.com/voidshard/tilemap/render"
)

const desc = `Renders a .tmx map to a PNG image.`

var cli struct {
	// map to draw
	Input  string `arg:"" help:"input .tmx map (required)"`
	Output string `short:"o" help:"where to write the .png. Defaults to input + .png. Overwrites output file if it exists."`

	Scale   float64 `default:"1" help:"output pixels per map pixel"`
	Objects bool    `help:"outline objects of object groups"`
	Hidden  bool    `help:"draw layers marked invisible too"`

	Background string `help:"fill colour as hex rrggbb (default transparent)"`

	Preload bool `help:"decode all images in parallel before parsing"`
}

func main() {
	kong.Parse(&cli, kong.Name("map-render"), kong.Description(desc))

	input, err := homedir.Expand(cli.Input)
	if err != nil {
		panic(err)
	}
	if !fileExists(input) {
		panic(fmt.Sprintf("input file not found: %s", input))
	}

	output := cli.Output
	if output == "" {
		output = strings.TrimSuffix(input, ".tmx") + ".png"
	}
	output, err = homedir.Expand(output)
	if err != nil {
		panic(err)
	}

	doc, err := tilemap.Open(input, &tilemap.Config{Preload: cli.Preload})
	if err != nil {
		panic(err)
	}
	for _, w := range doc.Warnings() {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}

	opts := &render.Options{
		Scale:   cli.Scale,
		Objects: cli.Objects,
		Hidden:  cli.Hidden,
	}
	if cli.Background != "" {
		bg, err := parseHex(cli.Background)
		if err != nil {
			panic(err)
		}
		opts.Background = bg
	}

	img, err := render.Render(doc, opts)
	if err != nil {
		panic(err)
	}

	buff := new(bytes.Buffer)
	if err := png.Encode(buff, img); err != nil {
		panic(err)
	}
	if err := ioutil.WriteFile(output, buff.Bytes(), 0644); err != nil {
		panic(err)
	}

	fmt.Printf("wrote %s (%dx%d)\n", output, img.Bounds().Dx(), img.Bounds().Dy())
}

// parseHex reads "rrggbb" or "#rrggbb"
func parseHex(s string) (color.Color, error) {
	c := color.RGBA{A: 255}
	_, err := fmt.Sscanf(strings.TrimPrefix(s, "#"), "%02x%02x%02x", &c.R, &c.G, &c.B)
	if err != nil {
		return nil, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return c, nil
}

// fileExists checks if file exists
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return !info.IsDir()
}
