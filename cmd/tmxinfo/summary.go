package main

import (
	"github.com/go-yaml/yaml"

	"github.com/voidshard/tilemap"
)

// Summary is what we print for each map
type Summary struct {
	File        string            `yaml:"file"`
	Orientation string            `yaml:"orientation"`
	Width       int               `yaml:"width"`
	Height      int               `yaml:"height"`
	TileWidth   float64           `yaml:"tile_width"`
	TileHeight  float64           `yaml:"tile_height"`
	Tiles       int               `yaml:"tiles"`
	Textures    int               `yaml:"textures"`
	Properties  map[string]string `yaml:"properties,omitempty"`
	Layers      []LayerSummary    `yaml:"layers"`
	Warnings    []string          `yaml:"warnings,omitempty"`
}

// LayerSummary describes one layer of a map
type LayerSummary struct {
	Name    string `yaml:"name"`
	Kind    string `yaml:"kind"`
	Visible bool   `yaml:"visible"`

	// tile layers: number of non empty cells
	Cells int `yaml:"cells,omitempty"`

	// object groups
	Objects int `yaml:"objects,omitempty"`

	// image layers
	Source string `yaml:"source,omitempty"`
}

// summarise a loaded map. Tile sizes are given in pixels as written in the file.
func summarise(fname string, doc *tilemap.Document) *Summary {
	info := doc.Info()
	s := &Summary{
		File:        fname,
		Orientation: info.Orientation.String(),
		Width:       info.Width,
		Height:      info.Height,
		TileWidth:   info.TileWidth / tilemap.PixelSize,
		TileHeight:  info.TileHeight / tilemap.PixelSize,
		Tiles:       doc.Registry().Len(),
		Textures:    len(doc.Textures()),
		Layers:      []LayerSummary{},
		Warnings:    doc.Warnings(),
	}
	if doc.Properties().Len() > 0 {
		s.Properties = doc.Properties().Map()
	}

	for _, l := range doc.Layers() {
		ls := LayerSummary{
			Name:    l.Header().Name,
			Kind:    l.Kind().String(),
			Visible: l.Header().Visible,
		}
		switch layer := l.(type) {
		case *tilemap.TileLayer:
			for _, gid := range layer.GIDs() {
				if gid != 0 {
					ls.Cells++
				}
			}
		case *tilemap.ObjectGroup:
			ls.Objects = layer.NumObjects()
		case *tilemap.ImageLayer:
			ls.Source = layer.Source
		}
		s.Layers = append(s.Layers, ls)
	}

	return s
}

// toYAML renders one or more summaries as a yaml document stream
func toYAML(summaries ...*Summary) ([]byte, error) {
	out := []byte{}
	for i, s := range summaries {
		data, err := yaml.Marshal(s)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			out = append(out, []byte("---\n")...)
		}
		out = append(out, data...)
	}
	return out, nil
}
