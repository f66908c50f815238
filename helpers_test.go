package tilemap

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"strconv"
	"strings"
	"sync"
)

// testResources serves images & files from memory & counts requests.
type testResources struct {
	lock     sync.Mutex
	images   map[string]image.Image
	files    map[string]string
	textures map[string]*ImageTexture

	fileReads map[string]int
	preloaded []string
}

func newTestResources() *testResources {
	return &testResources{
		images:    map[string]image.Image{},
		files:     map[string]string{},
		textures:  map[string]*ImageTexture{},
		fileReads: map[string]int{},
	}
}

func (r *testResources) Texture(path string) (Texture, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if t, ok := r.textures[path]; ok {
		return t, nil
	}
	img, ok := r.images[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	t := NewImageTexture(img)
	r.textures[path] = t
	return t, nil
}

func (r *testResources) Image(path string) (image.Image, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	img, ok := r.images[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return img, nil
}

func (r *testResources) File(path string) ([]byte, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.fileReads[path]++
	f, ok := r.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(f), nil
}

// preloadingResources adds Preloader to testResources
type preloadingResources struct {
	*testResources
}

func (r preloadingResources) Preload(paths ...string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.preloaded = append(r.preloaded, paths...)
}

// solidImage is a w x h image of one colour
func solidImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// sizedImage reports a size without holding any pixels
type sizedImage struct {
	w, h int
}

func (s sizedImage) ColorModel() color.Model { return color.RGBAModel }
func (s sizedImage) Bounds() image.Rectangle { return image.Rect(0, 0, s.w, s.h) }
func (s sizedImage) At(x, y int) color.Color { return color.RGBA{} }

// encodeGIDs writes gids in the given <data> encoding
func encodeGIDs(encoding string, gids []int) string {
	switch encoding {
	case EncodingCSV:
		strs := make([]string, len(gids))
		for i, g := range gids {
			strs[i] = strconv.Itoa(g)
		}
		return fmt.Sprintf("<data encoding=\"csv\">\n%s\n</data>", strings.Join(strs, ",\n"))
	case EncodingBase64:
		raw := make([]byte, 4*len(gids))
		for i, g := range gids {
			binary.LittleEndian.PutUint32(raw[i*4:], uint32(g))
		}
		return fmt.Sprintf("<data encoding=\"base64\">\n   %s\n  </data>", base64.StdEncoding.EncodeToString(raw))
	default:
		b := strings.Builder{}
		b.WriteString("<data>\n")
		for _, g := range gids {
			fmt.Fprintf(&b, "  <tile gid=\"%d\"/>\n", g)
		}
		b.WriteString("</data>")
		return b.String()
	}
}

// sheetMap builds a width x height orthogonal map with 32px tiles, one 4x2
// sheet tileset "sheet.png" & one tile layer holding gids.
func sheetMap(width, height int, data string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<map version="1.0" orientation="orthogonal" width="%d" height="%d" tilewidth="32" tileheight="32">
 <tileset firstgid="1" name="sheet" tilewidth="32" tileheight="32">
  <image source="sheet.png" width="128" height="64"/>
 </tileset>
 <layer name="ground" width="%d" height="%d">
  %s
 </layer>
</map>`, width, height, width, height, data)
}

// sheetResources serves a 128x64 "sheet.png"
func sheetResources() *testResources {
	r := newTestResources()
	r.images["sheet.png"] = solidImage(128, 64, color.RGBA{255, 0, 0, 255})
	return r
}
