/* this file decodes tile layers: the <data> block in each of its encodings.

Tile ids are written row major (y outer, x inner), one gid per cell, gid 0
being the nil tile.
*/
package tilemap

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Tile data encodings
const (
	EncodingXML    = "xml"
	EncodingCSV    = "csv"
	EncodingBase64 = "base64"
)

// loadTileLayer reads a <layer>, resolving gids against the registry.
// Unknown gids are kept (with no entry) rather than failing the layer.
func loadTileLayer(el *element, reg *Registry) (*TileLayer, error) {
	l := &TileLayer{LayerHeader: loadHeader(el)}

	data := el.Child("data")
	if data == nil {
		return nil, newError(ErrStructuralMismatch, "layer %q has no data", l.Name)
	}

	gids, err := decodeData(data, l.Width*l.Height)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Msg = fmt.Sprintf("layer %q: %s", l.Name, perr.Msg)
			return nil, perr
		}
		return nil, wrapError(ErrStructuralMismatch, err, "layer %q", l.Name)
	}

	l.tiles = make([]Tile, len(gids))
	for i, gid := range gids {
		if gid == 0 {
			continue
		}
		l.tiles[i] = Tile{GID: gid, Entry: reg.Get(gid)}
	}
	return l, nil
}

// decodeData returns exactly `count` gids from a <data> element
func decodeData(data *element, count int) ([]int, error) {
	if c, ok := data.Attr("compression"); ok {
		return nil, newError(ErrUnsupportedEncoding, "compression %q not supported", c)
	}

	enc := EncodingXML
	if e, ok := data.Attr("encoding"); ok {
		enc = e
	}

	var (
		gids []int
		err  error
	)
	switch enc {
	case EncodingXML:
		gids, err = decodeXML(data)
	case EncodingCSV:
		gids, err = decodeCSV(data.Text())
	case EncodingBase64:
		gids, err = decodeBase64(data.Text())
	default:
		return nil, newError(ErrUnsupportedEncoding, "invalid encoding %q", enc)
	}
	if err != nil {
		return nil, err
	}

	if len(gids) != count {
		return nil, newError(ErrStructuralMismatch, "%s data has %d tiles, expected %d", enc, len(gids), count)
	}
	return gids, nil
}

// decodeXML reads one <tile gid=".."/> per cell
func decodeXML(data *element) ([]int, error) {
	tiles := data.ChildrenNamed("tile")
	gids := make([]int, len(tiles))
	for i, t := range tiles {
		gids[i] = t.Int("gid")
	}
	return gids, nil
}

// decodeCSV reads csv encoded tile data
func decodeCSV(text string) ([]int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []int{}, nil
	}

	str := strings.Split(text, ",")
	gids := make([]int, len(str))
	for i, s := range str {
		s = strings.TrimSpace(strings.ReplaceAll(s, "\n", ""))
		d, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return nil, newError(ErrStructuralMismatch, "invalid csv value %q", s)
		}
		gids[i] = int(d)
	}
	return gids, nil
}

// decodeBase64 reads base64 encoded little endian uint32 gids.
// Anything before the first base64 character (usually a newline & indent)
// is skipped.
func decodeBase64(text string) ([]int, error) {
	start := strings.IndexFunc(text, isBase64Char)
	if start < 0 {
		return []int{}, nil
	}
	text = strings.Join(strings.Fields(text[start:]), "")

	raw, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return nil, wrapError(ErrStructuralMismatch, err, "invalid base64 data")
	}
	if len(raw)%4 != 0 {
		return nil, newError(ErrStructuralMismatch, "base64 data is %d bytes, not a multiple of 4", len(raw))
	}

	gids := make([]int, len(raw)/4)
	for i := range gids {
		gids[i] = int(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return gids, nil
}

func isBase64Char(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '+' || r == '/'
}
