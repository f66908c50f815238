package tilemap

import (
	"testing"
	"testing/fstest"

	"github.com/lafriks/go-tiled"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAgreesWithGoTiled decodes the same layers with lafriks/go-tiled and
// checks both readers see the same gid grid.
func TestAgreesWithGoTiled(t *testing.T) {
	gids := []int{
		1, 2, 3, 4, 5,
		0, 0, 8, 7, 6,
		2, 0, 1, 0, 3,
	}

	for _, enc := range allEncodings {
		data := sheetMap(5, 3, encodeGIDs(enc, gids))

		fsys := fstest.MapFS{"level.tmx": {Data: []byte(data)}}
		theirs, err := tiled.LoadFile("level.tmx", tiled.WithFileSystem(fsys))
		require.Nil(t, err, enc)
		require.Len(t, theirs.Layers, 1, enc)

		expect := make([]int, len(theirs.Layers[0].Tiles))
		for i, tile := range theirs.Layers[0].Tiles {
			if tile.IsNil() {
				continue
			}
			expect[i] = int(tile.Tileset.FirstGID + tile.ID)
		}

		doc, err := Parse([]byte(data), &Config{Resources: sheetResources()})
		require.Nil(t, err, enc)

		assert.Equal(t, gids, expect, enc)
		assert.Equal(t, expect, doc.Layer(0).(*TileLayer).GIDs(), enc)
		assert.Equal(t, theirs.Width, doc.Info().Width)
		assert.Equal(t, theirs.Height, doc.Info().Height)
	}
}
