package tilemap

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const (
	sqlUpsertMap = `INSERT INTO maps (name, orientation, width, height, tilewidth, tileheight, layers)
		VALUES (:name, :orientation, :width, :height, :tilewidth, :tileheight, :layers)
		ON CONFLICT (name) DO UPDATE SET orientation=EXCLUDED.orientation, width=EXCLUDED.width,
		height=EXCLUDED.height, tilewidth=EXCLUDED.tilewidth, tileheight=EXCLUDED.tileheight, layers=EXCLUDED.layers;`
	sqlInsertTiles  = `INSERT INTO tiles (id, map, layer, x, y, gid) VALUES (:id, :map, :layer, :x, :y, :gid);`
	sqlInsertProps  = `INSERT INTO properties (map, gid, data) VALUES (:map, :gid, :data);`
	sqlInsertObject = `INSERT INTO objects (map, layer, idx, name, type, shape, x, y, width, height, gid)
		VALUES (:map, :layer, :idx, :name, :type, :shape, :x, :y, :width, :height, :gid);`

	// rows per insert statement, keeps us well under sqlite's variable limit
	storeBatchSize = 1000
)

// Store keeps loaded documents in a sqlite database so tiles, tile
// properties & objects of many maps can be queried without reparsing them.
type Store struct {
	filename string
	db       *sqlx.DB
}

// NewStore creates a store with a random name in the os tempdir.
func NewStore() (*Store, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	fname := filepath.Join(os.TempDir(), fmt.Sprintf("tilemap.%d.sqlite", rng.Intn(1000000)))
	return OpenStore(fname)
}

// OpenStore given it's filename (database file) on disk.
// Will create if it doesn't exist. ":memory:" gives a throw away store.
func OpenStore(fname string) (*Store, error) {
	db, err := sqlx.Open("sqlite3", fname)
	if err != nil {
		return nil, err
	}
	// one connection, otherwise each ":memory:" connection is its own database
	db.SetMaxOpenConns(1)

	s := &Store{db: db, filename: fname}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Filename returns the path to the database on disk
func (s *Store) Filename() string {
	return s.filename
}

func (s *Store) Close() error {
	return s.db.Close()
}

// StoredMap is the summary row of a saved map
type StoredMap struct {
	Name        string  `db:"name"`
	Orientation string  `db:"orientation"`
	Width       int     `db:"width"`
	Height      int     `db:"height"`
	TileWidth   float64 `db:"tilewidth"`
	TileHeight  float64 `db:"tileheight"`
	Layers      int     `db:"layers"`
}

// StoredObject is an object of a saved object group, in world units.
type StoredObject struct {
	Map    string  `db:"map"`
	Layer  int     `db:"layer"`
	Index  int     `db:"idx"`
	Name   string  `db:"name"`
	Type   string  `db:"type"`
	Shape  string  `db:"shape"`
	X      float64 `db:"x"`
	Y      float64 `db:"y"`
	Width  float64 `db:"width"`
	Height float64 `db:"height"`
	GID    int     `db:"gid"`
}

// Save writes the document under `name`, replacing anything saved under it before.
// Only non empty cells are stored.
func (s *Store) Save(name string, d *Document) error {
	txn, err := s.db.Beginx()
	if err != nil {
		return err
	}

	if err := s.save(txn, name, d); err != nil {
		txn.Rollback()
		return err
	}
	return txn.Commit()
}

func (s *Store) save(txn *sqlx.Tx, name string, d *Document) error {
	for _, table := range []string{"tiles", "properties", "objects"} {
		if _, err := txn.Exec(fmt.Sprintf("DELETE FROM %s WHERE map=?;", table), name); err != nil {
			return err
		}
	}

	info := d.Info()
	_, err := txn.NamedExec(sqlUpsertMap, StoredMap{
		Name:        name,
		Orientation: info.Orientation.String(),
		Width:       info.Width,
		Height:      info.Height,
		TileWidth:   info.TileWidth,
		TileHeight:  info.TileHeight,
		Layers:      d.NumLayers(),
	})
	if err != nil {
		return err
	}

	tiles := []dbTile{}
	objects := []StoredObject{}
	for z, l := range d.Layers() {
		switch layer := l.(type) {
		case *TileLayer:
			for i, gid := range layer.GIDs() {
				if gid == 0 {
					continue // nil tile
				}
				tiles = append(tiles, newDBTile(name, i%layer.Width, i/layer.Width, z, gid))
			}
		case *ObjectGroup:
			for i, o := range layer.Objects() {
				objects = append(objects, StoredObject{
					Map:    name,
					Layer:  z,
					Index:  i,
					Name:   o.Name,
					Type:   o.Type,
					Shape:  o.ObjectType.String(),
					X:      o.Position.X,
					Y:      o.Position.Y,
					Width:  o.Size.X,
					Height: o.Size.Y,
					GID:    o.GID,
				})
			}
		}
	}

	props := []dbProp{}
	for _, gid := range d.Registry().GIDs() {
		p := d.TileProperties(gid)
		if p.Len() == 0 {
			continue
		}
		prop, err := newDBProp(name, gid, p)
		if err != nil {
			return err
		}
		props = append(props, prop)
	}

	for i := 0; i < len(tiles); i += storeBatchSize {
		if _, err := txn.NamedExec(sqlInsertTiles, tiles[i:min(i+storeBatchSize, len(tiles))]); err != nil {
			return err
		}
	}
	for i := 0; i < len(objects); i += storeBatchSize {
		if _, err := txn.NamedExec(sqlInsertObject, objects[i:min(i+storeBatchSize, len(objects))]); err != nil {
			return err
		}
	}
	for i := 0; i < len(props); i += storeBatchSize {
		if _, err := txn.NamedExec(sqlInsertProps, props[i:min(i+storeBatchSize, len(props))]); err != nil {
			return err
		}
	}
	return nil
}

// Maps lists saved maps by name
func (s *Store) Maps() ([]StoredMap, error) {
	out := []StoredMap{}
	err := s.db.Select(&out, "SELECT name, orientation, width, height, tilewidth, tileheight, layers FROM maps ORDER BY name;")
	return out, err
}

// At returns the gid at (x, y) of layer index z, 0 if unset.
func (s *Store) At(name string, x, y, z int) (int, error) {
	var gid int
	err := s.db.Get(&gid, "SELECT gid FROM tiles WHERE id=? LIMIT 1;", tileID(name, x, y, z))
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return gid, err
}

// Properties returns the saved properties of gid in the named map.
// Unknown gids give an empty set.
func (s *Store) Properties(name string, gid int) (*PropertySet, error) {
	var data string
	err := s.db.Get(&data, "SELECT data FROM properties WHERE map=? AND gid=? LIMIT 1;", name, gid)
	if err == sql.ErrNoRows {
		return NewPropertySet(), nil
	}
	if err != nil {
		return nil, err
	}

	pairs := [][2]string{}
	if err := json.Unmarshal([]byte(data), &pairs); err != nil {
		return nil, err
	}

	ps := NewPropertySet()
	for _, kv := range pairs {
		ps.Set(kv[0], kv[1])
	}
	return ps, nil
}

// Objects returns the saved objects of layer index z, in order.
func (s *Store) Objects(name string, z int) ([]StoredObject, error) {
	out := []StoredObject{}
	err := s.db.Select(
		&out,
		"SELECT map, layer, idx, name, type, shape, x, y, width, height, gid FROM objects WHERE map=? AND layer=? ORDER BY idx;",
		name, z,
	)
	return out, err
}

// init creates some DB tables for us if they don't exist
func (s *Store) init() error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS maps(
		name TEXT PRIMARY KEY,
		orientation TEXT NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		tilewidth REAL NOT NULL,
		tileheight REAL NOT NULL,
		layers INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tiles(
		id TEXT PRIMARY KEY,
		map TEXT NOT NULL,
		layer INTEGER NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		gid INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS properties(
		map TEXT NOT NULL,
		gid INTEGER NOT NULL,
		data TEXT,
		PRIMARY KEY (map, gid)
		);`,
		`CREATE TABLE IF NOT EXISTS objects(
		map TEXT NOT NULL,
		layer INTEGER NOT NULL,
		idx INTEGER NOT NULL,
		name TEXT,
		type TEXT,
		shape TEXT NOT NULL,
		x REAL, y REAL, width REAL, height REAL,
		gid INTEGER,
		PRIMARY KEY (map, layer, idx)
		);`,
	}
	for _, q := range tables {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// dbTile object encodes a single non empty cell.
// The ID here is used to find a cell by it's (map,x,y,z) with a more
// straight forward query.
type dbTile struct {
	ID    string `db:"id"`
	Map   string `db:"map"`
	Layer int    `db:"layer"`
	X     int    `db:"x"`
	Y     int    `db:"y"`
	GID   int    `db:"gid"`
}

func tileID(name string, x, y, z int) string {
	return fmt.Sprintf("%s/%d-%d-%d", name, x, y, z)
}

// newDBTile crafts a dbTile struct given it's inputs
func newDBTile(name string, x, y, z, gid int) dbTile {
	return dbTile{ID: tileID(name, x, y, z), Map: name, Layer: z, X: x, Y: y, GID: gid}
}

// dbProp object encodes properties for a single gid.
type dbProp struct {
	Map  string `db:"map"`
	GID  int    `db:"gid"`
	Data string `db:"data"`
}

// newDBProp crafts a dbProp struct given it's inputs.
// Properties are encoded into JSON as ordered [name, value] pairs.
func newDBProp(name string, gid int, props *PropertySet) (dbProp, error) {
	pairs := [][2]string{}
	for _, k := range props.Names() {
		pairs = append(pairs, [2]string{k, props.Get(k)})
	}

	databytes, err := json.Marshal(pairs)
	if err != nil {
		return dbProp{}, err
	}
	return dbProp{Map: name, GID: gid, Data: string(databytes)}, nil
}
