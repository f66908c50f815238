package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/go-yaml/yaml"
	"github.com/mitchellh/go-homedir"

	"github.com/voidshard/tilemap"
)

const desc = `Reads .tmx maps & prints a summary of each as YAML.

Every tileset, layer & object is loaded exactly as a game would load it, so
this doubles as a validator: a map that fails here fails at runtime too.

With --store maps are also saved into a sqlite database (one row per non empty
cell, object & tile with properties) for querying with any sqlite client.
With --watch maps are re-read whenever they (or their tilesets & images) change.`

var cli struct {
	Config string `short:"c" help:"yaml file with default settings (keys: preload, store)"`

	Store   string `short:"s" help:"sqlite database to save maps into"`
	Preload bool   `help:"decode all images in parallel before parsing"`
	Watch   bool   `short:"w" help:"re-read maps when they change"`

	Maps []string `arg:"" help:"tmx files to read"`
}

// fileConfig is the optional --config file
type fileConfig struct {
	Preload bool   `yaml:"preload"`
	Store   string `yaml:"store"`
}

// loadConfig reads the --config file & fills in anything not set on the command line
func loadConfig(fname string) error {
	data, err := ioutil.ReadFile(fname)
	if err != nil {
		return err
	}

	cfg := fileConfig{}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("%s: %w", fname, err)
	}

	if cli.Store == "" {
		cli.Store = cfg.Store
	}
	cli.Preload = cli.Preload || cfg.Preload
	return nil
}

// expand resolves ~ in a path given on the command line
func expand(path string) string {
	out, err := homedir.Expand(path)
	if err != nil {
		panic(err)
	}
	return out
}

// mapName is the name a map is saved under in the store
func mapName(fname string) string {
	return strings.TrimSuffix(filepath.Base(fname), filepath.Ext(fname))
}

// load reads each map, prints the summaries & saves to the store (if any).
// Maps that fail are reported and skipped; returns the number of failures.
// The directories each map read files from are noted in d.
func load(store *tilemap.Store, fnames []string, d *deps) int {
	failed := 0
	summaries := []*Summary{}
	for _, fname := range fnames {
		rec := newRecorder(tilemap.NewDirResources(filepath.Dir(fname)))
		doc, err := tilemap.Open(fname, &tilemap.Config{Resources: rec, Preload: cli.Preload})
		d.set(fname, rec.dirs(filepath.Dir(fname)))
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", fname, err)
			failed++
			continue
		}
		summaries = append(summaries, summarise(fname, doc))

		if store == nil {
			continue
		}
		if err := store.Save(mapName(fname), doc); err != nil {
			fmt.Fprintf(os.Stderr, "%s: saving to %s: %v\n", fname, store.Filename(), err)
			failed++
		}
	}

	data, err := toYAML(summaries...)
	if err != nil {
		panic(err)
	}
	fmt.Print(string(data))
	return failed
}

func main() {
	kong.Parse(
		&cli,
		kong.Name("tmxinfo"),
		kong.Description(desc),
	)

	if cli.Config != "" {
		if err := loadConfig(expand(cli.Config)); err != nil {
			panic(err)
		}
	}

	fnames := []string{}
	for _, m := range cli.Maps {
		fnames = append(fnames, expand(m))
	}
	if len(fnames) == 0 {
		fmt.Fprintln(os.Stderr, "no maps given")
		os.Exit(2)
	}

	var store *tilemap.Store
	if cli.Store != "" {
		var err error
		store, err = tilemap.OpenStore(expand(cli.Store))
		if err != nil {
			panic(err)
		}
		defer store.Close()
	}

	d := newDeps()
	failed := load(store, fnames, d)
	if !cli.Watch {
		if failed > 0 {
			if store != nil {
				store.Close()
			}
			os.Exit(1)
		}
		return
	}

	watch(store, d)
}

// watch re-reads maps whenever something in a directory they read from
// changes, until interrupted.
func watch(store *tilemap.Store, d *deps) {
	logger := log.New(os.Stderr, "[tmxinfo] ", log.LstdFlags)

	w, err := NewWatcher()
	if err != nil {
		panic(err)
	}
	defer w.Close()

	// a missing tileset directory is logged, the rest are still watched
	dirs := d.dirs()
	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			logger.Println("watch error:", err)
		}
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	logger.Printf("watching %d director(ies)\n", len(dirs))
	for {
		select {
		case changed, ok := <-w.Events:
			if !ok {
				return
			}
			maps := d.mapsIn(filepath.Dir(changed))
			logger.Printf("%s changed, reloading %d map(s)\n", changed, len(maps))
			if failed := load(store, maps, d); failed > 0 {
				logger.Printf("%d map(s) failed to load\n", failed)
			}
			// a reload may reference tilesets somewhere new
			for _, dir := range d.dirs() {
				if err := w.Add(dir); err != nil {
					logger.Println("watch error:", err)
				}
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Println("watch error:", err)
		case <-interrupt:
			logger.Println("stopping")
			return
		}
	}
}
