package tilemap

// Config includes settings for loading a Document
type Config struct {
	// where referenced images & tilesets are read from
	Resources Resources

	// directory of the map file, relative references are joined to it.
	BaseDir string

	// issue background loads for every referenced image before parsing.
	// Only used if Resources implements Preloader.
	Preload bool
}

// DefaultConfig returns a config reading from the current directory.
func DefaultConfig() *Config {
	return &Config{
		Resources: NewDirResources("."),
		BaseDir:   "",
		Preload:   false,
	}
}
