// Package config reads the TOML configuration of the build programs.
package config

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/dustin/go-humanize"
	"github.com/favyen/urbanpolygons/lib"
	"github.com/favyen/urbanpolygons/tiles"
	"github.com/mitroadmaps/gomapinfer/common"
	"github.com/natefinch/lumberjack"
	"github.com/pkg/errors"
)

const (
	DefaultZoom      = 14
	DefaultWorkers   = 4
	DefaultCacheSize = "256 MB"
)

type Config struct {
	Build   BuildConfig
	Logging LogConfig
}

type BuildConfig struct {
	// OSM extract to read
	PBF string `toml:"pbf"`
	// artifact directory
	Output  string
	Zoom    int
	Workers int
	// either a region from lib.Regions or a bbox of
	// [min lon, min lat, max lon, max lat]
	Region    string
	BBox      []float64 `toml:"bbox"`
	CacheSize string    `toml:"cache_size"`
	MaxTiles  int       `toml:"max_tiles"`
	Verbose   bool
}

type LogConfig struct {
	Logfile string
	MaxSize int `toml:"max_log_size"`
	MaxAge  int `toml:"max_log_age"`
}

// SetLogger sends the standard logger to a rotating log file.
func (c *LogConfig) SetLogger() {
	if c == nil || c.Logfile == "" {
		log.Printf("sending log messages to stderr since no log file specified")
		return
	}
	fmt.Printf("Sending log messages to: %s\n", c.Logfile)
	log.SetOutput(&lumberjack.Logger{
		Filename: c.Logfile,
		MaxSize:  c.MaxSize, // megabytes
		MaxAge:   c.MaxAge,  // days
	})
}

// Load reads a configuration file. Relative paths in it are taken relative
// to the file's directory.
func Load(fname string) (*Config, error) {
	c := &Config{}
	if _, err := toml.DecodeFile(fname, c); err != nil {
		return nil, errors.Wrapf(err, "read config %s", fname)
	}
	if c.Build.Zoom == 0 {
		c.Build.Zoom = DefaultZoom
	}
	if c.Build.Workers == 0 {
		c.Build.Workers = DefaultWorkers
	}
	if c.Build.CacheSize == "" {
		c.Build.CacheSize = DefaultCacheSize
	}
	if c.Build.Output == "" {
		c.Build.Output = "tiles"
	}

	dir := filepath.Dir(fname)
	abs := func(path string) string {
		if path == "" || filepath.IsAbs(path) {
			return path
		}
		return filepath.Join(dir, path)
	}
	c.Build.PBF = abs(c.Build.PBF)
	c.Build.Output = abs(c.Build.Output)
	c.Logging.Logfile = abs(c.Logging.Logfile)

	if err := c.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", fname)
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.Build.Zoom < 1 || c.Build.Zoom > tiles.MaxZoom {
		return errors.Errorf("zoom %d out of range", c.Build.Zoom)
	}
	if c.Build.Workers < 1 {
		return errors.Errorf("workers must be positive, got %d", c.Build.Workers)
	}
	if _, err := c.Build.CacheBytes(); err != nil {
		return err
	}
	if _, err := c.Build.Bounds(); err != nil {
		return err
	}
	return nil
}

// CacheBytes is the tile cache size, written like "256 MB".
func (c BuildConfig) CacheBytes() (int, error) {
	n, err := humanize.ParseBytes(c.CacheSize)
	if err != nil {
		return 0, errors.Wrapf(err, "cache size %q", c.CacheSize)
	}
	return int(n), nil
}

// Bounds is the area to build, from the region name or the bbox.
func (c BuildConfig) Bounds() (common.Rectangle, error) {
	if c.Region != "" {
		region, ok := lib.GetRegion(c.Region)
		if !ok {
			return common.Rectangle{}, errors.Errorf("unknown region %q", c.Region)
		}
		return region.Rectangle(), nil
	}
	if len(c.BBox) != 4 {
		return common.Rectangle{}, errors.Errorf("need a region or a bbox of 4 numbers, got %v", c.BBox)
	}
	rect := common.Rectangle{
		Min: common.Point{X: c.BBox[0], Y: c.BBox[1]},
		Max: common.Point{X: c.BBox[2], Y: c.BBox[3]},
	}
	if rect.Min.X >= rect.Max.X || rect.Min.Y >= rect.Max.Y {
		return common.Rectangle{}, errors.Errorf("empty bbox %v", c.BBox)
	}
	return rect, nil
}

// Tiles lists the tiles to build.
func (c BuildConfig) Tiles() ([]tiles.ID, error) {
	rect, err := c.Bounds()
	if err != nil {
		return nil, err
	}
	return tiles.Cover(rect, c.Zoom), nil
}
