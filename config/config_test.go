package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/favyen/urbanpolygons/tiles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	fname := filepath.Join(t.TempDir(), "build.toml")
	require.NoError(t, os.WriteFile(fname, []byte(content), 0644))
	return fname
}

func TestLoad(t *testing.T) {
	fname := writeConfig(t, `
[build]
pbf = "belgium.osm.pbf"
output = "/data/tiles"
zoom = 14
workers = 8
region = "antwerp"
cache_size = "64 MB"
max_tiles = 500

[logging]
logfile = "build.log"
max_log_size = 100
max_log_age = 30
`)
	c, err := Load(fname)
	require.NoError(t, err)
	dir := filepath.Dir(fname)
	assert.Equal(t, filepath.Join(dir, "belgium.osm.pbf"), c.Build.PBF)
	assert.Equal(t, "/data/tiles", c.Build.Output)
	assert.Equal(t, filepath.Join(dir, "build.log"), c.Logging.Logfile)
	assert.Equal(t, 8, c.Build.Workers)
	assert.Equal(t, 500, c.Build.MaxTiles)
	assert.Equal(t, 100, c.Logging.MaxSize)
	assert.Equal(t, 30, c.Logging.MaxAge)

	size, err := c.Build.CacheBytes()
	require.NoError(t, err)
	assert.Equal(t, 64000000, size)

	ids, err := c.Build.Tiles()
	require.NoError(t, err)
	require.NotEmpty(t, ids)
	antwerp := tiles.FromLocation(4.4025, 51.2194, 14)
	assert.Contains(t, ids, antwerp)
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, `
[build]
bbox = [4.40, 51.21, 4.41, 51.22]
`))
	require.NoError(t, err)
	assert.Equal(t, DefaultZoom, c.Build.Zoom)
	assert.Equal(t, DefaultWorkers, c.Build.Workers)
	assert.Equal(t, DefaultCacheSize, c.Build.CacheSize)
	assert.Equal(t, "", c.Logging.Logfile)
	rect, err := c.Build.Bounds()
	require.NoError(t, err)
	assert.Equal(t, 4.40, rect.Min.X)
	assert.Equal(t, 51.22, rect.Max.Y)
}

func TestLoadInvalid(t *testing.T) {
	for _, content := range []string{
		"[build]\nregion = \"atlantis\"\n",
		"[build]\nbbox = [1, 2, 3]\n",
		"[build]\nbbox = [4, 51, 3, 50]\n",
		"[build]\nregion = \"antwerp\"\nzoom = 40\n",
		"[build]\nregion = \"antwerp\"\ncache_size = \"lots\"\n",
		"[build\n",
	} {
		_, err := Load(writeConfig(t, content))
		assert.Error(t, err, content)
	}
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
