// Package osmdata holds the OSM elements the barrier graph is built from and
// the providers that serve them per tile.
package osmdata

import (
	"math"
	"sort"

	"github.com/favyen/urbanpolygons/tiles"
	"github.com/mitroadmaps/gomapinfer/common"
)

// Node is an OSM node. A NaN coordinate means the location is unknown.
type Node struct {
	ID  int64   `msgpack:"id"`
	Lon float64 `msgpack:"lon"`
	Lat float64 `msgpack:"lat"`
}

func (n Node) HasLocation() bool {
	return !math.IsNaN(n.Lon) && !math.IsNaN(n.Lat)
}

func (n Node) Point() common.Point {
	return common.Point{X: n.Lon, Y: n.Lat}
}

type Way struct {
	ID      int64   `msgpack:"id"`
	NodeIDs []int64 `msgpack:"nodes"`
	Tags    Tags    `msgpack:"tags"`
}

// Closed reports whether the way starts and ends at the same node.
func (w Way) Closed() bool {
	return len(w.NodeIDs) > 2 && w.NodeIDs[0] == w.NodeIDs[len(w.NodeIDs)-1]
}

// TileData is the content of one tile: every way touching the tile and all
// nodes those ways reference, nodes first.
type TileData struct {
	Nodes []Node `msgpack:"nodes"`
	Ways  []Way  `msgpack:"ways"`
}

// Provider serves the OSM data of a tile.
type Provider interface {
	Tile(id tiles.ID) (*TileData, error)
}

// ProviderFunc adapts a function to a Provider.
type ProviderFunc func(id tiles.ID) (*TileData, error)

func (f ProviderFunc) Tile(id tiles.ID) (*TileData, error) {
	return f(id)
}

// Tag is a single key/value pair.
type Tag struct {
	Key   string `msgpack:"k"`
	Value string `msgpack:"v"`
}

// Tags is an immutable set of tags sorted by key. Nothing in this repository
// modifies a Tags slice after construction, so slices are shared freely.
type Tags []Tag

// NewTags builds sorted tags from a map.
func NewTags(m map[string]string) Tags {
	if len(m) == 0 {
		return nil
	}
	tags := make(Tags, 0, len(m))
	for k, v := range m {
		tags = append(tags, Tag{Key: k, Value: v})
	}
	sort.Slice(tags, func(i, j int) bool {
		return tags[i].Key < tags[j].Key
	})
	return tags
}

// TagsOf builds tags from alternating keys and values.
func TagsOf(kv ...string) Tags {
	m := make(map[string]string)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	return NewTags(m)
}

func (tags Tags) Get(key string) (string, bool) {
	i := sort.Search(len(tags), func(i int) bool {
		return tags[i].Key >= key
	})
	if i < len(tags) && tags[i].Key == key {
		return tags[i].Value, true
	}
	return "", false
}

func (tags Tags) Has(key string) bool {
	_, ok := tags.Get(key)
	return ok
}

func (tags Tags) Map() map[string]string {
	m := make(map[string]string, len(tags))
	for _, tag := range tags {
		m[tag.Key] = tag.Value
	}
	return m
}

// Equal compares two tag sets.
func (tags Tags) Equal(other Tags) bool {
	if len(tags) != len(other) {
		return false
	}
	for i := range tags {
		if tags[i] != other[i] {
			return false
		}
	}
	return true
}
