package osmdata

import (
	"math"
	"testing"

	"github.com/favyen/urbanpolygons/tiles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagsSortedLookup(t *testing.T) {
	tags := NewTags(map[string]string{"name": "Meir", "highway": "pedestrian", "access": "no"})
	require.Len(t, tags, 3)
	assert.Equal(t, "access", tags[0].Key)
	v, ok := tags.Get("highway")
	assert.True(t, ok)
	assert.Equal(t, "pedestrian", v)
	assert.False(t, tags.Has("barrier"))
	assert.True(t, tags.Equal(TagsOf("access", "no", "highway", "pedestrian", "name", "Meir")))
	assert.Nil(t, NewTags(nil))
}

func TestDefaultBarriers(t *testing.T) {
	assert.True(t, DefaultBarriers.IsBarrier(TagsOf("barrier", "wall")))
	assert.True(t, DefaultBarriers.IsBarrier(TagsOf("highway", "residential", "name", "x")))
	assert.True(t, DefaultBarriers.IsBarrier(TagsOf("waterway", "canal")))
	assert.False(t, DefaultBarriers.IsBarrier(TagsOf("highway", "residential", "tunnel", "yes")))
	assert.False(t, DefaultBarriers.IsBarrier(TagsOf("building", "yes")))
	assert.False(t, DefaultBarriers.IsBarrier(TagsOf("barrier", "gate")))
	assert.False(t, DefaultBarriers.IsBarrier(nil))
}

func TestNodeLocation(t *testing.T) {
	assert.True(t, Node{ID: 1, Lon: 4.4, Lat: 51.2}.HasLocation())
	assert.False(t, Node{ID: 1, Lon: math.NaN(), Lat: 51.2}.HasLocation())
}

func TestMemoryProviderSplitsWays(t *testing.T) {
	p := NewMemoryProvider(14)
	// two nodes in one tile, one in the tile to the east
	a := tiles.New(14, 8392, 5468).Box()
	b := tiles.New(14, 8393, 5468).Box()
	p.AddNode(Node{ID: 1, Lon: a.Min.X + 0.001, Lat: a.Min.Y + 0.001})
	p.AddNode(Node{ID: 2, Lon: a.Min.X + 0.002, Lat: a.Min.Y + 0.002})
	p.AddNode(Node{ID: 3, Lon: b.Min.X + 0.001, Lat: b.Min.Y + 0.001})
	p.AddWay(Way{ID: 10, NodeIDs: []int64{1, 2, 3}, Tags: TagsOf("barrier", "wall")})
	p.AddWay(Way{ID: 11, NodeIDs: []int64{1, 2}, Tags: TagsOf("barrier", "fence")})
	p.AddWay(Way{ID: 12, NodeIDs: []int64{99}, Tags: TagsOf("barrier", "fence")})

	assert.Equal(t, []tiles.ID{tiles.New(14, 8392, 5468), tiles.New(14, 8393, 5468)}, p.WayTiles(10))
	assert.Nil(t, p.WayTiles(12))
	assert.Equal(t, 2, p.WayCount())
	assert.Len(t, p.Tiles(), 2)

	data, err := p.Tile(tiles.New(14, 8393, 5468))
	require.NoError(t, err)
	require.Len(t, data.Ways, 1)
	assert.Equal(t, int64(10), data.Ways[0].ID)
	require.Len(t, data.Nodes, 3)
	assert.Equal(t, int64(1), data.Nodes[0].ID)

	empty, err := p.Tile(tiles.New(14, 0, 0))
	require.NoError(t, err)
	assert.Empty(t, empty.Ways)
}

func TestCachedProvider(t *testing.T) {
	calls := 0
	inner := ProviderFunc(func(id tiles.ID) (*TileData, error) {
		calls++
		return &TileData{
			Nodes: []Node{{ID: 1, Lon: 1, Lat: 2}},
			Ways:  []Way{{ID: 5, NodeIDs: []int64{1, 1}, Tags: TagsOf("barrier", "hedge")}},
		}, nil
	})
	c := NewCachedProvider(inner, 1024*1024)
	first, err := c.Tile(tiles.New(3, 1, 1))
	require.NoError(t, err)
	second, err := c.Tile(tiles.New(3, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	_, err = c.Tile(tiles.New(3, 1, 2))
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
