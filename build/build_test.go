package build

import (
	"context"
	"math/rand"
	"os"
	"testing"

	"github.com/favyen/urbanpolygons/landuse"
	"github.com/favyen/urbanpolygons/osmdata"
	"github.com/favyen/urbanpolygons/store"
	"github.com/favyen/urbanpolygons/tiles"
	"github.com/mitroadmaps/gomapinfer/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const zoom = 14

var (
	west  = tiles.New(zoom, 8391, 5468)
	home  = tiles.New(zoom, 8392, 5468)
	east  = tiles.New(zoom, 8393, 5468)
	east2 = tiles.New(zoom, 8394, 5468)
)

func at(tile tiles.ID, fx, fy float64) common.Point {
	box := tile.Box()
	return common.Point{
		X: box.Min.X + fx*(box.Max.X-box.Min.X),
		Y: box.Min.Y + fy*(box.Max.Y-box.Min.Y),
	}
}

type world struct {
	provider *osmdata.MemoryProvider
	nodes    map[common.Point]int64
	nextWay  int64
}

func newWorld() *world {
	return &world{
		provider: osmdata.NewMemoryProvider(zoom),
		nodes:    make(map[common.Point]int64),
	}
}

func (w *world) way(tags osmdata.Tags, points ...common.Point) {
	var nodeIDs []int64
	for _, p := range points {
		id, ok := w.nodes[p]
		if !ok {
			id = int64(len(w.nodes) + 1)
			w.nodes[p] = id
			w.provider.AddNode(osmdata.Node{ID: id, Lon: p.X, Lat: p.Y})
		}
		nodeIDs = append(nodeIDs, id)
	}
	w.nextWay++
	w.provider.AddWay(osmdata.Way{ID: w.nextWay, NodeIDs: nodeIDs, Tags: tags})
}

func (w *world) wall(points ...common.Point) {
	w.way(osmdata.TagsOf("barrier", "wall"), points...)
}

func (w *world) builder(t *testing.T) *Builder {
	return &Builder{
		Provider: w.provider,
		Barriers: osmdata.DefaultBarriers,
		Landuse:  landuse.NewTileSource(w.provider, zoom),
		Dir:      t.TempDir(),
		Zoom:     zoom,
	}
}

func TestBuildTileAcrossBorder(t *testing.T) {
	w := newWorld()
	a := at(home, 0.5, 0.3)
	w.wall(a, at(home, 0.5, 0.7), at(east, 0.5, 0.7), at(east, 0.5, 0.3), a)
	b := w.builder(t)

	stats, err := b.BuildTile(home)
	require.NoError(t, err)
	assert.False(t, stats.Skipped)
	assert.Equal(t, 1, stats.Iterations)
	assert.Equal(t, 2, stats.Tiles)
	assert.Equal(t, 1, stats.Faces)
	assert.True(t, store.Exists(b.Dir, home))

	snap, err := store.Load(b.Dir, home)
	require.NoError(t, err)
	assert.Equal(t, []tiles.ID{home, east}, snap.Tiles)
	assert.Len(t, snap.Faces, 2)

	before, err := os.ReadFile(store.Path(b.Dir, home))
	require.NoError(t, err)
	info, err := os.Stat(store.Path(b.Dir, home))
	require.NoError(t, err)

	stats, err = b.BuildTile(home)
	require.NoError(t, err)
	assert.True(t, stats.Skipped)
	after, err := os.ReadFile(store.Path(b.Dir, home))
	require.NoError(t, err)
	assert.Equal(t, before, after)
	again, err := os.Stat(store.Path(b.Dir, home))
	require.NoError(t, err)
	assert.Equal(t, info.ModTime(), again.ModTime())
}

func TestBuildTileGrowsUntilClosed(t *testing.T) {
	w := newWorld()
	a := at(home, 0.5, 0.3)
	w.wall(a, at(east, 0.5, 0.3), at(east2, 0.5, 0.3), at(east2, 0.5, 0.7), at(east, 0.5, 0.7), at(home, 0.5, 0.7), a)
	b := w.builder(t)

	stats, err := b.BuildTile(home)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Iterations)
	assert.Equal(t, 3, stats.Tiles)
	assert.Equal(t, 1, stats.Faces)

	b.Dir = t.TempDir()
	b.MaxTiles = 2
	_, err = b.BuildTile(home)
	assert.Equal(t, ErrTooManyTiles, errors.Cause(err))
}

// a dead end inside the tile is crossed by a way that only has nodes in the
// neighbouring tiles, which closes a second face
func TestBuildTileKeepsDeadEndsUntilNeighboursLoaded(t *testing.T) {
	w := newWorld()
	a := at(home, 0.5, 0.3)
	corner := at(east, 0.5, 0.3)
	w.wall(a, at(home, 0.5, 0.7), at(east, 0.5, 0.7), corner, a)
	w.wall(a, at(home, 0.3, 0.1))
	w.wall(at(west, 0.5, 0.2), at(east, 0.3, 0.2), corner)
	b := w.builder(t)

	stats, err := b.BuildTile(home)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Faces)

	snap, err := store.Load(b.Dir, home)
	require.NoError(t, err)
	assert.Contains(t, snap.Tiles, west)
}

func TestBuildTileLanduse(t *testing.T) {
	w := newWorld()
	a := at(home, 0.2, 0.2)
	w.wall(a, at(home, 0.2, 0.8), at(home, 0.8, 0.8), at(home, 0.8, 0.2), a)
	p := at(home, 0.1, 0.1)
	w.way(osmdata.TagsOf("landuse", "residential"), p, at(home, 0.1, 0.9), at(home, 0.9, 0.9), at(home, 0.9, 0.1), p)
	b := w.builder(t)

	_, err := b.BuildTile(home)
	require.NoError(t, err)
	snap, err := store.Load(b.Dir, home)
	require.NoError(t, err)
	require.Len(t, snap.Faces, 2)
	assert.Equal(t, 1.0, snap.Faces[1].Get(landuse.Residential))
}

// the same tile built from data given in a different order gives the same
// artifact
func TestBuildTileIgnoresInputOrder(t *testing.T) {
	left := func(w *world) {
		a := at(home, 0.2, 0.2)
		w.wall(a, at(home, 0.2, 0.8), at(home, 0.5, 0.8), at(home, 0.5, 0.2), a)
	}
	right := func(w *world) {
		d := at(home, 0.5, 0.2)
		w.wall(d, at(home, 0.5, 0.8), at(home, 0.8, 0.8), at(home, 0.8, 0.2), d)
	}

	w1 := newWorld()
	left(w1)
	right(w1)
	b1 := w1.builder(t)
	_, err := b1.BuildTile(home)
	require.NoError(t, err)

	w2 := newWorld()
	right(w2)
	left(w2)
	b2 := w2.builder(t)
	_, err = b2.BuildTile(home)
	require.NoError(t, err)

	first, err := os.ReadFile(store.Path(b1.Dir, home))
	require.NoError(t, err)
	second, err := os.ReadFile(store.Path(b2.Dir, home))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	snap, err := store.Load(b1.Dir, home)
	require.NoError(t, err)
	assert.Len(t, snap.Faces, 3)
}

// walls crossing each other several times give the same artifact whatever
// order the ways come in
func TestBuildTileIgnoresInputOrderWithCrossings(t *testing.T) {
	type wall []common.Point
	a := at(home, 0.1, 0.1)
	walls := []wall{{a, at(home, 0.1, 0.9), at(home, 0.9, 0.9), at(home, 0.9, 0.1), a}}
	for _, f := range []float64{0.25, 0.45, 0.65} {
		walls = append(walls,
			wall{at(home, 0.05, f), at(home, 0.95, f+0.05)},
			wall{at(home, f, 0.05), at(home, f+0.05, 0.95)})
	}

	build := func(order []int) []byte {
		w := newWorld()
		for _, i := range order {
			w.wall(walls[i]...)
		}
		b := w.builder(t)
		stats, err := b.BuildTile(home)
		require.NoError(t, err)
		assert.Equal(t, 16, stats.Faces)
		data, err := os.ReadFile(store.Path(b.Dir, home))
		require.NoError(t, err)
		return data
	}

	order := make([]int, len(walls))
	for i := range order {
		order[i] = i
	}
	first := build(order)
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	assert.Equal(t, first, build(order), "reversed")
	r := rand.New(rand.NewSource(1))
	for trial := 0; trial < 5; trial++ {
		assert.Equal(t, first, build(r.Perm(len(walls))), "trial %d", trial)
	}
}

func TestRun(t *testing.T) {
	w := newWorld()
	a := at(home, 0.5, 0.3)
	w.wall(a, at(home, 0.5, 0.7), at(east, 0.5, 0.7), at(east, 0.5, 0.3), a)
	b := w.builder(t)

	failing := tiles.New(zoom, 0, 0)
	inner := b.Provider
	b.Provider = osmdata.ProviderFunc(func(id tiles.ID) (*osmdata.TileData, error) {
		if id == failing {
			return nil, errors.New("broken tile")
		}
		return inner.Tile(id)
	})

	summary, err := b.Run(context.Background(), []tiles.ID{home, east, failing}, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Built)
	assert.Equal(t, 1, summary.Failed)
	assert.True(t, store.Exists(b.Dir, home))
	assert.True(t, store.Exists(b.Dir, east))

	summary, err = b.Run(context.Background(), []tiles.ID{home, east}, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Skipped)
	assert.Zero(t, summary.Built)
}

func TestRunCancelled(t *testing.T) {
	w := newWorld()
	b := w.builder(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	summary, err := b.Run(ctx, []tiles.ID{home, east}, 1)
	assert.Equal(t, context.Canceled, err)
	assert.Zero(t, summary.Built)
}
