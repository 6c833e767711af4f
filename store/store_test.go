package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/favyen/urbanpolygons/barrier"
	"github.com/favyen/urbanpolygons/landuse"
	"github.com/favyen/urbanpolygons/osmdata"
	"github.com/favyen/urbanpolygons/tiles"
	"github.com/google/go-cmp/cmp"
	"github.com/mitroadmaps/gomapinfer/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var home = tiles.New(14, 8392, 5468)

func at(fx, fy float64) common.Point {
	box := home.Box()
	return common.Point{
		X: box.Min.X + fx*(box.Max.X-box.Min.X),
		Y: box.Min.Y + fy*(box.Max.Y-box.Min.Y),
	}
}

// twoSquares builds two squares sharing a side. With reversed set, vertices
// and edges are added in the opposite order.
func twoSquares(t *testing.T, reversed bool) *barrier.Graph {
	g := barrier.New(14)
	g.SetTileLoaded(home)
	points := []common.Point{at(0.2, 0.2), at(0.5, 0.2), at(0.5, 0.8), at(0.2, 0.8), at(0.8, 0.8), at(0.8, 0.2)}
	// a, d, c, b, e, f
	order := []int{0, 1, 2, 3, 4, 5}
	if reversed {
		order = []int{5, 4, 3, 2, 1, 0}
	}
	vertices := make([]int, len(points))
	for _, i := range order {
		vertices[i] = g.AddVertex(points[i])
	}
	type edgeDef struct {
		v1, v2 int
		shape  []common.Point
	}
	tags := osmdata.TagsOf("barrier", "wall")
	defs := []edgeDef{
		{0, 2, []common.Point{points[3]}},
		{2, 1, nil},
		{1, 0, nil},
		{1, 2, []common.Point{points[5], points[4]}},
	}
	if reversed {
		for i, j := 0, len(defs)-1; i < j; i, j = i+1, j-1 {
			defs[i], defs[j] = defs[j], defs[i]
		}
	}
	for _, def := range defs {
		g.AddEdge(vertices[def.v1], vertices[def.v2], def.shape, tags)
	}
	g.StandardizeEdges()
	require.True(t, g.AssignFaces(home).Complete())

	park := []common.Point{at(0, 0), at(0, 1), at(0.5, 1), at(0.5, 0)}
	source := landuse.NewIndex([]landuse.Candidate{
		{Polygon: landuse.NewPolygon(park), Category: landuse.Park},
	})
	require.NoError(t, g.AssignLanduse(home, source))
	return g
}

func TestFromGraph(t *testing.T) {
	snap := FromGraph(twoSquares(t, false), home)
	assert.Equal(t, home, snap.Tile)
	assert.Equal(t, 14, snap.Zoom)
	assert.Equal(t, []tiles.ID{home}, snap.Tiles)
	assert.Len(t, snap.Vertices, 3)
	assert.Len(t, snap.Edges, 4)
	assert.Len(t, snap.Faces, 3)

	for i := 1; i < len(snap.Vertices); i++ {
		a, b := snap.Vertices[i-1].Point(), snap.Vertices[i].Point()
		assert.True(t, lessPoint(a, b))
	}
	for i := 1; i < len(snap.Edges); i++ {
		assert.True(t, lessEdge(snap.Edges[i-1], snap.Edges[i]))
	}

	faceEdges := snap.FaceEdges()
	assert.Len(t, faceEdges, 2)
	parks := 0
	for face := 1; face < len(snap.Faces); face++ {
		if snap.Faces[face].Get(landuse.Park) == 1 {
			parks++
		}
	}
	assert.Equal(t, 1, parks)

	points := snap.EdgePoints(0)
	assert.Equal(t, snap.Vertices[snap.Edges[0].V1].Point(), points[0])
	assert.Equal(t, snap.Vertices[snap.Edges[0].V2].Point(), points[len(points)-1])

	bounds := snap.Bounds()
	assert.Equal(t, at(0.2, 0.2), bounds.Min)
	assert.Equal(t, at(0.8, 0.8), bounds.Max)
}

func TestFromGraphIgnoresBuildOrder(t *testing.T) {
	a := FromGraph(twoSquares(t, false), home)
	b := FromGraph(twoSquares(t, true), home)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("snapshots differ (-forward +reversed):\n%s", diff)
	}
	encodedA, err := Encode(a)
	require.NoError(t, err)
	encodedB, err := Encode(b)
	require.NoError(t, err)
	assert.Equal(t, encodedA, encodedB)
}

func TestWriteLoad(t *testing.T) {
	dir := t.TempDir()
	snap := FromGraph(twoSquares(t, false), home)

	assert.False(t, Exists(dir, home))
	_, err := Load(dir, home)
	assert.Equal(t, ErrNotFound, err)

	require.NoError(t, Write(dir, snap))
	assert.True(t, Exists(dir, home))
	assert.Equal(t, filepath.Join(dir, "14_8392_5468.graph.gz"), Path(dir, home))

	got, err := Load(dir, home)
	require.NoError(t, err)
	if diff := cmp.Diff(snap, got); diff != "" {
		t.Errorf("loaded snapshot differs:\n%s", diff)
	}

	// writing again gives the same bytes and leaves no temporary files
	first, err := os.ReadFile(Path(dir, home))
	require.NoError(t, err)
	require.NoError(t, Write(dir, snap))
	second, err := os.ReadFile(Path(dir, home))
	require.NoError(t, err)
	assert.Equal(t, first, second)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode([]byte("not an artifact"))
	assert.Error(t, err)
}
