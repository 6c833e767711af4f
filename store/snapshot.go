// Package store persists the graph of a finished tile.
package store

import (
	"sort"

	"github.com/favyen/urbanpolygons/barrier"
	"github.com/favyen/urbanpolygons/landuse"
	"github.com/favyen/urbanpolygons/osmdata"
	"github.com/favyen/urbanpolygons/tiles"
	"github.com/mitroadmaps/gomapinfer/common"
)

type Point struct {
	Lon float64 `msgpack:"x"`
	Lat float64 `msgpack:"y"`
}

func (p Point) Point() common.Point {
	return common.Point{X: p.Lon, Y: p.Lat}
}

func fromPoint(p common.Point) Point {
	return Point{Lon: p.X, Lat: p.Y}
}

// Edge refers to vertices and faces of the same snapshot. A face of -1 is a
// face that does not touch the tile.
type Edge struct {
	V1        int          `msgpack:"v1"`
	V2        int          `msgpack:"v2"`
	Shape     []Point      `msgpack:"shape"`
	Tags      osmdata.Tags `msgpack:"tags"`
	FaceLeft  int          `msgpack:"fl"`
	FaceRight int          `msgpack:"fr"`
}

// Snapshot is the part of a graph that belongs to one tile: the edges
// touching it, the edges bounding its faces, and those faces with their
// land use. Face 0 is the unbounded face.
type Snapshot struct {
	Tile     tiles.ID             `msgpack:"tile"`
	Zoom     int                  `msgpack:"zoom"`
	Tiles    []tiles.ID           `msgpack:"tiles"`
	Vertices []Point              `msgpack:"vertices"`
	Edges    []Edge               `msgpack:"edges"`
	Faces    []landuse.Attributes `msgpack:"faces"`
}

// FromGraph extracts the tile's part of a graph whose faces were assigned
// for that tile. The result does not depend on the order the graph was
// built in: vertices are sorted by location, edges by their endpoints and
// shape, and faces are numbered in order of first appearance along the
// edges.
func FromGraph(g *barrier.Graph, tile tiles.ID) *Snapshot {
	inTile := map[int]bool{0: true}
	edgeSet := make(map[int]bool)
	for _, e := range g.EdgesInTile(tile) {
		edgeSet[e] = true
	}
	en := g.GetFaceEnumerator()
	for _, face := range g.FacesInTile(tile) {
		inTile[face] = true
		if !en.MoveTo(face) {
			continue
		}
		for en.MoveNext() {
			edgeSet[en.Edge()] = true
		}
	}

	vertexSet := make(map[int]bool)
	for e := range edgeSet {
		v1, v2 := g.Endpoints(e)
		vertexSet[v1] = true
		vertexSet[v2] = true
	}
	vertices := make([]int, 0, len(vertexSet))
	for v := range vertexSet {
		vertices = append(vertices, v)
	}
	sort.Slice(vertices, func(i, j int) bool {
		a, b := g.Vertex(vertices[i]), g.Vertex(vertices[j])
		if a != b {
			return lessPoint(a, b)
		}
		return vertices[i] < vertices[j]
	})
	vertexIDs := make(map[int]int, len(vertices))
	snap := &Snapshot{
		Tile:  tile,
		Zoom:  g.Zoom(),
		Tiles: g.LoadedTiles(),
	}
	for i, v := range vertices {
		vertexIDs[v] = i
		snap.Vertices = append(snap.Vertices, fromPoint(g.Vertex(v)))
	}

	type graphEdge struct {
		Edge
		left, right int
	}
	var edges []graphEdge
	for e := range edgeSet {
		v1, v2 := g.Endpoints(e)
		left, right := g.Faces(e)
		edge := graphEdge{
			Edge: Edge{
				V1:   vertexIDs[v1],
				V2:   vertexIDs[v2],
				Tags: g.Tags(e),
			},
			left:  left,
			right: right,
		}
		for _, p := range g.Shape(e) {
			edge.Shape = append(edge.Shape, fromPoint(p))
		}
		edges = append(edges, edge)
	}
	sort.Slice(edges, func(i, j int) bool {
		return lessEdge(edges[i].Edge, edges[j].Edge)
	})

	faceIDs := map[int]int{0: 0}
	snap.Faces = []landuse.Attributes{g.FaceData(0)}
	renumber := func(face int) int {
		if face == barrier.NoFace || !inTile[face] {
			return barrier.NoFace
		}
		if id, ok := faceIDs[face]; ok {
			return id
		}
		faceIDs[face] = len(snap.Faces)
		snap.Faces = append(snap.Faces, g.FaceData(face))
		return faceIDs[face]
	}
	for _, edge := range edges {
		edge.FaceLeft = renumber(edge.left)
		edge.FaceRight = renumber(edge.right)
		snap.Edges = append(snap.Edges, edge.Edge)
	}
	return snap
}

func lessPoint(a, b common.Point) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Y < b.Y
}

func lessEdge(a, b Edge) bool {
	if a.V1 != b.V1 {
		return a.V1 < b.V1
	}
	if a.V2 != b.V2 {
		return a.V2 < b.V2
	}
	for i := 0; i < len(a.Shape) && i < len(b.Shape); i++ {
		if a.Shape[i] != b.Shape[i] {
			return lessPoint(a.Shape[i].Point(), b.Shape[i].Point())
		}
	}
	if len(a.Shape) != len(b.Shape) {
		return len(a.Shape) < len(b.Shape)
	}
	return lessTags(a.Tags, b.Tags)
}

func lessTags(a, b osmdata.Tags) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i].Key != b[i].Key {
				return a[i].Key < b[i].Key
			}
			return a[i].Value < b[i].Value
		}
	}
	return len(a) < len(b)
}

// EdgePoints is the complete geometry of an edge, endpoints included.
func (s *Snapshot) EdgePoints(i int) []common.Point {
	edge := s.Edges[i]
	points := []common.Point{s.Vertices[edge.V1].Point()}
	for _, p := range edge.Shape {
		points = append(points, p.Point())
	}
	return append(points, s.Vertices[edge.V2].Point())
}

// FaceEdges lists the edges bounding each bounded face.
func (s *Snapshot) FaceEdges() map[int][]int {
	faces := make(map[int][]int)
	for i, edge := range s.Edges {
		if edge.FaceLeft > 0 {
			faces[edge.FaceLeft] = append(faces[edge.FaceLeft], i)
		}
		if edge.FaceRight > 0 && edge.FaceRight != edge.FaceLeft {
			faces[edge.FaceRight] = append(faces[edge.FaceRight], i)
		}
	}
	return faces
}

// Bounds is the bounding rectangle of all vertices and shape points.
func (s *Snapshot) Bounds() common.Rectangle {
	rect := common.EmptyRectangle
	for _, v := range s.Vertices {
		rect = rect.Extend(v.Point())
	}
	for _, edge := range s.Edges {
		for _, p := range edge.Shape {
			rect = rect.Extend(p.Point())
		}
	}
	return rect
}
