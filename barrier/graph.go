// Package barrier builds a planar graph out of OSM barrier ways and traces
// its faces.
//
// Vertices, edges and faces live in slices and are addressed by index.
// Indices are never reused or renumbered: deleting an edge leaves a
// tombstone, so maps from OSM ids to indices stay valid for the lifetime of
// the graph.
//
// Every edge is stored once and can be traversed in two directions. A
// half-edge is referenced as edge<<1|dir where dir 0 leaves vertex1
// (forward) and dir 1 leaves vertex2.
package barrier

import (
	"github.com/favyen/urbanpolygons/landuse"
	"github.com/favyen/urbanpolygons/osmdata"
	"github.com/favyen/urbanpolygons/tiles"
	"github.com/mitroadmaps/gomapinfer/common"
)

// NoFace marks a side of an edge that has not been assigned a face.
const NoFace = -1

const noRef = -1

type vertex struct {
	location common.Point
	// first half-edge leaving this vertex, noRef if none
	first int
}

// segment is a straight piece of input geometry with its endpoints in
// ascending order.
type segment struct {
	a, b common.Point
}

func newSegment(a, b common.Point) segment {
	if less(b, a) {
		a, b = b, a
	}
	return segment{a: a, b: b}
}

type edge struct {
	vertex1, vertex2 int
	shape            []common.Point
	tags             osmdata.Tags
	bounds           common.Rectangle

	// sources[i] is the input segment that the i-th segment of the edge's
	// complete geometry lies on. Splitting an edge keeps them, so crossings
	// are always computed from the input segments.
	sources []segment

	// faces on the left and right hand side when going from vertex1 to
	// vertex2
	faceLeft, faceRight int

	// next half-edge in the adjacency list of vertex1 and vertex2
	next [2]int

	deleted bool
}

// Graph is a barrier graph for one zoom level. It is not safe for concurrent
// use.
type Graph struct {
	zoom int

	vertices []vertex
	edges    []edge
	numEdges int

	faces     []landuse.Attributes
	faceEdges [][]int
	// boundaries of other components lying inside each face
	holes [][][]int
	// walks around the outside of components, waiting to be matched to the
	// face enclosing them
	outside [][]int

	nodeVertices map[int64]int
	ways         map[int64]bool
	tiles        map[tiles.ID]bool
}

// New creates an empty graph that tracks tiles at the given zoom.
func New(zoom int) *Graph {
	g := &Graph{
		zoom:         zoom,
		nodeVertices: make(map[int64]int),
		ways:         make(map[int64]bool),
		tiles:        make(map[tiles.ID]bool),
	}
	g.ResetFaces()
	return g
}

func (g *Graph) Zoom() int {
	return g.zoom
}

func (g *Graph) SetTileLoaded(tile tiles.ID) {
	g.tiles[tile] = true
}

func (g *Graph) HasTile(tile tiles.ID) bool {
	return g.tiles[tile]
}

// LoadedTiles returns the loaded tiles in ascending order.
func (g *Graph) LoadedTiles() []tiles.ID {
	ids := make([]tiles.ID, 0, len(g.tiles))
	for id := range g.tiles {
		ids = append(ids, id)
	}
	tiles.Sort(ids)
	return ids
}

func (g *Graph) VertexCount() int {
	return len(g.vertices)
}

// AddVertex adds a vertex without an OSM identity, such as an intersection
// created while flattening.
func (g *Graph) AddVertex(location common.Point) int {
	g.vertices = append(g.vertices, vertex{location: location, first: noRef})
	return len(g.vertices) - 1
}

// AddNodeVertex adds the vertex for an OSM node, or returns the existing one.
func (g *Graph) AddNodeVertex(location common.Point, nodeID int64) int {
	if v, ok := g.nodeVertices[nodeID]; ok {
		return v
	}
	v := g.AddVertex(location)
	g.nodeVertices[nodeID] = v
	return v
}

// TryGetVertex returns the vertex for an OSM node.
func (g *Graph) TryGetVertex(nodeID int64) (int, bool) {
	v, ok := g.nodeVertices[nodeID]
	return v, ok
}

func (g *Graph) Vertex(v int) common.Point {
	return g.vertices[v].location
}

// VertexTile is the tile the vertex lies in at the graph's zoom.
func (g *Graph) VertexTile(v int) tiles.ID {
	return tiles.FromPoint(g.vertices[v].location, g.zoom)
}

// Degree counts the half-edges leaving a vertex. A loop counts twice.
func (g *Graph) Degree(v int) int {
	n := 0
	for ref := g.vertices[v].first; ref != noRef; ref = g.nextRef(ref) {
		n++
	}
	return n
}

func (g *Graph) HasWay(wayID int64) bool {
	return g.ways[wayID]
}

// EdgeCount is the size of the edge arena, deleted edges included.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// LiveEdgeCount is the number of edges that are not deleted.
func (g *Graph) LiveEdgeCount() int {
	return g.numEdges
}

func (g *Graph) Alive(e int) bool {
	return e >= 0 && e < len(g.edges) && !g.edges[e].deleted
}

// AddEdge adds an edge between two vertices. The shape holds the points in
// between, in order from vertex1 to vertex2, and is copied.
func (g *Graph) AddEdge(vertex1 int, vertex2 int, shape []common.Point, tags osmdata.Tags) int {
	return g.addEdge(vertex1, vertex2, shape, nil, tags)
}

// addEdge is AddEdge with known source segments; nil sources are taken from
// the edge's own geometry.
func (g *Graph) addEdge(vertex1 int, vertex2 int, shape []common.Point, sources []segment, tags osmdata.Tags) int {
	e := len(g.edges)
	g.edges = append(g.edges, edge{
		vertex1:   vertex1,
		vertex2:   vertex2,
		shape:     append([]common.Point(nil), shape...),
		tags:      tags,
		faceLeft:  NoFace,
		faceRight: NoFace,
	})
	if sources == nil {
		points := g.points(e)
		sources = make([]segment, len(points)-1)
		for i := range sources {
			sources[i] = newSegment(points[i], points[i+1])
		}
	} else {
		sources = append([]segment(nil), sources...)
	}
	g.edges[e].sources = sources
	g.edges[e].bounds = g.edgeBounds(e)
	g.link(e)
	g.numEdges++
	return e
}

// AddWayEdge adds an edge that came from an OSM way and marks the way as
// loaded.
func (g *Graph) AddWayEdge(vertex1 int, vertex2 int, shape []common.Point, tags osmdata.Tags, wayID int64) int {
	g.ways[wayID] = true
	return g.AddEdge(vertex1, vertex2, shape, tags)
}

// DeleteEdge removes an edge from both adjacency lists and leaves a
// tombstone in its slot.
func (g *Graph) DeleteEdge(e int) {
	if g.edges[e].deleted {
		return
	}
	g.unlink(e)
	g.edges[e].deleted = true
	g.edges[e].shape = nil
	g.edges[e].sources = nil
	g.numEdges--
}

func (g *Graph) nextRef(ref int) int {
	return g.edges[ref>>1].next[ref&1]
}

func (g *Graph) link(e int) {
	ed := &g.edges[e]
	ed.next[0] = g.vertices[ed.vertex1].first
	g.vertices[ed.vertex1].first = e << 1
	ed.next[1] = g.vertices[ed.vertex2].first
	g.vertices[ed.vertex2].first = e<<1 | 1
}

func (g *Graph) unlink(e int) {
	g.unlinkRef(g.edges[e].vertex1, e<<1)
	g.unlinkRef(g.edges[e].vertex2, e<<1|1)
}

func (g *Graph) unlinkRef(v int, ref int) {
	prev := noRef
	for cur := g.vertices[v].first; cur != noRef; cur = g.nextRef(cur) {
		if cur != ref {
			prev = cur
			continue
		}
		if prev == noRef {
			g.vertices[v].first = g.nextRef(cur)
		} else {
			g.edges[prev>>1].next[prev&1] = g.nextRef(cur)
		}
		return
	}
}

// reverse swaps the direction an edge is stored in.
func (g *Graph) reverse(e int) {
	g.unlink(e)
	ed := &g.edges[e]
	ed.vertex1, ed.vertex2 = ed.vertex2, ed.vertex1
	for i, j := 0, len(ed.shape)-1; i < j; i, j = i+1, j-1 {
		ed.shape[i], ed.shape[j] = ed.shape[j], ed.shape[i]
	}
	for i, j := 0, len(ed.sources)-1; i < j; i, j = i+1, j-1 {
		ed.sources[i], ed.sources[j] = ed.sources[j], ed.sources[i]
	}
	ed.faceLeft, ed.faceRight = ed.faceRight, ed.faceLeft
	g.link(e)
}

// points returns the full stored geometry of an edge, endpoints included.
func (g *Graph) points(e int) []common.Point {
	ed := &g.edges[e]
	points := make([]common.Point, 0, len(ed.shape)+2)
	points = append(points, g.vertices[ed.vertex1].location)
	points = append(points, ed.shape...)
	return append(points, g.vertices[ed.vertex2].location)
}

func (g *Graph) edgeBounds(e int) common.Rectangle {
	rect := common.EmptyRectangle
	for _, p := range g.points(e) {
		rect = rect.Extend(p)
	}
	return rect
}

// Tags returns the tags of an edge.
func (g *Graph) Tags(e int) osmdata.Tags {
	return g.edges[e].tags
}

// Endpoints returns vertex1 and vertex2 of an edge.
func (g *Graph) Endpoints(e int) (int, int) {
	return g.edges[e].vertex1, g.edges[e].vertex2
}

// Shape returns the interior points of an edge from vertex1 to vertex2. The
// slice must not be modified.
func (g *Graph) Shape(e int) []common.Point {
	return g.edges[e].shape
}

// Faces returns the faces on the left and right of an edge, seen from
// vertex1 towards vertex2.
func (g *Graph) Faces(e int) (left int, right int) {
	return g.edges[e].faceLeft, g.edges[e].faceRight
}

// ResetFaces drops all faces and recreates the unbounded face 0.
func (g *Graph) ResetFaces() {
	g.faces = []landuse.Attributes{nil}
	g.faceEdges = [][]int{nil}
	g.holes = [][][]int{nil}
	g.outside = nil
	for e := range g.edges {
		g.edges[e].faceLeft = NoFace
		g.edges[e].faceRight = NoFace
	}
}

// AddFace adds a face without attributes.
func (g *Graph) AddFace() int {
	g.faces = append(g.faces, nil)
	g.faceEdges = append(g.faceEdges, nil)
	g.holes = append(g.holes, nil)
	return len(g.faces) - 1
}

func (g *Graph) FaceCount() int {
	return len(g.faces)
}

// SetFace assigns a face to the left or right side of an edge, sides taken
// from vertex1 towards vertex2. The face's boundary is traversed clockwise,
// so the half-edge recorded for the face is the one leaving vertex2 for the
// left side and the one leaving vertex1 for the right side.
func (g *Graph) SetFace(e int, left bool, face int) {
	g.setSide(e, left, face)
	if left {
		g.faceEdges[face] = append(g.faceEdges[face], e<<1|1)
	} else {
		g.faceEdges[face] = append(g.faceEdges[face], e<<1)
	}
}

func (g *Graph) setSide(e int, left bool, face int) {
	if left {
		g.edges[e].faceLeft = face
	} else {
		g.edges[e].faceRight = face
	}
}

// faceRefs lists the half-edges bounding a face: the outer boundary first,
// then the boundaries of the components inside it.
func (g *Graph) faceRefs(face int) []int {
	refs := g.faceEdges[face]
	if len(g.holes[face]) == 0 {
		return refs
	}
	refs = append([]int(nil), refs...)
	for _, hole := range g.holes[face] {
		refs = append(refs, hole...)
	}
	return refs
}

func (g *Graph) FaceData(face int) landuse.Attributes {
	return g.faces[face]
}

func (g *Graph) SetFaceData(face int, data landuse.Attributes) {
	g.faces[face] = data
}
