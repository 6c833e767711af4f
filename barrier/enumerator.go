package barrier

import (
	"github.com/favyen/urbanpolygons/osmdata"
	"github.com/favyen/urbanpolygons/tiles"
	"github.com/mitroadmaps/gomapinfer/common"
)

// HalfEdge is one traversal direction of an edge.
type HalfEdge struct {
	graph *Graph
	ref   int
}

// HalfEdge returns the half-edge of e leaving vertex1 when forward is set,
// vertex2 otherwise.
func (g *Graph) HalfEdge(e int, forward bool) HalfEdge {
	ref := e << 1
	if !forward {
		ref |= 1
	}
	return HalfEdge{graph: g, ref: ref}
}

func (h HalfEdge) Graph() *Graph {
	return h.graph
}

func (h HalfEdge) Edge() int {
	return h.ref >> 1
}

// Forward is set when the traversal goes from the stored vertex1 to vertex2.
func (h HalfEdge) Forward() bool {
	return h.ref&1 == 0
}

// Reverse is the other direction of the same edge.
func (h HalfEdge) Reverse() HalfEdge {
	return HalfEdge{graph: h.graph, ref: h.ref ^ 1}
}

// Vertex1 is the vertex the half-edge leaves.
func (h HalfEdge) Vertex1() int {
	e := &h.graph.edges[h.ref>>1]
	if h.Forward() {
		return e.vertex1
	}
	return e.vertex2
}

// Vertex2 is the vertex the half-edge arrives at.
func (h HalfEdge) Vertex2() int {
	e := &h.graph.edges[h.ref>>1]
	if h.Forward() {
		return e.vertex2
	}
	return e.vertex1
}

// Shape is the stored shape of the edge, in vertex1 to vertex2 order of the
// edge regardless of the traversal direction.
func (h HalfEdge) Shape() []common.Point {
	return h.graph.edges[h.ref>>1].shape
}

func (h HalfEdge) Tags() osmdata.Tags {
	return h.graph.edges[h.ref>>1].tags
}

// FaceLeft is the face on the left in the traversal direction.
func (h HalfEdge) FaceLeft() int {
	e := &h.graph.edges[h.ref>>1]
	if h.Forward() {
		return e.faceLeft
	}
	return e.faceRight
}

// FaceRight is the face on the right in the traversal direction.
func (h HalfEdge) FaceRight() int {
	e := &h.graph.edges[h.ref>>1]
	if h.Forward() {
		return e.faceRight
	}
	return e.faceLeft
}

// CompleteShape is the geometry in traversal order with both endpoints.
func (h HalfEdge) CompleteShape() []common.Point {
	points := h.graph.points(h.ref >> 1)
	if !h.Forward() {
		for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
			points[i], points[j] = points[j], points[i]
		}
	}
	return points
}

// FirstNonVertex1 is the first point after the departure vertex.
func (h HalfEdge) FirstNonVertex1() common.Point {
	e := &h.graph.edges[h.ref>>1]
	if len(e.shape) == 0 {
		return h.graph.vertices[h.Vertex2()].location
	}
	if h.Forward() {
		return e.shape[0]
	}
	return e.shape[len(e.shape)-1]
}

// FirstNonVertex2 is the last point before the arrival vertex.
func (h HalfEdge) FirstNonVertex2() common.Point {
	e := &h.graph.edges[h.ref>>1]
	if len(e.shape) == 0 {
		return h.graph.vertices[h.Vertex1()].location
	}
	if h.Forward() {
		return e.shape[len(e.shape)-1]
	}
	return e.shape[0]
}

// Tiles lists the tiles the half-edge's geometry touches, in the order the
// geometry enters them.
func (h HalfEdge) Tiles() []tiles.ID {
	zoom := h.graph.zoom
	points := h.CompleteShape()
	seen := make(map[tiles.ID]bool)
	var ids []tiles.ID
	add := func(id tiles.ID) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	previous := tiles.FromPoint(points[0], zoom)
	add(previous)
	for i := 1; i < len(points); i++ {
		current := tiles.FromPoint(points[i], zoom)
		if current != previous {
			// a segment can clip the corner of a third tile
			rect := common.EmptyRectangle.Extend(points[i-1]).Extend(points[i])
			for _, id := range tiles.Cover(rect, zoom) {
				add(id)
			}
		}
		add(current)
		previous = current
	}
	return ids
}

// Enumerator walks the half-edges leaving a vertex.
//
//	en := g.GetEnumerator()
//	if en.MoveTo(v) {
//		for en.MoveNext() {
//			...
//		}
//	}
type Enumerator struct {
	HalfEdge
	vertex  int
	started bool
}

func (g *Graph) GetEnumerator() Enumerator {
	return Enumerator{HalfEdge: HalfEdge{graph: g, ref: noRef}, vertex: -1}
}

// MoveTo positions the enumerator before the first half-edge leaving v. It
// returns false when v has no edges.
func (en *Enumerator) MoveTo(v int) bool {
	if v < 0 || v >= len(en.graph.vertices) {
		return false
	}
	en.vertex = v
	en.ref = noRef
	en.started = false
	return en.graph.vertices[v].first != noRef
}

func (en *Enumerator) MoveNext() bool {
	if en.vertex < 0 {
		return false
	}
	if !en.started {
		en.started = true
		en.ref = en.graph.vertices[en.vertex].first
	} else if en.ref != noRef {
		en.ref = en.graph.nextRef(en.ref)
	}
	return en.ref != noRef
}

// FaceEnumerator walks the half-edges bounding a face, in boundary order.
// The outer boundary comes first, followed by the outside of every
// component lying in the face.
type FaceEnumerator struct {
	HalfEdge
	face int
	refs []int
	pos  int
}

func (g *Graph) GetFaceEnumerator() FaceEnumerator {
	return FaceEnumerator{HalfEdge: HalfEdge{graph: g, ref: noRef}, face: -1}
}

// MoveTo positions the enumerator before the first half-edge of the face.
// It returns false when the face has no half-edges.
func (en *FaceEnumerator) MoveTo(face int) bool {
	if face < 0 || face >= len(en.graph.faceEdges) {
		return false
	}
	en.face = face
	en.refs = en.graph.faceRefs(face)
	en.pos = -1
	en.ref = noRef
	return len(en.refs) > 0
}

func (en *FaceEnumerator) MoveNext() bool {
	if en.face < 0 {
		return false
	}
	refs := en.refs
	if en.pos+1 >= len(refs) {
		en.pos = len(refs)
		en.ref = noRef
		return false
	}
	en.pos++
	en.ref = refs[en.pos]
	return true
}
