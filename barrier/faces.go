package barrier

import (
	"log"

	"github.com/favyen/urbanpolygons/tiles"
	"github.com/mitroadmaps/gomapinfer/common"
)

// FaceResult is the outcome of AssignFaces. MissingTiles is empty when all
// faces touching the target tile were closed, and otherwise lists the tiles
// that have to be loaded before the next attempt.
type FaceResult struct {
	MissingTiles []tiles.ID
}

func (r FaceResult) Complete() bool {
	return len(r.MissingTiles) == 0
}

// turns lists the half-edges leaving h's arrival vertex, except the way
// back, with their counter-clockwise angle from the arrival direction.
func (g *Graph) turns(h HalfEdge) (candidates []HalfEdge, angles []float64) {
	v := h.Vertex2()
	origin := g.vertices[v].location
	back := direction(origin, h.FirstNonVertex2())
	twin := h.Reverse().ref

	en := g.GetEnumerator()
	en.MoveTo(v)
	for en.MoveNext() {
		if en.ref == twin {
			continue
		}
		candidates = append(candidates, en.HalfEdge)
		angles = append(angles, counterClockwise(back, direction(origin, en.FirstNonVertex1())))
	}
	return candidates, angles
}

// NextRight returns the half-edge to follow after h to keep the face on the
// right: the tightest right turn at h's arrival vertex. At a dead end the
// walk turns around onto the reverse of h. Ties keep adjacency order.
func (g *Graph) NextRight(h HalfEdge) HalfEdge {
	candidates, angles := g.turns(h)
	if len(candidates) == 0 {
		return h.Reverse()
	}
	best := 0
	for i := 1; i < len(candidates); i++ {
		if angles[i] < angles[best] {
			best = i
		}
	}
	return candidates[best]
}

// NextLeft is the tightest left turn at h's arrival vertex.
func (g *Graph) NextLeft(h HalfEdge) HalfEdge {
	candidates, angles := g.turns(h)
	if len(candidates) == 0 {
		return h.Reverse()
	}
	best := 0
	for i := 1; i < len(candidates); i++ {
		if angles[i] > angles[best] {
			best = i
		}
	}
	return candidates[best]
}

// missingTiles adds the tiles the half-edge needs that are not loaded.
func (g *Graph) missingTiles(h HalfEdge, missing map[tiles.ID]bool) {
	if tile := g.VertexTile(h.Vertex2()); !g.tiles[tile] {
		missing[tile] = true
	}
	for _, tile := range h.Tiles() {
		if !g.tiles[tile] {
			missing[tile] = true
		}
	}
}

func (g *Graph) touches(e int, tile tiles.ID) bool {
	if !overlaps(g.edges[e].bounds, tile.Box()) {
		return false
	}
	for _, id := range g.HalfEdge(e, true).Tiles() {
		if id == tile {
			return true
		}
	}
	return false
}

// EdgesInTile lists the live edges whose geometry touches the tile.
func (g *Graph) EdgesInTile(tile tiles.ID) []int {
	var edges []int
	for e := range g.edges {
		if !g.edges[e].deleted && g.touches(e, tile) {
			edges = append(edges, e)
		}
	}
	return edges
}

// AssignFaces traces every face that touches the tile.
//
// Faces are walked with the face on the right of each half-edge. Bounded
// faces come out clockwise; a walk that goes around counter-clockwise is the
// outside of a connected component and belongs to face 0. When a walk needs
// a tile that is not loaded the whole attempt is undone and the missing
// tiles are returned.
func (g *Graph) AssignFaces(tile tiles.ID) FaceResult {
	g.ResetFaces()
	for _, e := range g.EdgesInTile(tile) {
		for _, forward := range []bool{true, false} {
			h := g.HalfEdge(e, forward)
			if h.FaceRight() != NoFace {
				continue
			}
			missing := g.traceFace(h)
			if len(missing) == 0 {
				continue
			}
			g.ResetFaces()
			result := FaceResult{}
			for id := range missing {
				result.MissingTiles = append(result.MissingTiles, id)
			}
			tiles.Sort(result.MissingTiles)
			return result
		}
	}
	g.attachHoles()
	return FaceResult{}
}

// traceFace walks the face on the right of start and assigns it. It returns
// the tiles that were missing along the way, in which case nothing is
// assigned.
func (g *Graph) traceFace(start HalfEdge) map[tiles.ID]bool {
	missing := make(map[tiles.ID]bool)
	visited := map[int]bool{start.ref: true}
	walk := []HalfEdge{start}
	closed := false
	for h := start; ; {
		g.missingTiles(h, missing)
		h = g.NextRight(h)
		if h.ref == start.ref {
			closed = true
			break
		}
		if visited[h.ref] || h.FaceRight() != NoFace {
			break
		}
		visited[h.ref] = true
		walk = append(walk, h)
	}
	if len(missing) > 0 {
		return missing
	}

	face := 0
	if closed {
		if signedArea(walkRing(walk)) < 0 {
			face = g.AddFace()
		} else {
			refs := make([]int, len(walk))
			for i, h := range walk {
				refs[i] = h.ref
			}
			g.outside = append(g.outside, refs)
		}
	} else {
		// only overlapping edges make the walk run into itself
		v := start.Vertex1()
		log.Printf("face walk from vertex %d at %v did not close, assigning to outer face", v, g.vertices[v].location)
	}
	for _, h := range walk {
		g.SetFace(h.Edge(), !h.Forward(), face)
	}
	return nil
}

func walkRing(walk []HalfEdge) []common.Point {
	var ring []common.Point
	for _, h := range walk {
		points := h.CompleteShape()
		ring = append(ring, points[:len(points)-1]...)
	}
	if len(ring) == 0 {
		return nil
	}
	// start at the lowest point so the ring does not depend on where the
	// walk began
	first := 0
	for i, p := range ring {
		if less(p, ring[first]) {
			first = i
		}
	}
	rotated := make([]common.Point, 0, len(ring)+1)
	rotated = append(rotated, ring[first:]...)
	rotated = append(rotated, ring[:first]...)
	return append(rotated, rotated[0])
}

func (g *Graph) refsRing(refs []int) []common.Point {
	walk := make([]HalfEdge, len(refs))
	for i, ref := range refs {
		walk[i] = HalfEdge{graph: g, ref: ref}
	}
	return walkRing(walk)
}

// FaceCoordinates returns the closed outer boundary ring of a bounded face,
// in clockwise order, starting at its lowest point. The unbounded face 0
// has no ring.
func (g *Graph) FaceCoordinates(face int) []common.Point {
	if face <= 0 || face >= len(g.faceEdges) {
		return nil
	}
	return g.refsRing(g.faceEdges[face])
}

// FaceHoles returns the closed rings of the components lying inside a
// bounded face, each counter-clockwise.
func (g *Graph) FaceHoles(face int) [][]common.Point {
	if face <= 0 || face >= len(g.holes) {
		return nil
	}
	var rings [][]common.Point
	for _, hole := range g.holes[face] {
		rings = append(rings, g.refsRing(hole))
	}
	return rings
}

// attachHoles moves the outside walk of every component that lies inside a
// traced bounded face of another component from face 0 to that face. The
// innermost such face wins.
func (g *Graph) attachHoles() {
	if len(g.outside) == 0 || len(g.faces) == 1 {
		return
	}
	component := g.components()
	rings := make([][]common.Point, len(g.faceEdges))
	areas := make([]float64, len(g.faceEdges))
	bounds := make([]common.Rectangle, len(g.faceEdges))
	faceComponent := make([]int, len(g.faceEdges))
	for face := 1; face < len(g.faceEdges); face++ {
		rings[face] = g.FaceCoordinates(face)
		areas[face] = -signedArea(rings[face])
		bounds[face] = common.EmptyRectangle
		for _, p := range rings[face] {
			bounds[face] = bounds[face].Extend(p)
		}
		faceComponent[face] = component[HalfEdge{graph: g, ref: g.faceEdges[face][0]}.Vertex1()]
	}

	moved := make(map[int]bool)
	for _, refs := range g.outside {
		v := HalfEdge{graph: g, ref: refs[0]}.Vertex1()
		p := g.vertices[v].location
		best := 0
		for face := 1; face < len(rings); face++ {
			if faceComponent[face] == component[v] || (best != 0 && areas[face] >= areas[best]) {
				continue
			}
			if !overlaps(bounds[face], common.Rectangle{Min: p, Max: p}) || !insideRing(p, rings[face]) {
				continue
			}
			best = face
		}
		if best == 0 {
			continue
		}
		for _, ref := range refs {
			h := HalfEdge{graph: g, ref: ref}
			g.setSide(h.Edge(), !h.Forward(), best)
			moved[ref] = true
		}
		g.holes[best] = append(g.holes[best], refs)
	}
	if len(moved) == 0 {
		return
	}
	var outer []int
	for _, ref := range g.faceEdges[0] {
		if !moved[ref] {
			outer = append(outer, ref)
		}
	}
	g.faceEdges[0] = outer
}

// components labels every vertex with the lowest vertex of its connected
// component.
func (g *Graph) components() []int {
	parent := make([]int, len(g.vertices))
	for v := range parent {
		parent[v] = v
	}
	find := func(v int) int {
		for parent[v] != v {
			parent[v] = parent[parent[v]]
			v = parent[v]
		}
		return v
	}
	for e := range g.edges {
		if g.edges[e].deleted {
			continue
		}
		a, b := find(g.edges[e].vertex1), find(g.edges[e].vertex2)
		if a < b {
			parent[b] = a
		} else if b < a {
			parent[a] = b
		}
	}
	for v := range parent {
		parent[v] = find(v)
	}
	return parent
}

// FacesInTile lists the bounded faces whose boundary touches the tile.
func (g *Graph) FacesInTile(tile tiles.ID) []int {
	var faces []int
	box := tile.Box()
	for face := 1; face < len(g.faceEdges); face++ {
		for _, ref := range g.faceRefs(face) {
			e := ref >> 1
			if overlaps(g.edges[e].bounds, box) && g.touches(e, tile) {
				faces = append(faces, face)
				break
			}
		}
	}
	return faces
}
