package barrier

import (
	"github.com/mitroadmaps/gomapinfer/common"
)

// ShapeTolerance is the distance in degrees under which a shape point is
// considered to lie on the line through its neighbours, about a centimetre.
const ShapeTolerance = 1e-7

// PruneDeadEnds repeatedly removes edges that end in a vertex of degree one
// and returns the number of edges removed. Vertices in tiles that are not
// loaded are kept since their other edges may not be known yet.
func (g *Graph) PruneDeadEnds() int {
	var queue []int
	for v := range g.vertices {
		queue = append(queue, v)
	}
	removed := 0
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		ref := g.vertices[v].first
		if ref == noRef || g.nextRef(ref) != noRef {
			continue
		}
		if !g.tiles[g.VertexTile(v)] {
			continue
		}
		other := HalfEdge{graph: g, ref: ref}.Vertex2()
		g.DeleteEdge(ref >> 1)
		removed++
		queue = append(queue, other)
	}
	return removed
}

// PruneShapePoints removes shape points that lie within tolerance of the
// line between the previous kept point and the next point, and returns the
// number of points removed. A segment that replaces removed points becomes
// its own source segment.
func (g *Graph) PruneShapePoints(tolerance float64) int {
	removed := 0
	for e := range g.edges {
		ed := &g.edges[e]
		if ed.deleted || len(ed.shape) == 0 {
			continue
		}
		points := g.points(e)
		// indices into points of the points that stay
		kept := []int{0}
		for i := 1; i+1 < len(points); i++ {
			previous := points[kept[len(kept)-1]]
			next := points[i+1]
			segment := common.Segment{Start: previous, End: next}
			if previous != next && segment.Distance(points[i]) < tolerance {
				continue
			}
			kept = append(kept, i)
		}
		kept = append(kept, len(points)-1)
		if len(kept) == len(points) || (ed.vertex1 == ed.vertex2 && len(kept) < 4) {
			continue
		}

		shape := make([]common.Point, 0, len(kept)-2)
		sources := make([]segment, 0, len(kept)-1)
		for k := 0; k+1 < len(kept); k++ {
			if k > 0 {
				shape = append(shape, points[kept[k]])
			}
			if kept[k+1] == kept[k]+1 {
				sources = append(sources, ed.sources[kept[k]])
			} else {
				sources = append(sources, newSegment(points[kept[k]], points[kept[k+1]]))
			}
		}
		removed += len(ed.shape) - len(shape)
		ed.shape = shape
		ed.sources = sources
		ed.bounds = g.edgeBounds(e)
	}
	return removed
}

// StandardizeEdges stores every edge with its lowest endpoint first,
// comparing locations by longitude and then latitude. Loops are ordered by
// their first and last shape point.
func (g *Graph) StandardizeEdges() {
	for e := range g.edges {
		ed := &g.edges[e]
		if ed.deleted {
			continue
		}
		a := g.vertices[ed.vertex1].location
		b := g.vertices[ed.vertex2].location
		if ed.vertex1 == ed.vertex2 && len(ed.shape) > 0 {
			a = ed.shape[0]
			b = ed.shape[len(ed.shape)-1]
		}
		if less(b, a) {
			g.reverse(e)
		}
	}
}
