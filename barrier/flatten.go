package barrier

import (
	"github.com/mitroadmaps/gomapinfer/common"
)

type crossing struct {
	point common.Point
	// index of the crossing segment in each edge's complete geometry
	segment1, segment2 int
}

// Flatten splits edges at every proper crossing until the graph is planar.
// Only crossings involving the given edges, or edges created while
// splitting them, are searched; nil means every live edge.
//
// Each crossing adds one vertex and replaces the two crossing edges with
// four. Edges that only touch or overlap are left alone.
func (g *Graph) Flatten(edges []int) {
	var queue []int
	if edges == nil {
		for e := range g.edges {
			if !g.edges[e].deleted {
				queue = append(queue, e)
			}
		}
	} else {
		queue = append(queue, edges...)
	}

	for len(queue) > 0 {
		e1 := queue[0]
		queue = queue[1:]
		if !g.Alive(e1) {
			continue
		}
		for e2 := range g.edges {
			if e2 == e1 || g.edges[e2].deleted {
				continue
			}
			if !overlaps(g.edges[e1].bounds, g.edges[e2].bounds) {
				continue
			}
			c, ok := g.findCrossing(e1, e2)
			if !ok {
				continue
			}
			queue = append(queue, g.split(e1, e2, c)...)
			break
		}
	}
}

func (g *Graph) findCrossing(e1 int, e2 int) (crossing, bool) {
	points1 := g.points(e1)
	points2 := g.points(e2)
	for i := 0; i+1 < len(points1); i++ {
		seg1 := common.Rectangle{Min: points1[i], Max: points1[i]}.Extend(points1[i+1])
		for j := 0; j+1 < len(points2); j++ {
			seg2 := common.Rectangle{Min: points2[j], Max: points2[j]}.Extend(points2[j+1])
			if !overlaps(seg1, seg2) {
				continue
			}
			if !crosses(points1[i], points1[i+1], points2[j], points2[j+1]) {
				continue
			}
			p := intersection(g.edges[e1].sources[i], g.edges[e2].sources[j])
			return crossing{point: p, segment1: i, segment2: j}, true
		}
	}
	return crossing{}, false
}

// split replaces two crossing edges by the four edges that meet at a new
// vertex on the crossing, and returns the new edges. The halves keep the
// source segments of the pieces they were cut from.
func (g *Graph) split(e1 int, e2 int, c crossing) []int {
	v := g.AddVertex(c.point)
	edge1 := g.edges[e1]
	edge2 := g.edges[e2]
	g.DeleteEdge(e1)
	g.DeleteEdge(e2)
	return []int{
		g.addEdge(edge1.vertex1, v, edge1.shape[:c.segment1], edge1.sources[:c.segment1+1], edge1.tags),
		g.addEdge(v, edge1.vertex2, edge1.shape[c.segment1:], edge1.sources[c.segment1:], edge1.tags),
		g.addEdge(edge2.vertex1, v, edge2.shape[:c.segment2], edge2.sources[:c.segment2+1], edge2.tags),
		g.addEdge(v, edge2.vertex2, edge2.shape[c.segment2:], edge2.sources[c.segment2:], edge2.tags),
	}
}
