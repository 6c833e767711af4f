package barrier

import (
	"log"

	"github.com/favyen/urbanpolygons/osmdata"
	"github.com/favyen/urbanpolygons/tiles"
	"github.com/mitroadmaps/gomapinfer/common"
)

// vertex node that has no vertex yet
const pendingVertex = -1

// AddNonPlanar adds the barrier ways of one tile's data to the graph without
// resolving crossings, and returns the new edges.
//
// A node becomes a vertex when it starts or ends a way, is shared between
// ways, is already a vertex, or lies in a tile that is not loaded. The last
// rule keeps ways split at the border of the loaded area so they can be
// joined up when the neighbouring tile arrives. Ways that are already in the
// graph are skipped.
func (g *Graph) AddNonPlanar(data *osmdata.TileData, barriers osmdata.BarrierPredicate) []int {
	// nodes used by barrier ways, and the ones among them that must be vertices
	wayNodes := make(map[int64]bool)
	vertexNodes := make(map[int64]int)
	for _, way := range data.Ways {
		if len(way.NodeIDs) == 0 || !barriers.IsBarrier(way.Tags) {
			continue
		}
		for i, nodeID := range way.NodeIDs {
			if v, ok := g.nodeVertices[nodeID]; ok {
				vertexNodes[nodeID] = v
			} else if i == 0 || i == len(way.NodeIDs)-1 || wayNodes[nodeID] {
				vertexNodes[nodeID] = pendingVertex
			}
			wayNodes[nodeID] = true
		}
	}

	locations := make(map[int64]common.Point)
	for _, node := range data.Nodes {
		if !wayNodes[node.ID] {
			continue
		}
		if _, ok := g.nodeVertices[node.ID]; ok {
			continue
		}
		if !node.HasLocation() {
			log.Printf("node %d has no location, skipping", node.ID)
			continue
		}
		p := node.Point()
		locations[node.ID] = p
		if _, ok := vertexNodes[node.ID]; !ok && g.HasTile(tiles.FromPoint(p, g.zoom)) {
			continue
		}
		vertexNodes[node.ID] = g.AddNodeVertex(p, node.ID)
	}

	var newEdges []int
	for _, way := range data.Ways {
		if len(way.NodeIDs) < 2 || !barriers.IsBarrier(way.Tags) || g.HasWay(way.ID) {
			continue
		}
		vertex1 := pendingVertex
		var shape []common.Point
		for _, nodeID := range way.NodeIDs {
			v, isVertex := vertexNodes[nodeID]
			if !isVertex {
				p, ok := locations[nodeID]
				if !ok {
					log.Printf("way %d references unknown node %d, skipping node", way.ID, nodeID)
					continue
				}
				shape = append(shape, p)
				continue
			}
			if v == pendingVertex {
				log.Printf("way %d references node %d without location, skipping node", way.ID, nodeID)
				continue
			}
			if vertex1 == pendingVertex {
				vertex1 = v
				shape = shape[:0]
				continue
			}
			if (vertex1 == v && len(shape) < 2) || g.hasEdge(vertex1, v, shape) {
				shape = shape[:0]
				vertex1 = v
				continue
			}
			newEdges = append(newEdges, g.AddWayEdge(vertex1, v, shape, way.Tags, way.ID))
			shape = shape[:0]
			vertex1 = v
		}
		g.ways[way.ID] = true
	}
	return newEdges
}

// hasEdge reports whether an edge with the same geometry already connects the
// two vertices, in either direction.
func (g *Graph) hasEdge(vertex1 int, vertex2 int, shape []common.Point) bool {
	en := g.GetEnumerator()
	if !en.MoveTo(vertex1) {
		return false
	}
	for en.MoveNext() {
		if en.Vertex2() != vertex2 {
			continue
		}
		complete := en.CompleteShape()
		other := complete[1 : len(complete)-1]
		if len(other) != len(shape) {
			continue
		}
		same := true
		for i := range shape {
			if other[i] != shape[i] {
				same = false
				break
			}
		}
		if same {
			return true
		}
	}
	return false
}
