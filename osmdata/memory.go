package osmdata

import (
	"sort"

	"github.com/favyen/urbanpolygons/tiles"
	"github.com/favyen/urbanpolygons/tilesmap"
	"github.com/mitroadmaps/gomapinfer/common"
)

// MemoryProvider splits a set of nodes and ways into tiles. A way is served
// with every tile one of its nodes falls in, together with all of its nodes.
type MemoryProvider struct {
	zoom     int
	nodes    map[int64]common.Point
	ways     map[int64]Way
	wayTiles *tilesmap.Map
	tileWays map[tiles.ID][]int64
}

func NewMemoryProvider(zoom int) *MemoryProvider {
	return &MemoryProvider{
		zoom:     zoom,
		nodes:    make(map[int64]common.Point),
		ways:     make(map[int64]Way),
		wayTiles: tilesmap.New(),
		tileWays: make(map[tiles.ID][]int64),
	}
}

func (p *MemoryProvider) Zoom() int {
	return p.zoom
}

// AddNode stores a node location. Nodes without a location are ignored.
func (p *MemoryProvider) AddNode(node Node) {
	if !node.HasLocation() {
		return
	}
	p.nodes[node.ID] = node.Point()
}

// AddWay indexes a way by the tiles of its nodes. The nodes must be added
// first; unknown nodes do not contribute a tile. A way id is only indexed
// once.
func (p *MemoryProvider) AddWay(way Way) {
	if p.wayTiles.Has(way.ID) {
		return
	}
	seen := make(map[tiles.ID]bool)
	var wayTiles []tiles.ID
	for _, nodeID := range way.NodeIDs {
		point, ok := p.nodes[nodeID]
		if !ok {
			continue
		}
		tile := tiles.FromPoint(point, p.zoom)
		if seen[tile] {
			continue
		}
		seen[tile] = true
		wayTiles = append(wayTiles, tile)
	}
	if len(wayTiles) == 0 {
		return
	}
	p.ways[way.ID] = way
	p.wayTiles.Add(way.ID, wayTiles)
	for _, tile := range wayTiles {
		p.tileWays[tile] = append(p.tileWays[tile], way.ID)
	}
}

func (p *MemoryProvider) WayCount() int {
	return len(p.ways)
}

// WayTiles returns the tiles a way was indexed under.
func (p *MemoryProvider) WayTiles(id int64) []tiles.ID {
	return p.wayTiles.Get(id)
}

// Tiles lists all tiles holding at least one way.
func (p *MemoryProvider) Tiles() []tiles.ID {
	ids := make([]tiles.ID, 0, len(p.tileWays))
	for id := range p.tileWays {
		ids = append(ids, id)
	}
	tiles.Sort(ids)
	return ids
}

func (p *MemoryProvider) Tile(id tiles.ID) (*TileData, error) {
	data := &TileData{}
	wayIDs := append([]int64(nil), p.tileWays[id]...)
	sort.Slice(wayIDs, func(i, j int) bool {
		return wayIDs[i] < wayIDs[j]
	})
	nodeIDs := make(map[int64]bool)
	for _, wayID := range wayIDs {
		way := p.ways[wayID]
		data.Ways = append(data.Ways, way)
		for _, nodeID := range way.NodeIDs {
			if _, ok := p.nodes[nodeID]; ok {
				nodeIDs[nodeID] = true
			}
		}
	}
	for nodeID := range nodeIDs {
		point := p.nodes[nodeID]
		data.Nodes = append(data.Nodes, Node{ID: nodeID, Lon: point.X, Lat: point.Y})
	}
	sort.Slice(data.Nodes, func(i, j int) bool {
		return data.Nodes[i].ID < data.Nodes[j].ID
	})
	return data, nil
}
