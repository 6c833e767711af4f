package landuse

import (
	"log"
	"sync"

	"github.com/favyen/urbanpolygons/osmdata"
	"github.com/favyen/urbanpolygons/tiles"
	"github.com/mitroadmaps/gomapinfer/common"
	"github.com/pkg/errors"
)

// TileSource builds land-use polygons from the closed ways of OSM tiles.
// Polygons are built once per tile and kept; it is safe for concurrent use.
type TileSource struct {
	provider osmdata.Provider
	zoom     int
	classify func(osmdata.Tags) (string, bool)

	mu    sync.Mutex
	tiles map[tiles.ID][]wayCandidate
}

type wayCandidate struct {
	wayID  int64
	bounds common.Rectangle
	Candidate
}

// NewTileSource serves land use from the provider's tiles at the given zoom,
// classified with Classify.
func NewTileSource(provider osmdata.Provider, zoom int) *TileSource {
	return &TileSource{
		provider: provider,
		zoom:     zoom,
		classify: Classify,
		tiles:    make(map[tiles.ID][]wayCandidate),
	}
}

func (s *TileSource) load(tile tiles.ID) ([]wayCandidate, error) {
	s.mu.Lock()
	candidates, ok := s.tiles[tile]
	s.mu.Unlock()
	if ok {
		return candidates, nil
	}

	data, err := s.provider.Tile(tile)
	if err != nil {
		return nil, errors.Wrapf(err, "load land use for tile %v", tile)
	}
	locations := make(map[int64]common.Point, len(data.Nodes))
	for _, node := range data.Nodes {
		if node.HasLocation() {
			locations[node.ID] = node.Point()
		}
	}
	for _, way := range data.Ways {
		if !way.Closed() {
			continue
		}
		category, ok := s.classify(way.Tags)
		if !ok {
			continue
		}
		ring := make([]common.Point, 0, len(way.NodeIDs))
		for _, nodeID := range way.NodeIDs {
			p, ok := locations[nodeID]
			if !ok {
				ring = nil
				break
			}
			ring = append(ring, p)
		}
		if len(ring) < 4 {
			log.Printf("land use way %d has unresolved nodes, skipping", way.ID)
			continue
		}
		polygon := NewPolygon(ring)
		if err := polygon.Validate(); err != nil {
			log.Printf("land use way %d is not a valid polygon, skipping: %v", way.ID, err)
			continue
		}
		candidates = append(candidates, wayCandidate{
			wayID:     way.ID,
			bounds:    Bounds(polygon),
			Candidate: Candidate{Polygon: polygon, Category: category},
		})
	}

	s.mu.Lock()
	s.tiles[tile] = candidates
	s.mu.Unlock()
	return candidates, nil
}

// Candidates returns land use from every tile the box covers. A way found
// in several tiles is returned once.
func (s *TileSource) Candidates(box common.Rectangle) ([]Candidate, error) {
	seen := make(map[int64]bool)
	var out []Candidate
	for _, tile := range tiles.Cover(box, s.zoom) {
		candidates, err := s.load(tile)
		if err != nil {
			return nil, err
		}
		for _, c := range candidates {
			if seen[c.wayID] || !c.bounds.Intersects(box) {
				continue
			}
			seen[c.wayID] = true
			out = append(out, c.Candidate)
		}
	}
	return out, nil
}
