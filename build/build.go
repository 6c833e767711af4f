// Package build grows a barrier graph around a tile until every face touching
// the tile is closed, and writes the result.
package build

import (
	"log"

	"github.com/favyen/urbanpolygons/barrier"
	"github.com/favyen/urbanpolygons/landuse"
	"github.com/favyen/urbanpolygons/osmdata"
	"github.com/favyen/urbanpolygons/store"
	"github.com/favyen/urbanpolygons/tiles"
	"github.com/pkg/errors"
)

// Verbose enables a log line per growth iteration.
var Verbose bool

var (
	// ErrNoProgress is returned when face tracing asks only for tiles that
	// are already loaded.
	ErrNoProgress = errors.New("face tracing made no progress")
	// ErrTooManyTiles is returned when a tile needs more than MaxTiles tiles.
	ErrTooManyTiles = errors.New("too many tiles loaded")
)

type Builder struct {
	Provider osmdata.Provider
	Barriers osmdata.BarrierPredicate
	// optional; faces get no land use without it
	Landuse landuse.Source
	// artifact directory
	Dir  string
	Zoom int
	// upper bound on the tiles loaded for one target tile, 0 for none
	MaxTiles int
}

type Stats struct {
	Tile       tiles.ID
	Skipped    bool
	Tiles      int
	Iterations int
	Edges      int
	Faces      int
}

// AddTiles loads tiles into the graph and makes it planar again. All tiles
// are marked loaded before their data is added so ways spanning several of
// them are not split at their borders.
func (b *Builder) AddTiles(g *barrier.Graph, ids []tiles.ID) error {
	return b.addTiles(g, ids, nil)
}

// addTiles is AddTiles for a graph that already holds newEdges that were
// not made planar yet.
func (b *Builder) addTiles(g *barrier.Graph, ids []tiles.ID, newEdges []int) error {
	newEdges = append([]int{}, newEdges...)
	var pending []tiles.ID
	for _, id := range ids {
		if !g.HasTile(id) {
			g.SetTileLoaded(id)
			pending = append(pending, id)
		}
	}
	for _, id := range pending {
		data, err := b.Provider.Tile(id)
		if err != nil {
			return errors.Wrapf(err, "load tile %v", id)
		}
		newEdges = append(newEdges, g.AddNonPlanar(data, b.Barriers)...)
	}
	g.Flatten(newEdges)
	g.PruneDeadEnds()
	g.PruneShapePoints(barrier.ShapeTolerance)
	g.StandardizeEdges()
	return nil
}

// LoadForTile loads the tile and the tiles its edges lead into. The graph is
// only made planar and pruned once all of them are in, so ways from the
// neighbours can still cross barriers that end inside the tile.
func (b *Builder) LoadForTile(g *barrier.Graph, tile tiles.ID) error {
	var newEdges []int
	if !g.HasTile(tile) {
		g.SetTileLoaded(tile)
		data, err := b.Provider.Tile(tile)
		if err != nil {
			return errors.Wrapf(err, "load tile %v", tile)
		}
		newEdges = g.AddNonPlanar(data, b.Barriers)
	}

	seen := make(map[tiles.ID]bool)
	var neighbours []tiles.ID
	en := g.GetEnumerator()
	for v := 0; v < g.VertexCount(); v++ {
		if g.VertexTile(v) != tile || !en.MoveTo(v) {
			continue
		}
		for en.MoveNext() {
			for _, id := range en.Tiles() {
				if !seen[id] && !g.HasTile(id) {
					seen[id] = true
					neighbours = append(neighbours, id)
				}
			}
		}
	}
	tiles.Sort(neighbours)
	return b.addTiles(g, neighbours, newEdges)
}

// BuildTile builds and writes the artifact for one tile. Tiles that already
// have an artifact are skipped.
func (b *Builder) BuildTile(tile tiles.ID) (Stats, error) {
	stats := Stats{Tile: tile}
	if store.Exists(b.Dir, tile) {
		stats.Skipped = true
		return stats, nil
	}

	g := barrier.New(b.Zoom)
	if err := b.LoadForTile(g, tile); err != nil {
		return stats, err
	}
	for {
		stats.Iterations++
		result := g.AssignFaces(tile)
		if result.Complete() {
			break
		}
		var missing []tiles.ID
		for _, id := range result.MissingTiles {
			if !g.HasTile(id) {
				missing = append(missing, id)
			}
		}
		if len(missing) == 0 {
			return stats, errors.Wrapf(ErrNoProgress, "tile %v", tile)
		}
		if b.MaxTiles > 0 && len(g.LoadedTiles())+len(missing) > b.MaxTiles {
			return stats, errors.Wrapf(ErrTooManyTiles, "tile %v needs more than %d", tile, b.MaxTiles)
		}
		if Verbose {
			log.Printf("tile %v: iteration %d loading %d more tiles", tile, stats.Iterations, len(missing))
		}
		if err := b.AddTiles(g, missing); err != nil {
			return stats, err
		}
	}

	if b.Landuse != nil {
		if err := g.AssignLanduse(tile, b.Landuse); err != nil {
			return stats, errors.Wrapf(err, "tile %v", tile)
		}
	}
	snap := store.FromGraph(g, tile)
	if err := store.Write(b.Dir, snap); err != nil {
		return stats, err
	}
	stats.Tiles = len(snap.Tiles)
	stats.Edges = len(snap.Edges)
	stats.Faces = len(snap.Faces) - 1
	return stats, nil
}
