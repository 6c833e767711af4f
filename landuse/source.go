package landuse

import (
	"sort"

	"github.com/mitroadmaps/gomapinfer/common"
	"github.com/peterstace/simplefeatures/geom"
	"github.com/peterstace/simplefeatures/rtree"
)

// Candidate is a land-use polygon with its category.
type Candidate struct {
	Polygon  geom.Polygon
	Category string
}

// Source returns the land-use candidates overlapping a box.
type Source interface {
	Candidates(box common.Rectangle) ([]Candidate, error)
}

// NewPolygon builds a polygon from an exterior ring and optional holes.
// Rings are closed if needed. The result is not validated.
func NewPolygon(ring []common.Point, holes ...[]common.Point) geom.Polygon {
	rings := []geom.LineString{newRing(ring)}
	for _, hole := range holes {
		rings = append(rings, newRing(hole))
	}
	return geom.NewPolygon(rings)
}

func newRing(ring []common.Point) geom.LineString {
	coords := make([]float64, 0, 2*len(ring)+2)
	for _, p := range ring {
		coords = append(coords, p.X, p.Y)
	}
	if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
		coords = append(coords, ring[0].X, ring[0].Y)
	}
	return geom.NewLineString(geom.NewSequence(coords, geom.DimXY))
}

// Bounds is the bounding rectangle of a polygon's exterior ring.
func Bounds(p geom.Polygon) common.Rectangle {
	rect := common.EmptyRectangle
	seq := p.ExteriorRing().Coordinates()
	for i := 0; i < seq.Length(); i++ {
		xy := seq.GetXY(i)
		rect = rect.Extend(common.Point{X: xy.X, Y: xy.Y})
	}
	return rect
}

func toBox(rect common.Rectangle) rtree.Box {
	return rtree.Box{MinX: rect.Min.X, MinY: rect.Min.Y, MaxX: rect.Max.X, MaxY: rect.Max.Y}
}

// Index is an in-memory Source over a fixed set of candidates.
type Index struct {
	candidates []Candidate
	tree       *rtree.RTree
}

func NewIndex(candidates []Candidate) *Index {
	items := make([]rtree.BulkItem, len(candidates))
	for i, c := range candidates {
		items[i] = rtree.BulkItem{Box: toBox(Bounds(c.Polygon)), RecordID: i}
	}
	return &Index{
		candidates: candidates,
		tree:       rtree.BulkLoad(items),
	}
}

func (idx *Index) Len() int {
	return len(idx.candidates)
}

// Candidates returns the candidates whose bounds overlap the box, in the
// order they were given to NewIndex.
func (idx *Index) Candidates(box common.Rectangle) ([]Candidate, error) {
	var ids []int
	err := idx.tree.RangeSearch(toBox(box), func(recordID int) error {
		ids = append(ids, recordID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Ints(ids)
	out := make([]Candidate, len(ids))
	for i, id := range ids {
		out[i] = idx.candidates[id]
	}
	return out, nil
}
