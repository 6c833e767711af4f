package barrier

import (
	"log"

	"github.com/favyen/urbanpolygons/landuse"
	"github.com/favyen/urbanpolygons/tiles"
	"github.com/mitroadmaps/gomapinfer/common"
	"github.com/peterstace/simplefeatures/geom"
	"github.com/pkg/errors"
)

// AssignLanduse computes land-use attributes for the bounded faces that touch
// the tile. A candidate containing the face counts fully; otherwise the
// fraction is the intersection area over the face area. Components inside a
// face are holes in it. Invalid candidates and candidates whose
// intersection fails or is not a single polygon are skipped.
func (g *Graph) AssignLanduse(tile tiles.ID, source landuse.Source) error {
	for _, face := range g.FacesInTile(tile) {
		ring := g.FaceCoordinates(face)
		if len(ring) < 4 {
			continue
		}
		polygon := landuse.NewPolygon(ring, g.FaceHoles(face)...)
		if err := polygon.Validate(); err != nil {
			log.Printf("face %d is not a valid polygon, skipping land use: %v", face, err)
			continue
		}
		area := polygon.Area()
		if area <= 0 {
			continue
		}
		bounds := common.EmptyRectangle
		for _, p := range ring {
			bounds = bounds.Extend(p)
		}
		candidates, err := source.Candidates(bounds)
		if err != nil {
			return errors.Wrapf(err, "land use for face %d", face)
		}
		var attributes landuse.Attributes
		for _, c := range candidates {
			fraction, ok := coverage(polygon, area, c.Polygon)
			if !ok || fraction <= 0 {
				continue
			}
			attributes = attributes.Set(c.Category, fraction)
		}
		g.SetFaceData(face, attributes)
	}
	return nil
}

func coverage(face geom.Polygon, faceArea float64, candidate geom.Polygon) (fraction float64, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("land use overlay failed: %v", r)
			fraction, ok = 0, false
		}
	}()
	if err := candidate.Validate(); err != nil {
		return 0, false
	}
	contains, err := geom.Contains(candidate.AsGeometry(), face.AsGeometry())
	if err == nil && contains {
		return 1, true
	}
	overlap, err := geom.Intersection(face.AsGeometry(), candidate.AsGeometry())
	if err != nil || overlap.IsEmpty() || overlap.Type() != geom.TypePolygon {
		return 0, false
	}
	return overlap.Area() / faceArea, true
}
