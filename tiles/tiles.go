// Package tiles packs web-mercator tile coordinates into a single id.
package tiles

import (
	"fmt"
	"math"
	"sort"

	"github.com/mitroadmaps/gomapinfer/common"
)

// MaxZoom is the deepest zoom level an ID can hold.
const MaxZoom = 28

const (
	coordBits = 28
	coordMask = 1<<coordBits - 1
	zoomShift = 2 * coordBits
	zoomMask  = 0x3f
)

// ID identifies a tile: zoom in bits 56-61, row (y) in bits 28-55 and
// column (x) in bits 0-27. Bit 63 is never set.
type ID uint64

func New(zoom int, x int, y int) ID {
	if zoom < 0 || zoom > MaxZoom {
		panic(fmt.Errorf("tile zoom %d out of range", zoom))
	}
	n := 1 << uint(zoom)
	if x < 0 || x >= n || y < 0 || y >= n {
		panic(fmt.Errorf("tile %d/%d/%d out of range", zoom, x, y))
	}
	return ID(uint64(zoom)<<zoomShift | uint64(y)<<coordBits | uint64(x))
}

func (id ID) Zoom() int {
	return int(uint64(id) >> zoomShift & zoomMask)
}

func (id ID) X() int {
	return int(uint64(id) & coordMask)
}

func (id ID) Y() int {
	return int(uint64(id) >> coordBits & coordMask)
}

func (id ID) String() string {
	return fmt.Sprintf("%d/%d/%d", id.Zoom(), id.X(), id.Y())
}

// Parse reads an id written as zoom/x/y.
func Parse(s string) (ID, error) {
	var zoom, x, y int
	if n, err := fmt.Sscanf(s, "%d/%d/%d", &zoom, &x, &y); err != nil || n != 3 {
		return 0, fmt.Errorf("bad tile %q", s)
	}
	if zoom < 0 || zoom > MaxZoom || x < 0 || y < 0 || x >= 1<<uint(zoom) || y >= 1<<uint(zoom) {
		return 0, fmt.Errorf("tile %q out of range", s)
	}
	return New(zoom, x, y), nil
}

// Valid reports whether the id decodes to an existing tile.
func (id ID) Valid() bool {
	if uint64(id)>>62 != 0 || id.Zoom() > MaxZoom {
		return false
	}
	n := 1 << uint(id.Zoom())
	return id.X() < n && id.Y() < n
}

// FromLocation returns the tile at the given zoom containing the location.
// Locations on the antimeridian or beyond the mercator latitude limit are
// clamped to the border tiles.
func FromLocation(lon float64, lat float64, zoom int) ID {
	n := float64(int(1) << uint(zoom))
	latRad := lat * math.Pi / 180
	fx := math.Floor((lon + 180) / 360 * n)
	fy := math.Floor((1 - math.Log(math.Tan(latRad)+1/math.Cos(latRad))/math.Pi) / 2 * n)
	return New(zoom, clamp(fx, n-1), clamp(fy, n-1))
}

func clamp(v float64, max float64) int {
	if math.IsNaN(v) || v < 0 {
		return 0
	} else if v > max {
		return int(max)
	}
	return int(v)
}

// FromPoint is FromLocation for a point with X=longitude and Y=latitude.
func FromPoint(p common.Point, zoom int) ID {
	return FromLocation(p.X, p.Y, zoom)
}

func tileLon(x int, zoom int) float64 {
	return float64(x)/float64(int(1)<<uint(zoom))*360 - 180
}

func tileLat(y int, zoom int) float64 {
	n := math.Pi - 2*math.Pi*float64(y)/float64(int(1)<<uint(zoom))
	return 180 / math.Pi * math.Atan(math.Sinh(n))
}

// Box returns the tile's bounding box in longitude (X) and latitude (Y).
func (id ID) Box() common.Rectangle {
	zoom := id.Zoom()
	return common.Rectangle{
		Min: common.Point{X: tileLon(id.X(), zoom), Y: tileLat(id.Y()+1, zoom)},
		Max: common.Point{X: tileLon(id.X()+1, zoom), Y: tileLat(id.Y(), zoom)},
	}
}

// Contains reports whether the location falls inside the tile.
func (id ID) Contains(p common.Point) bool {
	return FromPoint(p, id.Zoom()) == id
}

// Cover lists the tiles at the given zoom overlapping the rectangle, ordered
// by row then column.
func Cover(rect common.Rectangle, zoom int) []ID {
	topLeft := FromLocation(rect.Min.X, rect.Max.Y, zoom)
	bottomRight := FromLocation(rect.Max.X, rect.Min.Y, zoom)
	var ids []ID
	for y := topLeft.Y(); y <= bottomRight.Y(); y++ {
		for x := topLeft.X(); x <= bottomRight.X(); x++ {
			ids = append(ids, New(zoom, x, y))
		}
	}
	return ids
}

// Sort orders tile ids ascending in place.
func Sort(ids []ID) {
	sort.Slice(ids, func(i, j int) bool {
		return ids[i] < ids[j]
	})
}
