package lib

import (
	"github.com/favyen/urbanpolygons/tiles"
	"github.com/mitroadmaps/gomapinfer/common"
)

type Region struct {
	// e.g. "antwerp"
	Name string

	// smallest and largest longitude and latitude
	Min common.Point
	Max common.Point
}

var Regions = []Region{
	{
		Name: "belgium",
		Min:  common.Point{X: 2.3785400390625, Y: 49.40024999665212},
		Max:  common.Point{X: 6.5093994140625, Y: 51.52241608253253},
	},
	{
		Name: "antwerp",
		Min:  common.Point{X: 4.3402862548828125, Y: 51.13627812193317},
		Max:  common.Point{X: 4.75982666015625, Y: 51.30099875579057},
	},
	{
		Name: "brussels",
		Min:  common.Point{X: 4.2441, Y: 50.7636},
		Max:  common.Point{X: 4.4826, Y: 50.9139},
	},
	{
		Name: "ghent",
		Min:  common.Point{X: 3.6261, Y: 51.0048},
		Max:  common.Point{X: 3.8123, Y: 51.1102},
	},
}

func GetRegion(name string) (Region, bool) {
	for _, region := range Regions {
		if region.Name == name {
			return region, true
		}
	}
	return Region{}, false
}

func (region Region) Rectangle() common.Rectangle {
	return common.Rectangle{Min: region.Min, Max: region.Max}
}

// Tiles lists the tiles covering the region, row by row.
func (region Region) Tiles(zoom int) []tiles.ID {
	return tiles.Cover(region.Rectangle(), zoom)
}
