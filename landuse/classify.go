package landuse

import (
	"github.com/favyen/urbanpolygons/osmdata"
)

// Categories produced by Classify.
const (
	Residential  = "residential"
	Commercial   = "commercial"
	Industrial   = "industrial"
	Agricultural = "agricultural"
	Forest       = "forest"
	Park         = "park"
	Water        = "water"
	Cemetery     = "cemetery"
	Education    = "education"
	Railway      = "railway"
)

var categoryByTag = map[string]map[string]string{
	"landuse": {
		"residential":             Residential,
		"commercial":              Commercial,
		"retail":                  Commercial,
		"industrial":              Industrial,
		"port":                    Industrial,
		"farmland":                Agricultural,
		"farmyard":                Agricultural,
		"meadow":                  Agricultural,
		"orchard":                 Agricultural,
		"vineyard":                Agricultural,
		"greenhouse_horticulture": Agricultural,
		"forest":                  Forest,
		"grass":                   Park,
		"recreation_ground":       Park,
		"village_green":           Park,
		"reservoir":               Water,
		"basin":                   Water,
		"cemetery":                Cemetery,
		"railway":                 Railway,
		"education":               Education,
	},
	"leisure": {
		"park":           Park,
		"garden":         Park,
		"playground":     Park,
		"pitch":          Park,
		"nature_reserve": Forest,
	},
	"natural": {
		"wood":  Forest,
		"water": Water,
		"scrub": Forest,
	},
	"amenity": {
		"school":       Education,
		"university":   Education,
		"college":      Education,
		"kindergarten": Education,
		"grave_yard":   Cemetery,
	},
}

// classification order; the first key with a known value wins
var categoryKeys = []string{"landuse", "leisure", "natural", "amenity"}

// Classify maps the tags of a closed way to a land-use category.
func Classify(tags osmdata.Tags) (string, bool) {
	for _, key := range categoryKeys {
		value, ok := tags.Get(key)
		if !ok {
			continue
		}
		if category, ok := categoryByTag[key][value]; ok {
			return category, true
		}
	}
	return "", false
}
