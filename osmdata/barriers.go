package osmdata

// BarrierPredicate decides whether a way contributes to the barrier graph.
type BarrierPredicate interface {
	IsBarrier(tags Tags) bool
}

// BarrierFunc adapts a function to a BarrierPredicate.
type BarrierFunc func(tags Tags) bool

func (f BarrierFunc) IsBarrier(tags Tags) bool {
	return f(tags)
}

// values per key that make a way a barrier; an empty set accepts any value.
var barrierValues = map[string]map[string]bool{
	"barrier": {
		"wall":           true,
		"fence":          true,
		"hedge":          true,
		"retaining_wall": true,
		"city_wall":      true,
		"guard_rail":     true,
		"wire_fence":     true,
		"wood_fence":     true,
	},
	"highway": {
		"motorway":       true,
		"trunk":          true,
		"primary":        true,
		"secondary":      true,
		"tertiary":       true,
		"unclassified":   true,
		"residential":    true,
		"living_street":  true,
		"pedestrian":     true,
		"service":        true,
		"motorway_link":  true,
		"trunk_link":     true,
		"primary_link":   true,
		"secondary_link": true,
		"tertiary_link":  true,
		"road":           true,
		"track":          true,
		"footway":        true,
		"cycleway":       true,
		"path":           true,
	},
	"railway": {
		"rail":         true,
		"light_rail":   true,
		"tram":         true,
		"narrow_gauge": true,
		"subway":       true,
	},
	"waterway": {
		"river":  true,
		"canal":  true,
		"stream": true,
		"ditch":  true,
		"drain":  true,
	},
	"natural": {
		"coastline": true,
	},
}

// DefaultBarriers accepts walls, fences, hedges, roads, railways and
// waterways. Tunnels and abandoned infrastructure do not split space.
var DefaultBarriers = BarrierFunc(func(tags Tags) bool {
	if v, _ := tags.Get("tunnel"); v != "" && v != "no" {
		return false
	}
	if v, _ := tags.Get("area"); v == "yes" {
		return false
	}
	for _, tag := range tags {
		values, ok := barrierValues[tag.Key]
		if !ok {
			continue
		}
		if len(values) == 0 || values[tag.Value] {
			return true
		}
	}
	return false
})
