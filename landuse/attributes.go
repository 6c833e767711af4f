// Package landuse describes which land-use categories cover a face and where
// land-use polygons come from.
package landuse

import (
	"sort"
)

// Fraction is the share of a face covered by one category.
type Fraction struct {
	Category string  `msgpack:"c"`
	Value    float64 `msgpack:"f"`
}

// Attributes maps categories to fractions in [0,1]. Categories overlap, so
// the fractions need not sum to one. The slice is sorted by category and
// never modified in place: Set returns a copy.
type Attributes []Fraction

func (a Attributes) find(category string) int {
	return sort.Search(len(a), func(i int) bool {
		return a[i].Category >= category
	})
}

// Get returns the fraction for a category, zero when absent.
func (a Attributes) Get(category string) float64 {
	i := a.find(category)
	if i < len(a) && a[i].Category == category {
		return a[i].Value
	}
	return 0
}

// Set returns a copy with the contribution added to the category's
// fraction. The result is clamped to [0,1].
func (a Attributes) Set(category string, contribution float64) Attributes {
	i := a.find(category)
	exists := i < len(a) && a[i].Category == category
	n := len(a)
	if !exists {
		n++
	}
	out := make(Attributes, 0, n)
	out = append(out, a[:i]...)
	value := contribution
	if exists {
		value += a[i].Value
	}
	out = append(out, Fraction{Category: category, Value: clamp(value)})
	if exists {
		out = append(out, a[i+1:]...)
	} else {
		out = append(out, a[i:]...)
	}
	return out
}

func clamp(v float64) float64 {
	if v < 0 || v != v {
		return 0
	} else if v > 1 {
		return 1
	}
	return v
}

func (a Attributes) Categories() []string {
	categories := make([]string, len(a))
	for i, f := range a {
		categories[i] = f.Category
	}
	return categories
}

// Dominant returns the category with the largest fraction.
func (a Attributes) Dominant() (string, bool) {
	best := -1
	for i, f := range a {
		if best == -1 || f.Value > a[best].Value {
			best = i
		}
	}
	if best == -1 {
		return "", false
	}
	return a[best].Category, true
}
