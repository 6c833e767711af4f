// Package tilesmap maps OSM ids to the tiles they occur in.
//
// Nearly every node and most ways live in a single tile, so the single tile
// is stored inline in the primary slot for the id. Ids with more tiles get
// a chain in an append-only overflow array instead.
package tilesmap

import (
	"github.com/favyen/urbanpolygons/tiles"
)

const (
	pageBits = 12
	pageSize = 1 << pageBits

	// inline marks a primary slot holding a tile id rather than a pointer
	// into the overflow chain. Tile ids never use bit 63.
	inline uint64 = 1 << 63

	// end terminates an overflow chain.
	end uint64 = ^uint64(0)
)

type page [pageSize]uint64

// Map is a compact id to tile list multimap. Add must be called at most once
// per id. The zero value is not usable; use New.
type Map struct {
	// primary slots are 0 when unset, inline|tile for a single tile and
	// pointer+1 for the head of an overflow chain.
	pages map[int64]*page

	// overflow holds (tile, previous pointer) pairs.
	overflow []uint64
	count    int
}

func New() *Map {
	return &Map{pages: make(map[int64]*page)}
}

func (m *Map) slot(id int64, create bool) *uint64 {
	key := id >> pageBits
	p := m.pages[key]
	if p == nil {
		if !create {
			return nil
		}
		p = new(page)
		m.pages[key] = p
	}
	return &p[id&(pageSize-1)]
}

// Add records the tiles for the id. Duplicate tiles are kept as given.
func (m *Map) Add(id int64, ids []tiles.ID) {
	if len(ids) == 0 {
		return
	}
	slot := m.slot(id, true)
	if *slot == 0 {
		m.count++
	}
	if len(ids) == 1 {
		*slot = inline | uint64(ids[0])
		return
	}

	// each entry points to the one added before it, the primary slot points
	// to the last.
	previous := end
	for _, tile := range ids {
		pointer := uint64(len(m.overflow) / 2)
		m.overflow = append(m.overflow, uint64(tile), previous)
		previous = pointer
	}
	*slot = previous + 1
}

func (m *Map) Has(id int64) bool {
	slot := m.slot(id, false)
	return slot != nil && *slot != 0
}

// Get returns the tiles for the id in the order they were added.
func (m *Map) Get(id int64) []tiles.ID {
	slot := m.slot(id, false)
	if slot == nil || *slot == 0 {
		return nil
	}
	if *slot&inline != 0 {
		return []tiles.ID{tiles.ID(*slot &^ inline)}
	}
	var ids []tiles.ID
	for pointer := *slot - 1; pointer != end; pointer = m.overflow[pointer*2+1] {
		ids = append(ids, tiles.ID(m.overflow[pointer*2]))
	}
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
	return ids
}

// Len is the number of ids with at least one tile.
func (m *Map) Len() int {
	return m.count
}
