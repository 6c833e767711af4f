package tilesmap

import (
	"testing"

	"github.com/favyen/urbanpolygons/tiles"
	"github.com/stretchr/testify/assert"
)

func TestSingleTileInline(t *testing.T) {
	m := New()
	tile := tiles.New(14, 8392, 5468)
	m.Add(42, []tiles.ID{tile})
	assert.True(t, m.Has(42))
	assert.False(t, m.Has(43))
	assert.Equal(t, []tiles.ID{tile}, m.Get(42))
	assert.Empty(t, m.overflow)
}

func TestZeroTileIsStored(t *testing.T) {
	m := New()
	m.Add(7, []tiles.ID{tiles.New(0, 0, 0)})
	assert.True(t, m.Has(7))
	assert.Equal(t, []tiles.ID{0}, m.Get(7))
}

func TestOverflowKeepsInsertionOrder(t *testing.T) {
	m := New()
	a, b, c := tiles.New(14, 1, 1), tiles.New(14, 2, 1), tiles.New(14, 3, 1)
	m.Add(1, []tiles.ID{a, b})
	m.Add(2, []tiles.ID{c})
	m.Add(3, []tiles.ID{c, a, b})
	assert.Equal(t, []tiles.ID{a, b}, m.Get(1))
	assert.Equal(t, []tiles.ID{c}, m.Get(2))
	assert.Equal(t, []tiles.ID{c, a, b}, m.Get(3))
	assert.Equal(t, 3, m.Len())
}

func TestSparseAndNegativeIds(t *testing.T) {
	m := New()
	tile := tiles.New(10, 5, 5)
	m.Add(12_000_000_000, []tiles.ID{tile})
	m.Add(-5, []tiles.ID{tile, tile})
	assert.Equal(t, []tiles.ID{tile}, m.Get(12_000_000_000))
	assert.Equal(t, []tiles.ID{tile, tile}, m.Get(-5))
	assert.Nil(t, m.Get(11_999_999_999))
	assert.Len(t, m.pages, 2)
}

func TestEmptyAddIgnored(t *testing.T) {
	m := New()
	m.Add(1, nil)
	assert.False(t, m.Has(1))
	assert.Equal(t, 0, m.Len())
}
