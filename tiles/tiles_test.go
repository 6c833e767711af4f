package tiles

import (
	"testing"

	"github.com/mitroadmaps/gomapinfer/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackRoundTrip(t *testing.T) {
	for _, c := range [][3]int{{0, 0, 0}, {14, 8378, 5466}, {28, 1<<28 - 1, 1<<28 - 1}, {1, 1, 0}} {
		id := New(c[0], c[1], c[2])
		assert.Equal(t, c[0], id.Zoom())
		assert.Equal(t, c[1], id.X())
		assert.Equal(t, c[2], id.Y())
		assert.True(t, id.Valid())
		assert.Zero(t, uint64(id)>>63)
	}
}

func TestNewOutOfRange(t *testing.T) {
	assert.Panics(t, func() { New(2, 4, 0) })
	assert.Panics(t, func() { New(29, 0, 0) })
}

func TestParse(t *testing.T) {
	id, err := Parse("14/8378/5466")
	require.NoError(t, err)
	assert.Equal(t, New(14, 8378, 5466), id)
	assert.Equal(t, "14/8378/5466", id.String())

	_, err = Parse("14/8378")
	assert.Error(t, err)
	_, err = Parse("2/4/0")
	assert.Error(t, err)
}

func TestFromLocationInsideBox(t *testing.T) {
	// Antwerp.
	id := FromLocation(4.4025, 51.2194, 14)
	assert.Equal(t, 14, id.Zoom())
	assert.Equal(t, 8392, id.X())
	box := id.Box()
	assert.True(t, box.Contains(common.Point{X: 4.4025, Y: 51.2194}))
	assert.Less(t, box.Min.X, box.Max.X)
	assert.Less(t, box.Min.Y, box.Max.Y)
	assert.True(t, id.Contains(common.Point{X: 4.4025, Y: 51.2194}))
}

func TestFromLocationClamps(t *testing.T) {
	id := FromLocation(180, -89, 3)
	assert.Equal(t, 7, id.X())
	assert.Equal(t, 7, id.Y())
	id = FromLocation(-180, 89.9, 3)
	assert.Equal(t, 0, id.X())
	assert.Equal(t, 0, id.Y())
}

func TestCover(t *testing.T) {
	a := New(14, 8392, 5470)
	b := New(14, 8393, 5471)
	rect := common.Rectangle{
		Min: common.Point{X: a.Box().Min.X + 1e-6, Y: b.Box().Min.Y + 1e-6},
		Max: common.Point{X: b.Box().Max.X - 1e-6, Y: a.Box().Max.Y - 1e-6},
	}
	ids := Cover(rect, 14)
	require.Len(t, ids, 4)
	assert.Equal(t, a, ids[0])
	assert.Equal(t, b, ids[3])
}
