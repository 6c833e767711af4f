package lib

import (
	"testing"

	"github.com/favyen/urbanpolygons/tiles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRegion(t *testing.T) {
	region, ok := GetRegion("antwerp")
	require.True(t, ok)
	assert.Equal(t, "antwerp", region.Name)
	_, ok = GetRegion("denver")
	assert.False(t, ok)
}

func TestRegionTiles(t *testing.T) {
	antwerp, _ := GetRegion("antwerp")
	belgium, _ := GetRegion("belgium")
	small := antwerp.Tiles(14)
	large := belgium.Tiles(14)
	assert.NotEmpty(t, small)
	assert.Greater(t, len(large), len(small))
	set := make(map[tiles.ID]bool)
	for _, id := range large {
		set[id] = true
	}
	for _, id := range small {
		assert.True(t, set[id], "tile %v", id)
	}
}
