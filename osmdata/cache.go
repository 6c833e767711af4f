package osmdata

import (
	"encoding/binary"
	"log"

	"github.com/coocood/freecache"
	"github.com/favyen/urbanpolygons/tiles"
	"github.com/vmihailenco/msgpack/v5"
)

// CachedProvider keeps recently served tiles msgpack-encoded in memory. The
// growth loop asks for the same neighbor tiles over and over when building
// adjacent target tiles, so this sits in front of slow providers.
type CachedProvider struct {
	provider Provider
	cache    *freecache.Cache
}

// NewCachedProvider wraps a provider with a cache of the given size in bytes.
func NewCachedProvider(provider Provider, size int) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		cache:    freecache.NewCache(size),
	}
}

func cacheKey(id tiles.ID) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(id))
	return key
}

func (c *CachedProvider) Tile(id tiles.ID) (*TileData, error) {
	key := cacheKey(id)
	if buf, err := c.cache.Get(key); err == nil {
		data := &TileData{}
		if err := msgpack.Unmarshal(buf, data); err == nil {
			return data, nil
		}
		log.Printf("dropping undecodable cache entry for tile %v", id)
		c.cache.Del(key)
	}

	data, err := c.provider.Tile(id)
	if err != nil {
		return nil, err
	}
	buf, err := msgpack.Marshal(data)
	if err != nil {
		return data, nil
	}
	// entries larger than the cache allows are simply not cached
	_ = c.cache.Set(key, buf, 0)
	return data, nil
}

// HitRate reports the fraction of lookups served from the cache.
func (c *CachedProvider) HitRate() float64 {
	return c.cache.HitRate()
}
