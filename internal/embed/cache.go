package embed

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// VectorCache memoizes embeddings by text content so identical
// segments across runs (and identical corpus entries across restarts
// within one process) are embedded once.
type VectorCache struct {
	cache *gocache.Cache
}

// NewVectorCache creates a vector cache with the given TTL and cleanup
// interval.
func NewVectorCache(ttl, cleanupInterval time.Duration) *VectorCache {
	return &VectorCache{
		cache: gocache.New(ttl, cleanupInterval),
	}
}

// Get returns the cached vector for the text, if present.
func (c *VectorCache) Get(text string) ([]float32, bool) {
	if val, found := c.cache.Get(cacheKey(text)); found {
		return val.([]float32), true
	}
	return nil, false
}

// Set stores the vector under the text's content hash.
func (c *VectorCache) Set(text string, vector []float32) {
	c.cache.Set(cacheKey(text), vector, gocache.DefaultExpiration)
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
