package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// ReferenceCache remembers recently reconciled payment references so
// duplicate webhook deliveries can be short-circuited without a gateway
// round trip. It is a fast path only: the conditional UPDATE on the order
// row remains the exactly-once mechanism.
type ReferenceCache struct {
	cache *cache.Cache
}

func NewReferenceCache() *ReferenceCache {
	// Duplicate deliveries arrive within minutes; keep entries short-lived.
	c := cache.New(10*time.Minute, 5*time.Minute)
	return &ReferenceCache{
		cache: c,
	}
}

func (r *ReferenceCache) MarkApplied(reference string) {
	r.cache.Set(reference, true, cache.DefaultExpiration)
}

func (r *ReferenceCache) WasApplied(reference string) bool {
	_, found := r.cache.Get(reference)
	return found
}
