package guard

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryGuard keeps claims in process memory. Claims are not shared between
// replicas.
type MemoryGuard struct {
	cache *cache.Cache
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{cache: cache.New(5*time.Minute, time.Minute)}
}

func (g *MemoryGuard) Acquire(_ context.Context, key string, ttl time.Duration) (Release, bool, error) {
	// Add fails when an unexpired entry exists.
	if err := g.cache.Add(key, struct{}{}, ttl); err != nil {
		return noop, false, nil
	}
	var once sync.Once
	return func() { once.Do(func() { g.cache.Delete(key) }) }, true, nil
}
