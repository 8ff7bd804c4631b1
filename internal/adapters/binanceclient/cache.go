package binanceclient

import (
	"sync"
	"time"

	"chartSignals/internal/domain"
)

// candleCache is a TTL-bounded in-memory cache of kline responses, keyed by
// symbol, interval and limit. A zero TTL disables caching entirely.
type candleCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	candles   []domain.Candle
	fetchedAt time.Time
}

func newCandleCache(ttl time.Duration) *candleCache {
	return &candleCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func (c *candleCache) get(key string) ([]domain.Candle, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.fetchedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.candles, true
}

func (c *candleCache) put(key string, candles []domain.Candle) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{candles: candles, fetchedAt: c.now()}
}
