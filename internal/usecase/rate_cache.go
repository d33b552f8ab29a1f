package usecase

import (
	"sync"
	"time"

	"github.com/au-parking/parking-core-service/internal/domain"
)

// RateCache memoizes the per-day parking rate from the settings store.
// A value is served until its TTL expires or an explicit invalidation
// arrives from the settings change feed; invalidation always wins over TTL.
// Safe for concurrent readers with an occasional invalidate-and-refill,
// last writer wins on refill.
type RateCache struct {
	mu       sync.RWMutex
	settings domain.SettingsRepository
	ttl      time.Duration
	rate     float64
	loadedAt time.Time
}

func NewRateCache(settings domain.SettingsRepository, ttl time.Duration) *RateCache {
	return &RateCache{
		settings: settings,
		ttl:      ttl,
	}
}

// Get returns the cached rate, loading it from the settings store when the
// cache is empty or stale.
func (c *RateCache) Get() (float64, error) {
	c.mu.RLock()
	if c.fresh() {
		rate := c.rate
		c.mu.RUnlock()
		return rate, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fresh() {
		return c.rate, nil
	}

	rate, err := c.settings.GetRatePerDay()
	if err != nil {
		return 0, err
	}
	c.rate = rate
	c.loadedAt = time.Now()
	return rate, nil
}

// Set pushes a new rate value, as delivered by a settings write notification.
func (c *RateCache) Set(rate float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rate = rate
	c.loadedAt = time.Now()
}

// Invalidate drops the cached value so the next Get reloads.
func (c *RateCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadedAt = time.Time{}
}

func (c *RateCache) fresh() bool {
	return !c.loadedAt.IsZero() && time.Since(c.loadedAt) < c.ttl
}
