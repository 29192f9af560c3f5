// Package weather provides the forecast lookup path used by trip
// generation: a time-bounded in-memory cache in front of the external
// forecast provider. Forecasts for the same destination and date range
// barely change within a few hours, and provider calls are the slowest
// part of the pipeline after LLM generation, so the cache turns repeat
// lookups into microsecond map reads.
package weather

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/packlane/packlane-api/internal/domain"
)

// Provider is the external forecast source the cache fronts.
type Provider interface {
	// FetchForecast retrieves a forecast for a location over a date range.
	// It is a network call that can fail transiently; errors are returned
	// unchanged and never cached.
	FetchForecast(ctx context.Context, location string, start, end time.Time) (*domain.Forecast, error)
}

// Stats reports cache effectiveness counters for the stats endpoint and logs.
type Stats struct {
	Hits       uint64 `json:"hits"`
	Misses     uint64 `json:"misses"`
	Size       int    `json:"size"`
	MaxEntries int    `json:"max_entries"`
}

// entry is one cached forecast with its absolute expiry.
type entry struct {
	forecast  *domain.Forecast
	expiresAt time.Time
	storedAt  time.Time
}

// Cache is a TTL-bounded, capacity-bounded forecast cache. It is safe for
// concurrent use by scheduler workers and the janitor. The cache holds at
// most one entry per normalized key; concurrent misses for the same key may
// both hit the provider, and the last write wins.
type Cache struct {
	provider   Provider
	ttl        time.Duration
	maxEntries int
	logger     *slog.Logger

	// now is a hook for tests to control expiry.
	now func() time.Time

	mu      sync.Mutex
	entries map[string]entry
	hits    uint64
	misses  uint64
}

// NewCache creates a forecast cache over the given provider. A maxEntries
// of zero disables the capacity bound; ttl must be positive.
func NewCache(provider Provider, ttl time.Duration, maxEntries int, logger *slog.Logger) *Cache {
	return &Cache{
		provider:   provider,
		ttl:        ttl,
		maxEntries: maxEntries,
		logger:     logger.With("component", "weather_cache"),
		now:        time.Now,
		entries:    make(map[string]entry),
	}
}

// Get returns the forecast for a location and date range, serving from
// cache when a live entry exists and consulting the provider otherwise.
// Provider errors are propagated unchanged and nothing is cached for them,
// so the next call retries the provider.
func (c *Cache) Get(ctx context.Context, location string, start, end time.Time) (*domain.Forecast, error) {
	key := cacheKey(location, start, end)

	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.now().Before(e.expiresAt) {
		c.hits++
		c.mu.Unlock()
		return e.forecast, nil
	}
	c.misses++
	c.mu.Unlock()

	// The lock is not held across the provider call; a slow fetch for one
	// destination must not serialize lookups for others.
	forecast, err := c.provider.FetchForecast(ctx, location, start, end)
	if err != nil {
		return nil, err
	}

	now := c.now()
	c.mu.Lock()
	if c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		if _, exists := c.entries[key]; !exists {
			c.evictOldestLocked()
		}
	}
	c.entries[key] = entry{
		forecast:  forecast,
		expiresAt: now.Add(c.ttl),
		storedAt:  now,
	}
	size := len(c.entries)
	c.mu.Unlock()

	c.logger.Debug("forecast cached",
		"cache_key", key,
		"ttl", c.ttl,
		"cache_size", size)
	return forecast, nil
}

// EvictExpired removes all entries past their expiry and returns how many
// were removed. Correctness does not depend on this running; Get never
// serves an expired entry. The janitor calls it to bound memory.
func (c *Cache) EvictExpired() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	evicted := 0
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
			evicted++
		}
	}
	return evicted
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Hits:       c.hits,
		Misses:     c.misses,
		Size:       len(c.entries),
		MaxEntries: c.maxEntries,
	}
}

// evictOldestLocked drops the oldest entry to make room under the capacity
// bound. Caller must hold c.mu.
func (c *Cache) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	for key, e := range c.entries {
		if oldestKey == "" || e.storedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = e.storedAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// cacheKey normalizes a lookup into its cache key. Location matching is
// case- and whitespace-insensitive so "Tokyo" and " TOKYO " share an entry;
// dates are bucketed by calendar day.
func cacheKey(location string, start, end time.Time) string {
	loc := strings.ToLower(strings.TrimSpace(location))
	return fmt.Sprintf("%s|%s|%s", loc, start.Format("2006-01-02"), end.Format("2006-01-02"))
}
