package weather

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packlane/packlane-api/internal/domain"
)

// fakeProvider counts fetches and returns a canned forecast or error.
type fakeProvider struct {
	mu       sync.Mutex
	calls    int
	forecast *domain.Forecast
	err      error
}

func (f *fakeProvider) FetchForecast(_ context.Context, location string, _, _ time.Time) (*domain.Forecast, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.forecast != nil {
		return f.forecast, nil
	}
	return &domain.Forecast{Location: location, AvgTempC: 12.5}, nil
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestCache(provider Provider, ttl time.Duration, maxEntries int) (*Cache, *time.Time) {
	c := NewCache(provider, ttl, maxEntries, testLogger())
	now := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestCache_HitSkipsProvider(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{}
	cache, _ := newTestCache(provider, 6*time.Hour, 0)

	start := time.Date(2026, time.March, 28, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)

	first, err := cache.Get(context.Background(), "Tokyo", start, end)
	require.NoError(t, err)

	second, err := cache.Get(context.Background(), "Tokyo", start, end)
	require.NoError(t, err)

	assert.Equal(t, 1, provider.callCount())
	assert.Same(t, first, second)

	stats := cache.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, 1, stats.Size)
}

func TestCache_KeyNormalization(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{}
	cache, _ := newTestCache(provider, 6*time.Hour, 0)

	start := time.Date(2026, time.March, 28, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)

	_, err := cache.Get(context.Background(), "Tokyo", start, end)
	require.NoError(t, err)
	_, err = cache.Get(context.Background(), "  TOKYO ", start, end)
	require.NoError(t, err)

	assert.Equal(t, 1, provider.callCount())
}

func TestCache_DifferentDatesMiss(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{}
	cache, _ := newTestCache(provider, 6*time.Hour, 0)

	start := time.Date(2026, time.March, 28, 0, 0, 0, 0, time.UTC)

	_, err := cache.Get(context.Background(), "Tokyo", start, start.AddDate(0, 0, 7))
	require.NoError(t, err)
	_, err = cache.Get(context.Background(), "Tokyo", start, start.AddDate(0, 0, 3))
	require.NoError(t, err)

	assert.Equal(t, 2, provider.callCount())
	assert.Equal(t, 2, cache.Stats().Size)
}

func TestCache_ExpiryRefetches(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{}
	cache, now := newTestCache(provider, 6*time.Hour, 0)

	start := time.Date(2026, time.March, 28, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)

	_, err := cache.Get(context.Background(), "Tokyo", start, end)
	require.NoError(t, err)

	// Just before expiry the entry is still live.
	*now = now.Add(6*time.Hour - time.Second)
	_, err = cache.Get(context.Background(), "Tokyo", start, end)
	require.NoError(t, err)
	assert.Equal(t, 1, provider.callCount())

	// At expiry the entry is stale and the provider is consulted again.
	*now = now.Add(2 * time.Second)
	_, err = cache.Get(context.Background(), "Tokyo", start, end)
	require.NoError(t, err)
	assert.Equal(t, 2, provider.callCount())
}

func TestCache_ErrorsNotCached(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{err: errors.New("upstream unavailable")}
	cache, _ := newTestCache(provider, 6*time.Hour, 0)

	start := time.Date(2026, time.March, 28, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)

	_, err := cache.Get(context.Background(), "Tokyo", start, end)
	require.Error(t, err)
	assert.Equal(t, 0, cache.Stats().Size)

	// The provider recovers; the next lookup must reach it.
	provider.mu.Lock()
	provider.err = nil
	provider.mu.Unlock()

	forecast, err := cache.Get(context.Background(), "Tokyo", start, end)
	require.NoError(t, err)
	assert.Equal(t, "Tokyo", forecast.Location)
	assert.Equal(t, 2, provider.callCount())
}

func TestCache_EvictExpired(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{}
	cache, now := newTestCache(provider, 6*time.Hour, 0)

	start := time.Date(2026, time.March, 28, 0, 0, 0, 0, time.UTC)

	_, err := cache.Get(context.Background(), "Tokyo", start, start.AddDate(0, 0, 7))
	require.NoError(t, err)

	*now = now.Add(3 * time.Hour)
	_, err = cache.Get(context.Background(), "Lisbon", start, start.AddDate(0, 0, 7))
	require.NoError(t, err)

	// Only the Tokyo entry has aged past the TTL.
	*now = now.Add(3*time.Hour + time.Minute)
	assert.Equal(t, 1, cache.EvictExpired())
	assert.Equal(t, 1, cache.Stats().Size)
}

func TestCache_CapacityBound(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{}
	cache, now := newTestCache(provider, 6*time.Hour, 2)

	start := time.Date(2026, time.March, 28, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)

	_, err := cache.Get(context.Background(), "Tokyo", start, end)
	require.NoError(t, err)

	*now = now.Add(time.Minute)
	_, err = cache.Get(context.Background(), "Lisbon", start, end)
	require.NoError(t, err)

	// Inserting a third entry evicts the oldest one (Tokyo).
	*now = now.Add(time.Minute)
	_, err = cache.Get(context.Background(), "Oslo", start, end)
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Stats().Size)

	_, err = cache.Get(context.Background(), "Tokyo", start, end)
	require.NoError(t, err)
	assert.Equal(t, 4, provider.callCount())
}
