package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/library-seat-api/internal/models"
)

type failingCache struct{ err error }

func (f failingCache) Get(context.Context, string, interface{}) error { return f.err }
func (f failingCache) Set(context.Context, string, interface{}, time.Duration) error {
	return f.err
}
func (f failingCache) Delete(context.Context, ...string) error { return f.err }

func TestCacheServiceHitMissAndInvalidate(t *testing.T) {
	metrics := NewMetricsService()
	repo := &memCache{values: map[string]interface{}{}}
	cache := NewCacheService(repo, metrics, 0, nil, true)
	require.True(t, cache.Enabled())
	ctx := context.Background()

	var shifts []models.Shift
	hit, err := cache.Get(ctx, "library-seat:shifts_update", &shifts)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, cache.Set(ctx, "library-seat:shifts_update", []models.Shift{{ID: 1, Name: "Morning"}}, 0))
	hit, err = cache.Get(ctx, "library-seat:shifts_update", &shifts)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "Morning", shifts[0].Name)

	require.NoError(t, cache.Invalidate(ctx, "library-seat:shifts_update"))
	assert.Equal(t, []string{"library-seat:shifts_update"}, repo.deleted)
	assert.Contains(t, scrape(t, metrics), "cache_hit_ratio 0.5")
}

func TestCacheServiceDisabledIsNoop(t *testing.T) {
	var nilCache *CacheService
	assert.False(t, nilCache.Enabled())
	hit, err := nilCache.Get(context.Background(), "k", nil)
	assert.NoError(t, err)
	assert.False(t, hit)

	off := NewCacheService(failingCache{err: errors.New("boom")}, nil, time.Second, nil, false)
	assert.NoError(t, off.Set(context.Background(), "k", 1, 0))
	assert.NoError(t, off.Invalidate(context.Background(), "k"))
}

func TestCacheServiceSurfacesBackendErrors(t *testing.T) {
	cache := NewCacheService(failingCache{err: errors.New("connection refused")}, nil, time.Second, nil, true)
	ctx := context.Background()

	hit, err := cache.Get(ctx, "k", new(int))
	assert.Error(t, err)
	assert.False(t, hit)
	assert.Error(t, cache.Set(ctx, "k", 1, 0))
	assert.Error(t, cache.Invalidate(ctx, "k"))
}
