package badger

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/connectors/core"
	"github.com/poiesic/connectors/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, opts ...CacheOption) storage.EmbeddingCache {
	t.Helper()
	cache, backend, err := NewMemoryCache(opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		cache.Close()
		backend.Close()
	})
	return cache
}

func TestCachePutGet(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	entry := storage.NewCacheEntry("ada", "hello world", []float32{0.1, 0.2, 0.3})
	require.NoError(t, cache.Put(ctx, entry))
	assert.False(t, entry.CreatedAt.IsZero())

	got, err := cache.Get(ctx, storage.CacheKey("ada", "hello world"))
	require.NoError(t, err)
	assert.Equal(t, "ada", got.Model)
	assert.Equal(t, "hello world", got.Text)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, got.Vector)
	assert.Equal(t, entry.CreatedAt.Truncate(time.Microsecond), got.CreatedAt)
}

func TestCacheGet_NotFound(t *testing.T) {
	cache := newTestCache(t)

	_, err := cache.Get(context.Background(), core.ID(12345))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCachePut_Replaces(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, storage.NewCacheEntry("m", "t", []float32{1})))
	require.NoError(t, cache.Put(ctx, storage.NewCacheEntry("m", "t", []float32{2})))

	got, err := cache.Get(ctx, storage.CacheKey("m", "t"))
	require.NoError(t, err)
	assert.Equal(t, []float32{2}, got.Vector)

	n, err := cache.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCacheGetMany(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	a := storage.NewCacheEntry("m", "a", []float32{1})
	b := storage.NewCacheEntry("m", "b", []float32{2})
	require.NoError(t, cache.Put(ctx, a, b))

	missing := storage.CacheKey("m", "c")
	found, err := cache.GetMany(ctx, a.Key, missing, b.Key, a.Key)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "a", found[a.Key].Text)
	assert.Equal(t, "b", found[b.Key].Text)
	assert.NotContains(t, found, missing)
}

func TestCacheDelete(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	a := storage.NewCacheEntry("m", "a", []float32{1})
	b := storage.NewCacheEntry("m", "b", []float32{2})
	require.NoError(t, cache.Put(ctx, a, b))

	require.NoError(t, cache.Delete(ctx, a.Key, core.ID(999)))

	_, err := cache.Get(ctx, a.Key)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	n, err := cache.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCacheTTL(t *testing.T) {
	cache := newTestCache(t, WithTTL(time.Second))
	ctx := context.Background()

	entry := storage.NewCacheEntry("m", "short lived", []float32{1})
	require.NoError(t, cache.Put(ctx, entry))

	_, err := cache.Get(ctx, entry.Key)
	require.NoError(t, err)

	// Badger TTLs have one second resolution.
	assert.Eventually(t, func() bool {
		_, err := cache.Get(ctx, entry.Key)
		return err != nil
	}, 5*time.Second, 100*time.Millisecond)
}

func TestNewCache_InvalidTTL(t *testing.T) {
	_, _, err := NewMemoryCache(WithTTL(-time.Second))
	assert.ErrorIs(t, err, core.ErrInvalidConfig)

	_, err = NewCache(nil)
	assert.Error(t, err)
}

func TestCacheFindSimilar(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx,
		storage.NewCacheEntry("m", "same", []float32{1, 0, 0}),
		storage.NewCacheEntry("m", "close", []float32{0.9, 0.1, 0}),
		storage.NewCacheEntry("m", "far", []float32{0, 0, 1}),
		storage.NewCacheEntry("other", "other model", []float32{1, 0, 0}),
		storage.NewCacheEntry("m", "other dims", []float32{1, 0}),
	))

	results, err := cache.FindSimilar(ctx, "m", []float32{2, 0, 0}, 0.8, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "same", results[0].Entry.Text)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
	assert.Equal(t, "close", results[1].Entry.Text)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)

	results, err = cache.FindSimilar(ctx, "m", []float32{1, 0, 0}, -1, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "same", results[0].Entry.Text)
}

func TestCacheFindSimilar_InvalidQuery(t *testing.T) {
	cache := newTestCache(t)

	_, err := cache.FindSimilar(context.Background(), "m", []float32{1}, 0, 0)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
	_, err = cache.FindSimilar(context.Background(), "m", nil, 0, 5)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestCacheClosed(t *testing.T) {
	cache := newTestCache(t)
	require.NoError(t, cache.Close())

	_, err := cache.Get(context.Background(), core.ID(1))
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	err = cache.Put(context.Background(), storage.NewCacheEntry("m", "t", []float32{1}))
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestCacheCanceledContext(t *testing.T) {
	cache := newTestCache(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := cache.Len(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCacheConcurrentAccess(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entry := storage.NewCacheEntry("m", fmt.Sprintf("text %d", i), []float32{float32(i)})
			assert.NoError(t, cache.Put(ctx, entry))
			got, err := cache.Get(ctx, entry.Key)
			if assert.NoError(t, err) {
				assert.Equal(t, entry.Text, got.Text)
			}
		}(i)
	}
	wg.Wait()

	n, err := cache.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, n)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 1}, []float32{2, 2}), 1e-6)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-6)
	assert.Equal(t, float32(0), cosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}
