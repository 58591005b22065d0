package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/poiesic/connectors/ai"
	"github.com/poiesic/connectors/core"
	"github.com/poiesic/connectors/storage"
)

// CacheStats counts cache lookups.
type CacheStats struct {
	Hits   int64
	Misses int64
}

// CachingEmbedder serves embeddings from a cache and asks the wrapped
// embedder only for text it has not seen. Cache write failures are logged,
// not returned.
type CachingEmbedder struct {
	next   ai.Embedder
	cache  storage.EmbeddingCache
	model  string
	hits   atomic.Int64
	misses atomic.Int64
	logger *slog.Logger
}

var _ ai.Embedder = (*CachingEmbedder)(nil)

// NewCachingEmbedder wraps next. model namespaces the cache keys, so the
// same cache can serve several embedding models.
func NewCachingEmbedder(next ai.Embedder, cache storage.EmbeddingCache, model string, logger *slog.Logger) (*CachingEmbedder, error) {
	if next == nil {
		return nil, ErrEmbedderRequired
	}
	if cache == nil {
		return nil, ErrCacheRequired
	}
	if model == "" {
		return nil, fmt.Errorf("%w: model is required", core.ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachingEmbedder{
		next:   next,
		cache:  cache,
		model:  model,
		logger: logger.With("component", "caching-embedder", "model", model),
	}, nil
}

// Stats returns the lookup counts so far.
func (c *CachingEmbedder) Stats() CacheStats {
	return CacheStats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// EmbedText returns the cached vector for text, embedding and storing it on
// a miss.
func (c *CachingEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, core.ErrEmptyMessage
	}

	key := storage.CacheKey(c.model, text)
	entry, err := c.cache.Get(ctx, key)
	switch {
	case err == nil && c.matches(entry, text):
		c.hits.Add(1)
		return entry.Vector, nil
	case err != nil && !errors.Is(err, storage.ErrNotFound):
		c.logger.Warn("cache lookup failed", "err", err)
	}
	c.misses.Add(1)

	vector, err := c.next.EmbedText(ctx, text)
	if err != nil {
		return nil, err
	}
	c.store(ctx, storage.NewCacheEntry(c.model, text, vector))
	return vector, nil
}

// EmbedTexts serves hits from the cache and sends each distinct missing text
// upstream once. Results are in input order.
func (c *CachingEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	for _, text := range texts {
		if strings.TrimSpace(text) == "" {
			return nil, core.ErrEmptyMessage
		}
	}

	keys := make([]core.ID, len(texts))
	for i, text := range texts {
		keys[i] = storage.CacheKey(c.model, text)
	}
	found, err := c.cache.GetMany(ctx, keys...)
	if err != nil {
		c.logger.Warn("cache lookup failed", "err", err)
		found = map[core.ID]*storage.CacheEntry{}
	}

	// Each distinct missing text is sent once.
	vectors := make([][]float32, len(texts))
	var missing []string
	position := make(map[string]int)
	for i, text := range texts {
		if entry, ok := found[keys[i]]; ok && c.matches(entry, text) {
			vectors[i] = entry.Vector
			continue
		}
		if _, ok := position[text]; !ok {
			position[text] = len(missing)
			missing = append(missing, text)
		}
	}
	c.hits.Add(int64(len(texts) - len(missing)))
	c.misses.Add(int64(len(missing)))

	var fresh [][]float32
	if len(missing) > 0 {
		fresh, err = c.next.EmbedTexts(ctx, missing)
		if err != nil {
			return nil, err
		}
		if len(fresh) != len(missing) {
			return nil, fmt.Errorf("%w: expected %d, received %d", ErrEmbeddingMismatch, len(missing), len(fresh))
		}
		entries := make([]*storage.CacheEntry, len(missing))
		for i, text := range missing {
			entries[i] = storage.NewCacheEntry(c.model, text, fresh[i])
		}
		c.store(ctx, entries...)
	}

	for i, text := range texts {
		if idx, ok := position[text]; ok {
			vectors[i] = fresh[idx]
		}
	}
	c.logger.Debug("embedded texts", "count", len(texts), "upstream", len(missing))
	return vectors, nil
}

// matches guards against key collisions: a hit must be for the same model
// and text.
func (c *CachingEmbedder) matches(entry *storage.CacheEntry, text string) bool {
	if entry.Model == c.model && entry.Text == text {
		return true
	}
	c.logger.Warn("cache key collision", "key", entry.Key)
	return false
}

func (c *CachingEmbedder) store(ctx context.Context, entries ...*storage.CacheEntry) {
	if err := c.cache.Put(ctx, entries...); err != nil {
		c.logger.Warn("failed to cache embeddings", "count", len(entries), "err", err)
	}
}
