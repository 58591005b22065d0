package storage

import (
	"context"
	"time"

	"github.com/poiesic/connectors/core"
)

// CacheEntry is one cached embedding.
type CacheEntry struct {
	Key       core.ID
	Model     string
	Text      string
	Vector    []float32
	CreatedAt time.Time
}

// SearchResult is a cache entry with its similarity to a query vector.
type SearchResult struct {
	Entry *CacheEntry
	Score float32
}

// CacheKey returns the key under which the embedding of text by model is
// stored.
func CacheKey(model, text string) core.ID {
	return core.IDFromParts(model, text)
}

// NewCacheEntry builds an entry keyed by CacheKey(model, text).
func NewCacheEntry(model, text string, vector []float32) *CacheEntry {
	return &CacheEntry{
		Key:    CacheKey(model, text),
		Model:  model,
		Text:   text,
		Vector: vector,
	}
}

// EmbeddingCache stores embeddings by content key.
// Implementations must be thread-safe and support concurrent access.
type EmbeddingCache interface {
	// Get returns the entry stored under key.
	// Returns ErrNotFound if the entry doesn't exist or has expired.
	Get(ctx context.Context, key core.ID) (*CacheEntry, error)

	// GetMany returns the entries that exist among keys. Missing keys are
	// absent from the map; they are not an error.
	GetMany(ctx context.Context, keys ...core.ID) (map[core.ID]*CacheEntry, error)

	// Put stores entries, replacing any entry with the same key.
	// Sets CreatedAt if not already set.
	Put(ctx context.Context, entries ...*CacheEntry) error

	// Delete removes entries by key. Missing keys are ignored.
	Delete(ctx context.Context, keys ...core.ID) error

	// Len returns the number of live entries.
	Len(ctx context.Context) (int, error)

	// FindSimilar returns entries of model whose vectors score at least
	// minSimilarity against vector, highest first, up to limit results.
	FindSimilar(ctx context.Context, model string, vector []float32, minSimilarity float32, limit int) ([]*SearchResult, error)

	// Close releases resources held by the cache. It does not close the
	// backend it was created from.
	Close() error
}
