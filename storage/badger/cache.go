// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/connectors/core"
	"github.com/poiesic/connectors/storage"
)

// Cache implements storage.EmbeddingCache for BadgerDB.
type Cache struct {
	backend *Backend
	ttl     time.Duration
	closed  atomic.Bool
	logger  *slog.Logger
}

var _ storage.EmbeddingCache = (*Cache)(nil)

// CacheOption configures NewCache.
type CacheOption func(*Cache)

// WithTTL expires entries ttl after they are written. Zero keeps them
// forever.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithCacheLogger sets the logger.
func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *Cache) {
		c.logger = logger
	}
}

// NewCache creates an embedding cache stored in backend.
func NewCache(backend *Backend, opts ...CacheOption) (storage.EmbeddingCache, error) {
	return newCache(backend, opts...)
}

func newCache(backend *Backend, opts ...CacheOption) (*Cache, error) {
	if backend == nil {
		return nil, errors.New("backend is required")
	}
	c := &Cache{
		backend: backend,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.ttl < 0 {
		return nil, fmt.Errorf("%w: negative ttl %s", core.ErrInvalidConfig, c.ttl)
	}
	c.logger = c.logger.With("component", "embedding-cache")
	return c, nil
}

// Close marks the cache closed. The backend stays open.
func (c *Cache) Close() error {
	c.closed.Store(true)
	return nil
}

func (c *Cache) check(ctx context.Context) error {
	if c.closed.Load() {
		return storage.ErrStorageClosed
	}
	return ctx.Err()
}

// Get returns the entry stored under key.
func (c *Cache) Get(ctx context.Context, key core.ID) (*storage.CacheEntry, error) {
	if err := c.check(ctx); err != nil {
		return nil, err
	}
	var entry *storage.CacheEntry
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeEmbeddingKey(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			entry, err = storage.UnmarshalCacheEntry(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// GetMany returns the entries that exist among keys.
func (c *Cache) GetMany(ctx context.Context, keys ...core.ID) (map[core.ID]*storage.CacheEntry, error) {
	if err := c.check(ctx); err != nil {
		return nil, err
	}
	found := make(map[core.ID]*storage.CacheEntry, len(keys))
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		for _, key := range keys {
			if _, ok := found[key]; ok {
				continue
			}
			item, err := tx.Get(makeEmbeddingKey(key))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			err = item.Value(func(val []byte) error {
				entry, err := storage.UnmarshalCacheEntry(val)
				if err != nil {
					return err
				}
				found[key] = entry
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return found, nil
}

// Put stores entries, replacing any entry with the same key.
func (c *Cache) Put(ctx context.Context, entries ...*storage.CacheEntry) error {
	if err := c.check(ctx); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	now := time.Now().UTC()
	err := c.backend.WithBatch(func(wb *badger.WriteBatch) error {
		for _, entry := range entries {
			if entry == nil {
				continue
			}
			if entry.CreatedAt.IsZero() {
				entry.CreatedAt = now
			}
			e := badger.NewEntry(makeEmbeddingKey(entry.Key), storage.MarshalCacheEntry(entry))
			if c.ttl > 0 {
				e = e.WithTTL(c.ttl)
			}
			if err := wb.SetEntry(e); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.logger.Error("failed to store embeddings", "count", len(entries), "err", err)
		return err
	}
	c.logger.Debug("stored embeddings", "count", len(entries))
	return nil
}

// Delete removes entries by key.
func (c *Cache) Delete(ctx context.Context, keys ...core.ID) error {
	if err := c.check(ctx); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.backend.WithBatch(func(wb *badger.WriteBatch) error {
		for _, key := range keys {
			if err := wb.Delete(makeEmbeddingKey(key)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Len returns the number of live entries.
func (c *Cache) Len(ctx context.Context) (int, error) {
	if err := c.check(ctx); err != nil {
		return 0, err
	}
	count := 0
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(embeddingPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// FindSimilar scans every entry of model and scores it by cosine similarity.
func (c *Cache) FindSimilar(ctx context.Context, model string, vector []float32, minSimilarity float32, limit int) ([]*storage.SearchResult, error) {
	if err := c.check(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 || len(vector) == 0 {
		return nil, fmt.Errorf("%w: limit %d, vector length %d", storage.ErrInvalidQuery, limit, len(vector))
	}

	var results []*storage.SearchResult
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(embeddingPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var entry *storage.CacheEntry
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalCacheEntry(val)
				return err
			})
			if err != nil {
				return err
			}

			// Vectors from another model or dimension are not comparable
			if entry.Model != model || len(entry.Vector) != len(vector) {
				continue
			}

			similarity := cosineSimilarity(vector, entry.Vector)
			if similarity >= minSimilarity {
				results = append(results, &storage.SearchResult{
					Entry: entry,
					Score: similarity,
				})
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b *storage.SearchResult) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// cosineSimilarity returns 0 when either vector has zero length.
func cosineSimilarity(a, b []float32) float32 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
