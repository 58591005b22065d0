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


// Package storage defines the local embedding cache.
//
// Embedding calls are billed per token, so vectors for text that has already
// been embedded are kept on disk and looked up by a content key derived from
// the model name and the text. The cache also supports a brute-force
// similarity scan over everything it holds.
//
// # Constructor Return Type Pattern
//
// Public constructors in backend packages return the storage.EmbeddingCache
// interface:
//
//	cache, err := badger.NewCache(backend)  // returns storage.EmbeddingCache
//
// Internal helpers may return concrete types.
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/cache", false)
//	if err != nil {
//	    return err
//	}
//	defer backend.Close()
//
//	cache, err := badger.NewCache(backend)
//	key := storage.CacheKey("text-embedding-ada-002", text)
//	entry, err := cache.Get(ctx, key)
//	if errors.Is(err, storage.ErrNotFound) {
//	    ...
//	}
//
// Tests use an in-memory cache:
//
//	cache, backend, err := badger.NewMemoryCache()
//
// # Thread Safety
//
// All cache implementations must be safe for concurrent use.
package storage
