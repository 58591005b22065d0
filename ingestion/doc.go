// Package ingestion turns documents into embedded chunks.
//
// A Pipeline splits text with a recursive character splitter sized by
// ai.Config.ChunkSize and ai.Config.ChunkOverlap, then embeds the chunks in
// batches on a worker pool. Batches run concurrently, but results always come
// back in chunk order. Failed batches are retried with exponential backoff
// unless the error cannot be fixed by retrying.
//
// CachingEmbedder wraps any ai.Embedder with a storage.EmbeddingCache so text
// that was embedded before is never sent upstream again.
package ingestion
