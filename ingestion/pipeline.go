package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/connectors/ai"
)

const (
	defaultBatchSize      = 16
	defaultMaxAttempts    = 3
	defaultRetryBaseDelay = 500 * time.Millisecond
)

// Chunk is one embedded piece of a document.
type Chunk struct {
	Index  int
	Text   string
	Vector []float32
}

// Pipeline splits documents and embeds the chunks concurrently.
type Pipeline struct {
	embedder       ai.Embedder
	splitter       *Splitter
	pool           *ants.Pool
	batchSize      int
	maxAttempts    int
	retryBaseDelay time.Duration
	markdown       bool
	progress       *ProgressTracker
	logger         *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent batches.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets how many chunks go into one EmbedTexts call.
// Default is 16.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			return fmt.Errorf("batch size must be positive, got %d", size)
		}
		p.batchSize = size
		return nil
	}
}

// WithRetry sets the attempts per batch and the first backoff delay.
// Default is 3 attempts starting at 500ms.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(p *Pipeline) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		p.maxAttempts = maxAttempts
		p.retryBaseDelay = baseDelay
		return nil
	}
}

// WithMarkdown splits on markdown structure instead of plain characters.
func WithMarkdown() Option {
	return func(p *Pipeline) error {
		p.markdown = true
		return nil
	}
}

// WithProgress reports embedded chunk counts to tracker.
func WithProgress(tracker *ProgressTracker) Option {
	return func(p *Pipeline) error {
		p.progress = tracker
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a pipeline that embeds with embedder and splits by
// config's chunk settings.
func NewPipeline(embedder ai.Embedder, config *ai.Config, opts ...Option) (*Pipeline, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := max(runtime.NumCPU()/2, 1)
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		embedder:       embedder,
		pool:           pool,
		batchSize:      defaultBatchSize,
		maxAttempts:    defaultMaxAttempts,
		retryBaseDelay: defaultRetryBaseDelay,
		logger:         slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	splitter, err := NewSplitter(config, p.markdown)
	if err != nil {
		p.Release()
		return nil, err
	}
	p.splitter = splitter
	p.logger = p.logger.With("component", "ingestion")

	return p, nil
}

// Split cuts text into chunks without embedding them.
func (p *Pipeline) Split(text string) ([]string, error) {
	return p.splitter.Split(text)
}

// EmbedDocument splits text and embeds every chunk.
func (p *Pipeline) EmbedDocument(ctx context.Context, text string) ([]Chunk, error) {
	texts, err := p.splitter.Split(text)
	if err != nil {
		return nil, err
	}
	vectors, err := p.EmbedChunks(ctx, texts)
	if err != nil {
		return nil, err
	}
	chunks := make([]Chunk, len(texts))
	for i := range texts {
		chunks[i] = Chunk{Index: i, Text: texts[i], Vector: vectors[i]}
	}
	return chunks, nil
}

// EmbedChunks embeds texts in batches on the worker pool. The i-th vector
// belongs to the i-th text. The first failing batch cancels the rest.
func (p *Pipeline) EmbedChunks(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	if len(texts) == 0 {
		return vectors, nil
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	fail := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
		cancel(err)
	}

	batches := 0
	for start := 0; start < len(texts); start += p.batchSize {
		end := min(start+p.batchSize, len(texts))
		batches++
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			if err := p.embedBatch(ctx, texts[start:end], vectors[start:end]); err != nil {
				fail(fmt.Errorf("chunks %d-%d: %w", start, end-1, err))
			}
		})
		if err != nil {
			wg.Done()
			fail(err)
			break
		}
	}
	wg.Wait()

	if len(errs) > 0 {
		p.logger.Error("embedding failed", "chunks", len(texts), "batches", batches, "err", errs[0])
		return nil, errors.Join(errs...)
	}
	if err := context.Cause(ctx); err != nil {
		return nil, err
	}
	p.logger.Debug("embedded chunks", "chunks", len(texts), "batches", batches)
	return vectors, nil
}

// embedBatch writes the vectors for texts into out, which has the same
// length.
func (p *Pipeline) embedBatch(ctx context.Context, texts []string, out [][]float32) error {
	var embeddings [][]float32
	err := retryWithBackoff(ctx, p.logger, func() error {
		var err error
		embeddings, err = p.embedder.EmbedTexts(ctx, texts)
		if err == nil && len(embeddings) != len(texts) {
			err = fmt.Errorf("%w: expected %d, received %d", ErrEmbeddingMismatch, len(texts), len(embeddings))
		}
		return err
	}, p.maxAttempts, p.retryBaseDelay)
	if err != nil {
		return err
	}

	copy(out, embeddings)
	if p.progress != nil {
		p.progress.Increment(len(texts))
	}
	return nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
