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


package openai

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/poiesic/connectors/ai"
	"github.com/poiesic/connectors/connector"
	"github.com/poiesic/connectors/core"
	"github.com/tmc/langchaingo/embeddings"
)

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
type Embedder struct {
	embedder embeddings.Embedder
	model    string
	logger   *slog.Logger
}

func newEmbedder(conn *connector.Connector, config *ai.Config, o options) (*Embedder, error) {
	if err := checkConnector(conn); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	logger := o.logger.With("component", "openai-embedder")
	if !conn.SupportsModel(config.EmbeddingModel) {
		logger.Warn("embedding model not listed for connector", "model", config.EmbeddingModel, "available", conn.ModelNames())
	}

	client, err := newLLM(conn, config, o)
	if err != nil {
		return nil, err
	}

	// Wrap in langchaingo embedder
	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder: embedder,
		model:    config.EmbeddingModel,
		logger:   logger,
	}, nil
}

// NewEmbedder creates an embedder authenticated by conn.
func NewEmbedder(conn *connector.Connector, config *ai.Config, opts ...Option) (ai.Embedder, error) {
	o, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	return newEmbedder(conn, config, o)
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if err := requireText(text); err != nil {
		return nil, err
	}
	e.logger.Debug("generating embedding for single text", "length", len(text), "model", e.model)

	vectors, err := e.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		e.logger.Error("failed to generate embedding", "err", err)
		return nil, wrapError("embed text", err)
	}

	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: embedding", core.ErrMissingField)
	}

	return vectors[0], nil
}

// EmbedTexts generates vector embeddings for multiple text strings in a batch.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	for _, text := range texts {
		if err := requireText(text); err != nil {
			return nil, err
		}
	}
	e.logger.Debug("generating embeddings for texts", "count", len(texts), "model", e.model)

	// The langchaingo embedder rewrites newlines in place.
	vectors, err := e.embedder.EmbedDocuments(ctx, slices.Clone(texts))
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, wrapError("embed texts", err)
	}

	return vectors, nil
}
