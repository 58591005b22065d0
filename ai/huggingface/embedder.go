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


package huggingface

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/poiesic/connectors/ai"
	"github.com/poiesic/connectors/connector"
	"github.com/poiesic/connectors/core"
	"github.com/poiesic/connectors/transport"
	hfembeddings "github.com/tmc/langchaingo/embeddings/huggingface"
	"github.com/tmc/langchaingo/llms/huggingface"
)

// Embedder implements ai.Embedder using the HuggingFace inference API.
type Embedder struct {
	embedder *hfembeddings.Huggingface
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

	model := config.HubEmbeddingModel
	if o.model != "" {
		model = o.model
	}
	if !conn.SupportsModel(model) {
		return nil, fmt.Errorf("%w: %s (available: %s)", core.ErrUnsupportedModel, model, strings.Join(conn.ModelNames(), ", "))
	}

	client, err := huggingface.New(
		huggingface.WithToken(conn.APIKey()),
		huggingface.WithModel(model),
		huggingface.WithURL(config.InferenceURL),
		huggingface.WithHTTPClient(o.httpClient),
	)
	if err != nil {
		return nil, err
	}

	embedder, err := hfembeddings.NewHuggingface(
		hfembeddings.WithClient(*client),
		hfembeddings.WithModel(model),
		hfembeddings.WithStripNewLines(true),
	)
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder: embedder,
		model:    model,
		logger:   o.logger.With("component", "huggingface-embedder"),
	}, nil
}

// NewEmbedder creates an embedder for Config.HubEmbeddingModel, or the model
// given with WithModel.
func NewEmbedder(conn *connector.Connector, config *ai.Config, opts ...Option) (ai.Embedder, error) {
	o, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	return newEmbedder(conn, config, o)
}

// EmbedText generates a vector embedding for a single text string.
// Newlines are replaced with spaces before the call.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, core.ErrEmptyMessage
	}
	e.logger.Debug("generating embedding for single text", "length", len(text), "model", e.model)

	vector, err := e.embedder.EmbedQuery(ctx, text)
	if err != nil {
		e.logger.Error("failed to generate embedding", "err", err)
		return nil, wrapError("embed text", err)
	}
	return vector, nil
}

// EmbedTexts generates vector embeddings for multiple texts, batched by
// the langchaingo embedder.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	for _, text := range texts {
		if strings.TrimSpace(text) == "" {
			return nil, core.ErrEmptyMessage
		}
	}
	e.logger.Debug("generating embeddings for texts", "count", len(texts), "model", e.model)

	vectors, err := e.embedder.EmbedDocuments(ctx, slices.Clone(texts))
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, wrapError("embed texts", err)
	}
	return vectors, nil
}

func wrapError(op string, err error) error {
	switch {
	case errors.Is(err, huggingface.ErrEmptyResponse),
		errors.Is(err, huggingface.ErrUnexpectedResponseLength),
		strings.Contains(err.Error(), "empty response"):
		return fmt.Errorf("%w: %s: %w", core.ErrMissingField, op, err)
	case strings.Contains(err.Error(), "unexpected status code"):
		if se, ok := transport.StatusFromMessage(err); ok {
			return fmt.Errorf("%w: %s: %w", se, op, err)
		}
		return fmt.Errorf("%w: %s: %w", core.ErrUnexpectedStatus, op, err)
	default:
		return fmt.Errorf("%w: %s: %w", core.ErrTransport, op, err)
	}
}
