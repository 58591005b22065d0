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
	"sort"

	"github.com/go-resty/resty/v2"
	"github.com/poiesic/connectors/ai"
	"github.com/poiesic/connectors/connector"
	"github.com/poiesic/connectors/core"
	"github.com/poiesic/connectors/transport"
	"github.com/tidwall/gjson"
)

// EmbeddingData is one entry of the "data" array of an embeddings response.
type EmbeddingData struct {
	Object    string
	Index     int
	Embedding []float32
}

// RESTEmbedder calls the embeddings endpoint directly with the connector's
// headers. It serves the standalone embedding service credentials and
// exposes the full response data in addition to the vectors.
type RESTEmbedder struct {
	client   *resty.Client
	endpoint string
	model    string
	logger   *slog.Logger
}

var _ ai.Embedder = (*RESTEmbedder)(nil)

// NewRESTEmbedder creates an embedder that POSTs to {BaseURL}/embeddings
// unless WithEndpoint sets another URL.
func NewRESTEmbedder(conn *connector.Connector, config *ai.Config, opts ...Option) (*RESTEmbedder, error) {
	if err := checkConnector(conn); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	o, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}

	logger := o.logger.With("component", "openai-rest-embedder")
	client, err := transport.New(o.transport,
		transport.WithHeaders(conn.Headers()),
		transport.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	endpoint := o.endpoint
	if endpoint == "" {
		endpoint = config.BaseURL + "/embeddings"
	}

	return &RESTEmbedder{
		client:   client,
		endpoint: endpoint,
		model:    config.EmbeddingModel,
		logger:   logger,
	}, nil
}

// Embedding returns the first embedding for text.
func (e *RESTEmbedder) Embedding(ctx context.Context, text string) ([]float32, error) {
	data, err := e.EmbeddingData(ctx, text)
	if err != nil {
		return nil, err
	}
	return data[0].Embedding, nil
}

// EmbeddingData returns the whole "data" array of the response for text.
func (e *RESTEmbedder) EmbeddingData(ctx context.Context, text string) ([]EmbeddingData, error) {
	if err := requireText(text); err != nil {
		return nil, err
	}
	return e.post(ctx, text)
}

// EmbedText is Embedding under the ai.Embedder name.
func (e *RESTEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	return e.Embedding(ctx, text)
}

// EmbedTexts sends all texts in one request and returns the vectors in
// input order.
func (e *RESTEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	for _, text := range texts {
		if err := requireText(text); err != nil {
			return nil, err
		}
	}

	data, err := e.post(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(data) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d embeddings, got %d", core.ErrMissingField, len(texts), len(data))
	}

	sort.SliceStable(data, func(i, j int) bool { return data[i].Index < data[j].Index })
	vectors := make([][]float32, len(data))
	for i, d := range data {
		vectors[i] = d.Embedding
	}
	return vectors, nil
}

// post sends input, a string or a list of strings, and parses "data".
func (e *RESTEmbedder) post(ctx context.Context, input any) ([]EmbeddingData, error) {
	e.logger.Debug("requesting embeddings", "endpoint", e.endpoint, "model", e.model)

	resp, err := e.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"input": input,
			"model": e.model,
		}).
		Post(e.endpoint)
	if err := transport.CheckResponse(resp, err); err != nil {
		e.logger.Error("embedding request failed", "err", err)
		return nil, err
	}

	return parseEmbeddingData(resp.Body())
}

func parseEmbeddingData(body []byte) ([]EmbeddingData, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: response is not valid JSON", core.ErrMissingField)
	}
	data := gjson.GetBytes(body, "data")
	if !data.IsArray() || len(data.Array()) == 0 {
		return nil, fmt.Errorf("%w: data", core.ErrMissingField)
	}

	var (
		out      []EmbeddingData
		parseErr error
	)
	data.ForEach(func(key, entry gjson.Result) bool {
		embedding := entry.Get("embedding")
		if !embedding.IsArray() {
			parseErr = fmt.Errorf("%w: data.%d.embedding", core.ErrMissingField, key.Int())
			return false
		}
		values := embedding.Array()
		vector := make([]float32, len(values))
		for i, v := range values {
			vector[i] = float32(v.Float())
		}
		index := int(key.Int())
		if idx := entry.Get("index"); idx.Exists() {
			index = int(idx.Int())
		}
		out = append(out, EmbeddingData{
			Object:    entry.Get("object").String(),
			Index:     index,
			Embedding: vector,
		})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return out, nil
}
