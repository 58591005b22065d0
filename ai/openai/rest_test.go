package openai

import (
	"context"
	"net/http"
	"testing"

	"github.com/poiesic/connectors/ai"
	"github.com/poiesic/connectors/connector"
	"github.com/poiesic/connectors/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func serviceConnector(t *testing.T) *connector.Connector {
	t.Helper()
	c, err := connector.NewBuilder(core.ProviderOpenAIService).
		APIKey("sk-svc").
		OrganizationID("org-svc").
		Header(connector.HeaderAuthorization, "Bearer sk-svc").
		Header(connector.HeaderOrganization, "org-svc").
		Build()
	require.NoError(t, err)
	return c
}

func TestRESTEmbedderEmbedding(t *testing.T) {
	api := newFakeAPI(t)
	api.respond("/v1/embeddings", http.StatusOK, embeddingResponse)

	embedder, err := NewRESTEmbedder(serviceConnector(t), api.config())
	require.NoError(t, err)

	vector, err := embedder.Embedding(context.Background(), "some text")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vector)

	req := api.last(t)
	assert.Equal(t, "Bearer sk-svc", req.Header.Get("Authorization"))
	assert.Equal(t, "org-svc", req.Header.Get("OpenAI-Organization"))
	assert.Equal(t, "some text", gjson.GetBytes(req.Body, "input").String())
	assert.Equal(t, "text-embedding-ada-002", gjson.GetBytes(req.Body, "model").String())
}

func TestRESTEmbedderEmbeddingData(t *testing.T) {
	api := newFakeAPI(t)
	api.respond("/v1/embeddings", http.StatusOK, embeddingResponse)

	embedder, err := NewRESTEmbedder(serviceConnector(t), api.config())
	require.NoError(t, err)

	data, err := embedder.EmbeddingData(context.Background(), "some text")
	require.NoError(t, err)
	require.Len(t, data, 1)
	assert.Equal(t, EmbeddingData{Object: "embedding", Index: 0, Embedding: []float32{0.1, 0.2, 0.3}}, data[0])
}

func TestRESTEmbedderCustomEndpoint(t *testing.T) {
	api := newFakeAPI(t)
	api.respond("/custom/embed", http.StatusOK, embeddingResponse)

	embedder, err := NewRESTEmbedder(serviceConnector(t), ai.DefaultConfig(),
		WithEndpoint(api.server.URL+"/custom/embed"))
	require.NoError(t, err)

	_, err = embedder.EmbedText(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "/custom/embed", api.last(t).Path)
}

func TestRESTEmbedderEmbedTextsOrdersByIndex(t *testing.T) {
	api := newFakeAPI(t)
	api.respond("/v1/embeddings", http.StatusOK, `{"data": [
		{"index": 1, "embedding": [2, 2]},
		{"index": 0, "embedding": [1, 1]}
	]}`)

	embedder, err := NewRESTEmbedder(serviceConnector(t), api.config())
	require.NoError(t, err)

	vectors, err := embedder.EmbedTexts(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 1}, {2, 2}}, vectors)
	assert.Equal(t, []string{"a", "b"}, []string{
		gjson.GetBytes(api.last(t).Body, "input.0").String(),
		gjson.GetBytes(api.last(t).Body, "input.1").String(),
	})
}

func TestRESTEmbedderErrors(t *testing.T) {
	api := newFakeAPI(t)
	embedder, err := NewRESTEmbedder(serviceConnector(t), api.config())
	require.NoError(t, err)
	ctx := context.Background()

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"missing data", http.StatusOK, `{"object": "list"}`, core.ErrMissingField},
		{"empty data", http.StatusOK, `{"data": []}`, core.ErrMissingField},
		{"missing embedding", http.StatusOK, `{"data": [{"index": 0}]}`, core.ErrMissingField},
		{"not json", http.StatusOK, `<html>`, core.ErrMissingField},
		{"server error", http.StatusInternalServerError, `{"error": "boom"}`, core.ErrUnexpectedStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api.respond("/v1/embeddings", tt.status, tt.body)
			_, err := embedder.Embedding(ctx, "x")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("count mismatch", func(t *testing.T) {
		api.respond("/v1/embeddings", http.StatusOK, embeddingResponse)
		_, err := embedder.EmbedTexts(ctx, []string{"a", "b"})
		assert.ErrorIs(t, err, core.ErrMissingField)
	})

	t.Run("empty text", func(t *testing.T) {
		_, err := embedder.Embedding(ctx, "")
		assert.ErrorIs(t, err, core.ErrEmptyMessage)
	})

	t.Run("transport failure", func(t *testing.T) {
		down, err := NewRESTEmbedder(serviceConnector(t), ai.DefaultConfig(), WithEndpoint("http://127.0.0.1:1/embeddings"))
		require.NoError(t, err)
		_, err = down.Embedding(ctx, "x")
		assert.ErrorIs(t, err, core.ErrTransport)
	})
}

func TestProvider(t *testing.T) {
	api := newFakeAPI(t)
	api.respond("/v1/embeddings", http.StatusOK, embeddingResponse)
	api.respond("/v1/chat/completions", http.StatusOK, chatResponse)

	provider, err := NewProvider(testConnector(t), api.config())
	require.NoError(t, err)
	defer provider.Close()

	vector, err := provider.Embedder().EmbedText(context.Background(), "x")
	require.NoError(t, err)
	assert.Len(t, vector, 3)

	answer, err := provider.Prompter().Prompt(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "hello there", answer)
	assert.NoError(t, provider.Close())
}
