package huggingface

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/poiesic/connectors/ai"
	"github.com/poiesic/connectors/connector"
	"github.com/poiesic/connectors/core"
	"github.com/poiesic/connectors/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type fakeHub struct {
	mu       sync.Mutex
	paths    []string
	auth     []string
	bodies   [][]byte
	handlers map[string]func(w http.ResponseWriter, r *http.Request)
	server   *httptest.Server
}

func newFakeHub(t *testing.T) *fakeHub {
	t.Helper()
	f := &fakeHub{handlers: make(map[string]func(http.ResponseWriter, *http.Request))}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.paths = append(f.paths, r.URL.Path)
		f.auth = append(f.auth, r.Header.Get("Authorization"))
		f.bodies = append(f.bodies, body)
		h, ok := f.handlers[r.URL.Path]
		f.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeHub) handle(path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[path] = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func (f *fakeHub) authHeaders() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.auth...)
}

func (f *fakeHub) config() *ai.Config {
	return ai.NewConfig(ai.WithHubURL(f.server.URL), ai.WithInferenceURL(f.server.URL))
}

func hfConnector(t *testing.T, models ...string) *connector.Connector {
	t.Helper()
	b := connector.NewBuilder(core.ProviderHuggingFace).
		APIKey("tok123").
		Header(connector.HeaderAuthorization, "Bearer tok123")
	for _, m := range models {
		b.Models(core.ModelDescriptor{Name: m})
	}
	c, err := b.Build()
	require.NoError(t, err)
	return c
}

func TestHubWhoami(t *testing.T) {
	hub := newFakeHub(t)
	hub.handle("/api/whoami-v2", http.StatusOK, `{
		"type": "user", "name": "ada", "fullname": "Ada Lovelace",
		"orgs": [{"name": "analytical-engines"}]
	}`)

	client, err := NewHub(hfConnector(t), hub.config())
	require.NoError(t, err)

	account, err := client.Whoami(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &Account{
		Name:     "ada",
		FullName: "Ada Lovelace",
		Type:     "user",
		Orgs:     []string{"analytical-engines"},
	}, account)
	assert.Equal(t, []string{"Bearer tok123"}, hub.authHeaders())
}

func TestHubWhoamiErrors(t *testing.T) {
	hub := newFakeHub(t)
	client, err := NewHub(hfConnector(t), hub.config())
	require.NoError(t, err)

	hub.handle("/api/whoami-v2", http.StatusUnauthorized, `{"error": "Invalid credentials"}`)
	_, err = client.Whoami(context.Background())
	assert.ErrorIs(t, err, core.ErrUnexpectedStatus)

	hub.handle("/api/whoami-v2", http.StatusOK, `{"type": "user"}`)
	_, err = client.Whoami(context.Background())
	assert.ErrorIs(t, err, core.ErrMissingField)

	hub.handle("/api/whoami-v2", http.StatusOK, `not json`)
	_, err = client.Whoami(context.Background())
	assert.ErrorIs(t, err, core.ErrMissingField)
}

func TestHubModelInfo(t *testing.T) {
	hub := newFakeHub(t)
	hub.handle("/api/models/sentence-transformers/all-MiniLM-L6-v2", http.StatusOK, `{
		"id": "sentence-transformers/all-MiniLM-L6-v2",
		"author": "sentence-transformers",
		"pipeline_tag": "sentence-similarity",
		"library_name": "sentence-transformers",
		"tags": ["pytorch", "bert"],
		"downloads": 1000,
		"likes": 42,
		"private": false
	}`)

	client, err := NewHub(hfConnector(t), hub.config())
	require.NoError(t, err)

	info, err := client.ModelInfo(context.Background(), "sentence-transformers/all-MiniLM-L6-v2")
	require.NoError(t, err)
	assert.Equal(t, "sentence-transformers/all-MiniLM-L6-v2", info.ID)
	assert.Equal(t, "sentence-similarity", info.PipelineTag)
	assert.Equal(t, []string{"pytorch", "bert"}, info.Tags)
	assert.Equal(t, int64(42), info.Likes)

	_, err = client.ModelInfo(context.Background(), " ")
	assert.ErrorIs(t, err, core.ErrEmptyMessage)

	_, err = client.ModelInfo(context.Background(), "missing/model")
	assert.ErrorIs(t, err, core.ErrUnexpectedStatus)
}

func TestHubRejectsForeignConnector(t *testing.T) {
	oa, err := connector.NewBuilder(core.ProviderOpenAI).APIKey("sk").Build()
	require.NoError(t, err)

	_, err = NewHub(oa, ai.DefaultConfig())
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
	_, err = NewEmbedder(oa, ai.DefaultConfig())
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestEmbedder(t *testing.T) {
	hub := newFakeHub(t)
	hub.handle("/models/sentence-transformers/all-MiniLM-L6-v2", http.StatusOK, `[[0.5, 0.25]]`)

	embedder, err := NewEmbedder(hfConnector(t), hub.config())
	require.NoError(t, err)

	vector, err := embedder.EmbedText(context.Background(), "hello\nthere")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.25}, vector)

	hub.mu.Lock()
	defer hub.mu.Unlock()
	require.Len(t, hub.bodies, 1)
	assert.Equal(t, "Bearer tok123", hub.auth[0])
	assert.Equal(t, "hello there", gjson.GetBytes(hub.bodies[0], "inputs.0").String())
}

func TestEmbedderBatch(t *testing.T) {
	hub := newFakeHub(t)
	hub.handle("/models/BAAI/bge-small-en-v1.5", http.StatusOK, `[[1], [2], [3]]`)

	embedder, err := NewEmbedder(hfConnector(t), hub.config(), WithModel("BAAI/bge-small-en-v1.5"))
	require.NoError(t, err)

	vectors, err := embedder.EmbedTexts(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1}, {2}, {3}}, vectors)

	_, err = embedder.EmbedTexts(context.Background(), []string{"a", ""})
	assert.ErrorIs(t, err, core.ErrEmptyMessage)
}

func TestEmbedderSupportedModels(t *testing.T) {
	conn := hfConnector(t, "BAAI/bge-small-en-v1.5")

	_, err := NewEmbedder(conn, ai.DefaultConfig())
	assert.ErrorIs(t, err, core.ErrUnsupportedModel)

	_, err = NewEmbedder(conn, ai.DefaultConfig(), WithModel("BAAI/bge-small-en-v1.5"))
	assert.NoError(t, err)
}

func TestEmbedderErrors(t *testing.T) {
	hub := newFakeHub(t)
	embedder, err := NewEmbedder(hfConnector(t), hub.config())
	require.NoError(t, err)

	_, err = embedder.EmbedText(context.Background(), "")
	assert.ErrorIs(t, err, core.ErrEmptyMessage)

	hub.handle("/models/sentence-transformers/all-MiniLM-L6-v2", http.StatusServiceUnavailable, `{"error": "loading"}`)
	_, err = embedder.EmbedText(context.Background(), "x")
	assert.ErrorIs(t, err, core.ErrUnexpectedStatus)
	assert.Equal(t, http.StatusServiceUnavailable, transport.StatusCode(err))

	hub.handle("/models/sentence-transformers/all-MiniLM-L6-v2", http.StatusOK, `[]`)
	_, err = embedder.EmbedTexts(context.Background(), []string{"x"})
	assert.ErrorIs(t, err, core.ErrMissingField)
}
