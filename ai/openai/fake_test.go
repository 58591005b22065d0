package openai

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/poiesic/connectors/ai"
	"github.com/poiesic/connectors/connector"
	"github.com/poiesic/connectors/core"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Path   string
	Header http.Header
	Body   []byte
}

// fakeAPI serves canned responses per path and records every request.
type fakeAPI struct {
	mu        sync.Mutex
	requests  []recordedRequest
	responses map[string]fakeResponse
	server    *httptest.Server
}

type fakeResponse struct {
	status int
	body   string
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{responses: make(map[string]fakeResponse)}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests = append(f.requests, recordedRequest{Path: r.URL.Path, Header: r.Header.Clone(), Body: body})
		resp, ok := f.responses[r.URL.Path]
		f.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.status)
		_, _ = w.Write([]byte(resp.body))
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeAPI) respond(path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[path] = fakeResponse{status: status, body: body}
}

func (f *fakeAPI) last(t *testing.T) recordedRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests, "no request recorded")
	return f.requests[len(f.requests)-1]
}

func (f *fakeAPI) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeAPI) config() *ai.Config {
	return ai.NewConfig(ai.WithBaseURL(f.server.URL))
}

func testConnector(t *testing.T) *connector.Connector {
	t.Helper()
	c, err := connector.NewBuilder(core.ProviderOpenAI).
		APIKey("sk-test").
		OrganizationID("org-1").
		Models(core.ModelDescriptor{Name: "gpt-4"}, core.ModelDescriptor{Name: "text-embedding-ada-002", DimSize: 3}).
		Header(connector.HeaderAuthorization, "Bearer sk-test").
		Header(connector.HeaderOrganization, "org-1").
		Build()
	require.NoError(t, err)
	return c
}

const embeddingResponse = `{
  "object": "list",
  "data": [{"object": "embedding", "index": 0, "embedding": [0.1, 0.2, 0.3]}],
  "model": "text-embedding-ada-002"
}`

const chatResponse = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "choices": [{"index": 0, "message": {"role": "assistant", "content": "hello there"}, "finish_reason": "stop"}],
  "usage": {"prompt_tokens": 3, "completion_tokens": 2, "total_tokens": 5}
}`
