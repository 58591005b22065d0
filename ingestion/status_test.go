package ingestion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/poiesic/connectors/ai"
	"github.com/poiesic/connectors/ai/openai"
	"github.com/poiesic/connectors/connector"
	"github.com/poiesic/connectors/core"
	"github.com/poiesic/connectors/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingOpenAI answers every request with status and counts the requests.
func failingOpenAI(t *testing.T, status int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error": {"message": "nope", "type": "invalid_request_error"}}`))
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func TestEmbedChunks_ProviderStatusRetries(t *testing.T) {
	tests := []struct {
		status   int
		requests int32
	}{
		{http.StatusUnauthorized, 1},
		{http.StatusBadRequest, 1},
		{http.StatusTooManyRequests, 3},
		{http.StatusServiceUnavailable, 3},
	}

	conn, err := connector.NewBuilder(core.ProviderOpenAI).
		APIKey("sk-bad").
		Models(core.ModelDescriptor{Name: "text-embedding-ada-002"}).
		Header(connector.HeaderAuthorization, "Bearer sk-bad").
		Build()
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server, calls := failingOpenAI(t, tt.status)
			config := ai.NewConfig(ai.WithBaseURL(server.URL))

			embedder, err := openai.NewEmbedder(conn, config)
			require.NoError(t, err)
			p, err := NewPipeline(embedder, config, WithPoolSize(1), WithRetry(3, time.Millisecond))
			require.NoError(t, err)
			defer p.Release()

			_, err = p.EmbedChunks(context.Background(), []string{"hello"})
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrUnexpectedStatus)
			assert.Equal(t, tt.status, transport.StatusCode(err))
			assert.Equal(t, tt.requests, calls.Load())
		})
	}
}
