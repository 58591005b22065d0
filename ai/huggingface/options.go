package huggingface

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/poiesic/connectors/connector"
	"github.com/poiesic/connectors/core"
	"github.com/poiesic/connectors/transport"
)

// Option configures the HuggingFace services.
type Option func(*options)

type options struct {
	httpClient *http.Client
	transport  transport.Config
	model      string
	logger     *slog.Logger
}

// WithHTTPClient sets the HTTP client used by the embedder.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithTransportConfig sets the timeout and rate limit of outbound calls.
func WithTransportConfig(cfg transport.Config) Option {
	return func(o *options) {
		o.transport = cfg
	}
}

// WithModel overrides Config.HubEmbeddingModel for the embedder.
func WithModel(model string) Option {
	return func(o *options) {
		o.model = model
	}
}

// WithLogger sets the logger; each service adds its component name.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func resolveOptions(opts []Option) (options, error) {
	o := options{
		transport: transport.DefaultConfig(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		client, err := transport.HTTPClient(o.transport)
		if err != nil {
			return o, err
		}
		o.httpClient = client
	}
	return o, nil
}

func checkConnector(conn *connector.Connector) error {
	if conn == nil {
		return fmt.Errorf("%w: connector is required", core.ErrInvalidConfig)
	}
	if conn.Provider() != core.ProviderHuggingFace {
		return fmt.Errorf("%w: %s connector cannot reach HuggingFace", core.ErrInvalidConfig, conn.Provider())
	}
	return nil
}
