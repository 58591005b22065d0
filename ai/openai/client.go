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
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/poiesic/connectors/ai"
	"github.com/poiesic/connectors/connector"
	"github.com/poiesic/connectors/core"
	"github.com/poiesic/connectors/transport"
	"github.com/tmc/langchaingo/llms/openai"
)

// Option configures the OpenAI services.
type Option func(*options)

type options struct {
	httpClient *http.Client
	transport  transport.Config
	endpoint   string
	logger     *slog.Logger
}

// WithHTTPClient sets the HTTP client used by the langchaingo-backed
// services. The default is built from the transport config.
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

// WithEndpoint overrides the embeddings URL used by RESTEmbedder.
func WithEndpoint(url string) Option {
	return func(o *options) {
		o.endpoint = url
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

// checkConnector accepts connectors for the OpenAI API.
func checkConnector(conn *connector.Connector) error {
	if conn == nil {
		return fmt.Errorf("%w: connector is required", core.ErrInvalidConfig)
	}
	switch conn.Provider() {
	case core.ProviderOpenAI, core.ProviderOpenAIService:
		return nil
	}
	return fmt.Errorf("%w: %s connector cannot reach OpenAI", core.ErrInvalidConfig, conn.Provider())
}

// newLLM creates the langchaingo client authenticated with the connector's
// key and organization.
func newLLM(conn *connector.Connector, config *ai.Config, o options) (*openai.LLM, error) {
	llmOpts := []openai.Option{
		openai.WithToken(conn.APIKey()),
		openai.WithBaseURL(config.BaseURL),
		openai.WithModel(config.ChatModel),
		openai.WithEmbeddingModel(config.EmbeddingModel),
		openai.WithHTTPClient(o.httpClient),
	}
	if org := conn.OrganizationID(); org != "" {
		llmOpts = append(llmOpts, openai.WithOrganization(org))
	}
	return openai.New(llmOpts...)
}

// wrapError maps langchaingo failures onto the core error taxonomy.
func wrapError(op string, err error) error {
	switch {
	case errors.Is(err, openai.ErrEmptyResponse), strings.Contains(err.Error(), "empty response"):
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

func requireText(text string) error {
	if strings.TrimSpace(text) == "" {
		return core.ErrEmptyMessage
	}
	return nil
}

func contextErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", core.ErrTransport, err)
	}
	return nil
}
