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


// Package connectors wires credential-gated connectors to the service
// clients that use them.
//
// Services is the composition root: it owns one connector.Registry, so every
// provider's connector is read from disk once, plus the shared AI, render and
// transport configuration and an optional embedding cache. Nothing here exits
// the process; errors are returned to the caller.
package connectors

import (
	"errors"
	"log/slog"

	"github.com/poiesic/connectors/ai"
	"github.com/poiesic/connectors/ai/huggingface"
	"github.com/poiesic/connectors/ai/openai"
	"github.com/poiesic/connectors/connector"
	"github.com/poiesic/connectors/ingestion"
	"github.com/poiesic/connectors/render"
	"github.com/poiesic/connectors/storage"
	"github.com/poiesic/connectors/storage/badger"
	"github.com/poiesic/connectors/transport"
)

// Default settings file locations, relative to the working directory or the
// executable.
const (
	DefaultCredentialsPath = "settings/credentials.json"
	DefaultServicePath     = "settings/embedding.json"
	DefaultRenderFormPath  = "settings/renderform.json"
)

// Services builds service clients from lazily loaded connectors.
type Services struct {
	registry        *connector.Registry
	credentials     string
	servicePath     string
	renderFormPath  string
	useOrganization bool
	aiConfig        *ai.Config
	renderConfig    *render.Config
	transport       transport.Config
	backend         *badger.Backend
	cache           storage.EmbeddingCache
	logger          *slog.Logger
}

// Option configures Services.
type Option func(*options)

type options struct {
	credentials     string
	servicePath     string
	renderFormPath  string
	useOrganization bool
	aiConfig        *ai.Config
	renderConfig    *render.Config
	transport       transport.Config
	cacheDir        string
	inMemoryCache   bool
	cacheOpts       []badger.CacheOption
	registry        *connector.Registry
	logger          *slog.Logger
}

// WithCredentials sets the shared OpenAI/HuggingFace credentials file.
func WithCredentials(path string) Option {
	return func(o *options) {
		o.credentials = path
	}
}

// WithServiceSettings sets the flat embedding service settings file.
func WithServiceSettings(path string) Option {
	return func(o *options) {
		o.servicePath = path
	}
}

// WithRenderFormSettings sets the RenderForm settings file.
func WithRenderFormSettings(path string) Option {
	return func(o *options) {
		o.renderFormPath = path
	}
}

// WithOrganization controls whether the OpenAI connector requires and sends
// an organization id. Default true.
func WithOrganization(enabled bool) Option {
	return func(o *options) {
		o.useOrganization = enabled
	}
}

// WithAIConfig sets the model and endpoint configuration.
func WithAIConfig(config *ai.Config) Option {
	return func(o *options) {
		o.aiConfig = config
	}
}

// WithRenderConfig sets the RenderForm endpoint configuration.
func WithRenderConfig(config *render.Config) Option {
	return func(o *options) {
		o.renderConfig = config
	}
}

// WithTransportConfig sets the timeout and rate limit of outbound calls.
func WithTransportConfig(cfg transport.Config) Option {
	return func(o *options) {
		o.transport = cfg
	}
}

// WithCacheDir stores embeddings in a badger database under dir.
func WithCacheDir(dir string, opts ...badger.CacheOption) Option {
	return func(o *options) {
		o.cacheDir = dir
		o.cacheOpts = opts
	}
}

// WithInMemoryCache keeps embeddings in memory for the life of Services.
func WithInMemoryCache(opts ...badger.CacheOption) Option {
	return func(o *options) {
		o.inMemoryCache = true
		o.cacheOpts = opts
	}
}

// WithRegistry shares an existing registry instead of creating one.
func WithRegistry(registry *connector.Registry) Option {
	return func(o *options) {
		o.registry = registry
	}
}

// WithLogger sets the logger handed to every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New validates the configuration and opens the cache, if any. Connectors
// are read on first use.
func New(opts ...Option) (*Services, error) {
	o := options{
		credentials:     DefaultCredentialsPath,
		servicePath:     DefaultServicePath,
		renderFormPath:  DefaultRenderFormPath,
		useOrganization: true,
		aiConfig:        ai.DefaultConfig(),
		renderConfig:    render.DefaultConfig(),
		transport:       transport.DefaultConfig(),
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if err := o.aiConfig.Validate(); err != nil {
		return nil, err
	}
	o.renderConfig.Normalize()
	if err := o.renderConfig.Validate(); err != nil {
		return nil, err
	}
	if err := o.transport.Validate(); err != nil {
		return nil, err
	}
	if o.registry == nil {
		o.registry = connector.NewRegistry(connector.WithRegistryLogger(o.logger))
	}

	s := &Services{
		registry:        o.registry,
		credentials:     o.credentials,
		servicePath:     o.servicePath,
		renderFormPath:  o.renderFormPath,
		useOrganization: o.useOrganization,
		aiConfig:        o.aiConfig,
		renderConfig:    o.renderConfig,
		transport:       o.transport,
		logger:          o.logger,
	}

	if o.cacheDir != "" || o.inMemoryCache {
		backend, err := badger.OpenBackend(o.cacheDir, o.inMemoryCache, badger.WithLogger(o.logger))
		if err != nil {
			return nil, err
		}
		cache, err := badger.NewCache(backend, append([]badger.CacheOption{badger.WithCacheLogger(o.logger)}, o.cacheOpts...)...)
		if err != nil {
			backend.Close()
			return nil, err
		}
		s.backend = backend
		s.cache = cache
	}

	return s, nil
}

// Registry returns the connector registry.
func (s *Services) Registry() *connector.Registry {
	return s.registry
}

// AIConfig returns the model and endpoint configuration.
func (s *Services) AIConfig() *ai.Config {
	return s.aiConfig
}

// Cache returns the embedding cache, or nil when none was configured.
func (s *Services) Cache() storage.EmbeddingCache {
	return s.cache
}

func (s *Services) connectorOpts() []connector.Option {
	return []connector.Option{
		connector.WithOrganization(s.useOrganization),
		connector.WithLogger(s.logger.With("component", "connector")),
	}
}

// OpenAI returns the shared OpenAI connector.
func (s *Services) OpenAI() (*connector.Connector, error) {
	return s.registry.OpenAI(s.credentials, s.connectorOpts()...)
}

// HuggingFace returns the shared HuggingFace connector.
func (s *Services) HuggingFace() (*connector.Connector, error) {
	return s.registry.HuggingFace(s.credentials, s.connectorOpts()...)
}

// OpenAIService returns the shared embedding service connector.
func (s *Services) OpenAIService() (*connector.Connector, error) {
	return s.registry.OpenAIService(s.servicePath, s.connectorOpts()...)
}

// RenderForm returns the shared RenderForm connector.
func (s *Services) RenderForm() (*connector.Connector, error) {
	return s.registry.RenderForm(s.renderFormPath, s.connectorOpts()...)
}

func (s *Services) openAIOpts() []openai.Option {
	return []openai.Option{
		openai.WithTransportConfig(s.transport),
		openai.WithLogger(s.logger),
	}
}

// Provider returns the OpenAI embedder and prompter.
func (s *Services) Provider() (ai.AIProvider, error) {
	conn, err := s.OpenAI()
	if err != nil {
		return nil, err
	}
	return openai.NewProvider(conn, s.aiConfig, s.openAIOpts()...)
}

// Prompter returns the OpenAI chat and vision client.
func (s *Services) Prompter() (ai.Prompter, error) {
	conn, err := s.OpenAI()
	if err != nil {
		return nil, err
	}
	return openai.NewPrompter(conn, s.aiConfig, s.openAIOpts()...)
}

// Embedder returns the OpenAI embedder, served through the cache when one
// is configured.
func (s *Services) Embedder() (ai.Embedder, error) {
	conn, err := s.OpenAI()
	if err != nil {
		return nil, err
	}
	embedder, err := openai.NewEmbedder(conn, s.aiConfig, s.openAIOpts()...)
	if err != nil {
		return nil, err
	}
	return s.cached(embedder, s.aiConfig.EmbeddingModel)
}

// RESTEmbedder returns the embedding service client built from the flat
// service settings file.
func (s *Services) RESTEmbedder() (*openai.RESTEmbedder, error) {
	conn, err := s.OpenAIService()
	if err != nil {
		return nil, err
	}
	return openai.NewRESTEmbedder(conn, s.aiConfig, s.openAIOpts()...)
}

// HubEmbedder returns the HuggingFace embedder for model, or for
// Config.HubEmbeddingModel when model is empty.
func (s *Services) HubEmbedder(model string) (ai.Embedder, error) {
	conn, err := s.HuggingFace()
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = s.aiConfig.HubEmbeddingModel
	}
	embedder, err := huggingface.NewEmbedder(conn, s.aiConfig,
		huggingface.WithModel(model),
		huggingface.WithTransportConfig(s.transport),
		huggingface.WithLogger(s.logger),
	)
	if err != nil {
		return nil, err
	}
	return s.cached(embedder, model)
}

// Hub returns the HuggingFace Hub client.
func (s *Services) Hub() (*huggingface.Hub, error) {
	conn, err := s.HuggingFace()
	if err != nil {
		return nil, err
	}
	return huggingface.NewHub(conn, s.aiConfig,
		huggingface.WithTransportConfig(s.transport),
		huggingface.WithLogger(s.logger),
	)
}

// Render returns the RenderForm client.
func (s *Services) Render() (*render.Client, error) {
	conn, err := s.RenderForm()
	if err != nil {
		return nil, err
	}
	return render.NewClient(conn, s.renderConfig,
		render.WithTransportConfig(s.transport),
		render.WithLogger(s.logger),
	)
}

// Pipeline returns an ingestion pipeline around embedder, split by the
// configured chunk settings.
func (s *Services) Pipeline(embedder ai.Embedder, opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(embedder, s.aiConfig, append([]ingestion.Option{ingestion.WithLogger(s.logger)}, opts...)...)
}

func (s *Services) cached(embedder ai.Embedder, model string) (ai.Embedder, error) {
	if s.cache == nil {
		return embedder, nil
	}
	cachingEmbedder, err := ingestion.NewCachingEmbedder(embedder, s.cache, model, s.logger)
	if err != nil {
		return nil, err
	}
	return cachingEmbedder, nil
}

// Close closes the embedding cache. Connectors hold no resources.
func (s *Services) Close() error {
	if s.cache == nil {
		return nil
	}
	var errs []error
	if err := s.cache.Close(); err != nil {
		s.logger.Error("error closing embedding cache", "err", err)
		errs = append(errs, err)
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing cache backend", "err", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
