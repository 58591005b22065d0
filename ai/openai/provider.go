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
	"log/slog"

	"github.com/poiesic/connectors/ai"
	"github.com/poiesic/connectors/connector"
)

// Provider implements ai.AIProvider using OpenAI-compatible services.
// It manages embedder and prompter instances.
type Provider struct {
	config   *ai.Config
	embedder *Embedder
	prompter *Prompter
	logger   *slog.Logger
}

// NewProvider creates a new AI provider authenticated by conn.
// The config is validated and normalized before use.
//
// Returns ai.AIProvider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(conn *connector.Connector, config *ai.Config, opts ...Option) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	o, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}

	// Create embedder (using internal constructor for concrete type)
	embedder, err := newEmbedder(conn, config, o)
	if err != nil {
		return nil, err
	}

	// Create prompter (using internal constructor for concrete type)
	prompter, err := newPrompter(conn, config, o)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:   config,
		embedder: embedder,
		prompter: prompter,
		logger:   o.logger.With("component", "openai-provider"),
	}, nil
}

// Embedder returns the embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Prompter returns the chat service.
func (p *Provider) Prompter() ai.Prompter {
	return p.prompter
}

// Close releases resources held by the provider.
// The langchaingo clients hold no resources that need explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
