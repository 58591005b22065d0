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


package connector

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/poiesic/connectors/core"
)

// Factory builds the connector for a registry slot.
type Factory func() (*Connector, error)

// Registry holds at most one Connector per provider.
//
// It is safe for concurrent use. Concurrent first calls for the same
// provider run the factory once; the others wait and receive its result.
type Registry struct {
	mu     sync.Mutex
	slots  map[core.Provider]*slot
	logger *slog.Logger
}

type slot struct {
	mu        sync.Mutex
	connector *Connector
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryLogger sets the registry logger.
func WithRegistryLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		slots:  make(map[core.Provider]*slot),
		logger: slog.Default().With("component", "connector-registry"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetOrCreate returns the connector stored for provider, running factory
// only when the slot is empty. Once a slot is filled, factory is ignored.
// A factory error leaves the slot empty so a later call may retry.
func (r *Registry) GetOrCreate(provider core.Provider, factory Factory) (*Connector, error) {
	s := r.slot(provider)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connector != nil {
		return s.connector, nil
	}

	c, err := factory()
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: factory for %s returned no connector", core.ErrInvalidConfig, provider)
	}
	if c.Provider() != provider {
		return nil, fmt.Errorf("%w: factory for %s built a %s connector", core.ErrInvalidConfig, provider, c.Provider())
	}

	s.connector = c
	r.logger.Debug("connector registered", "connector", c)
	return c, nil
}

// Get returns the connector stored for provider, if any.
func (r *Registry) Get(provider core.Provider) (*Connector, bool) {
	r.mu.Lock()
	s, ok := r.slots[provider]
	r.mu.Unlock()
	if !ok {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connector, s.connector != nil
}

// Providers returns the providers with a stored connector, sorted.
func (r *Registry) Providers() []core.Provider {
	r.mu.Lock()
	candidates := make([]core.Provider, 0, len(r.slots))
	for p := range r.slots {
		candidates = append(candidates, p)
	}
	r.mu.Unlock()

	var out []core.Provider
	for _, p := range candidates {
		if _, ok := r.Get(p); ok {
			out = append(out, p)
		}
	}
	slices.Sort(out)
	return out
}

// OpenAI returns the registry's OpenAI connector, reading path on first use.
func (r *Registry) OpenAI(path string, opts ...Option) (*Connector, error) {
	return r.GetOrCreate(core.ProviderOpenAI, func() (*Connector, error) {
		return NewOpenAI(path, opts...)
	})
}

// HuggingFace returns the registry's HuggingFace connector, reading path on
// first use.
func (r *Registry) HuggingFace(path string, opts ...Option) (*Connector, error) {
	return r.GetOrCreate(core.ProviderHuggingFace, func() (*Connector, error) {
		return NewHuggingFace(path, opts...)
	})
}

// OpenAIService returns the registry's embedding service connector.
func (r *Registry) OpenAIService(path string, opts ...Option) (*Connector, error) {
	return r.GetOrCreate(core.ProviderOpenAIService, func() (*Connector, error) {
		return NewOpenAIService(path, opts...)
	})
}

// RenderForm returns the registry's RenderForm connector.
func (r *Registry) RenderForm(path string, opts ...Option) (*Connector, error) {
	return r.GetOrCreate(core.ProviderRenderForm, func() (*Connector, error) {
		return NewRenderForm(path, opts...)
	})
}

func (r *Registry) slot(provider core.Provider) *slot {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[provider]
	if !ok {
		s = &slot{}
		r.slots[provider] = s
	}
	return s
}
