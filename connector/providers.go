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
	"log/slog"

	"github.com/poiesic/connectors/core"
	"github.com/poiesic/connectors/settings"
)

// Settings keys.
const (
	rootKey = "connector"

	keyAPIKey         = "api_key"
	keyOrganizationID = "organization_id"
	keyOrganization   = "organization"
	keyModel          = "model"
	keyRenderFormKey  = "x-api-key"
)

// Header names.
const (
	HeaderAuthorization = "Authorization"
	HeaderOrganization  = "OpenAI-Organization"
	HeaderAPIKey        = "x-api-key"
	HeaderAccept        = "accept"
)

// Option configures how a connector is read from its settings file.
type Option func(*options)

type options struct {
	loader          *settings.Loader
	useOrganization bool
	logger          *slog.Logger
}

func defaultOptions() options {
	return options{
		useOrganization: true,
		logger:          slog.Default().With("component", "connector"),
	}
}

// WithLoader sets the settings loader. The default searches next to the
// executable when a relative path is not found.
func WithLoader(loader *settings.Loader) Option {
	return func(o *options) {
		o.loader = loader
	}
}

// WithOrganization controls whether the OpenAI organization id is required
// and sent. Enabled by default.
func WithOrganization(enabled bool) Option {
	return func(o *options) {
		o.useOrganization = enabled
	}
}

// WithLogger sets the logger used during construction.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func resolveOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.loader == nil {
		o.loader = settings.NewLoader(settings.WithLogger(o.logger))
	}
	return o
}

// NewOpenAI reads connector.openai from the settings file at path.
//
// api_key and model are required. organization_id is required unless
// WithOrganization(false) is given.
func NewOpenAI(path string, opts ...Option) (*Connector, error) {
	o := resolveOptions(opts)

	doc, err := o.loader.Load(path)
	if err != nil {
		return nil, err
	}
	section, err := doc.Section(rootKey, string(core.ProviderOpenAI))
	if err != nil {
		return nil, err
	}

	apiKey, err := section.RequiredString(keyAPIKey)
	if err != nil {
		return nil, err
	}
	models, err := section.Models(keyModel, true)
	if err != nil {
		return nil, err
	}

	b := NewBuilder(core.ProviderOpenAI).
		SettingsPath(doc.Path()).
		APIKey(apiKey).
		Models(models...).
		Header(HeaderAuthorization, bearer(apiKey))

	if o.useOrganization {
		org, err := section.RequiredString(keyOrganizationID)
		if err != nil {
			return nil, err
		}
		b.OrganizationID(org).Header(HeaderOrganization, org)
	}

	return build(b, o.logger)
}

// NewHuggingFace reads connector.huggingface from the settings file at path.
// api_key is required; model is optional.
func NewHuggingFace(path string, opts ...Option) (*Connector, error) {
	o := resolveOptions(opts)

	doc, err := o.loader.Load(path)
	if err != nil {
		return nil, err
	}
	section, err := doc.Section(rootKey, string(core.ProviderHuggingFace))
	if err != nil {
		return nil, err
	}

	apiKey, err := section.RequiredString(keyAPIKey)
	if err != nil {
		return nil, err
	}
	models, err := section.Models(keyModel, false)
	if err != nil {
		return nil, err
	}

	b := NewBuilder(core.ProviderHuggingFace).
		SettingsPath(doc.Path()).
		APIKey(apiKey).
		Models(models...).
		Header(HeaderAuthorization, bearer(apiKey))

	return build(b, o.logger)
}

// NewOpenAIService reads the flat {"api_key", "organization"} layout used by
// the standalone embedding service. Both keys are required.
func NewOpenAIService(path string, opts ...Option) (*Connector, error) {
	o := resolveOptions(opts)

	doc, err := o.loader.Load(path)
	if err != nil {
		return nil, err
	}
	root := doc.Root()

	apiKey, err := root.RequiredString(keyAPIKey)
	if err != nil {
		return nil, err
	}
	org, err := root.RequiredString(keyOrganization)
	if err != nil {
		return nil, err
	}

	b := NewBuilder(core.ProviderOpenAIService).
		SettingsPath(doc.Path()).
		APIKey(apiKey).
		OrganizationID(org).
		Header(HeaderAuthorization, bearer(apiKey)).
		Header(HeaderOrganization, org)

	return build(b, o.logger)
}

// NewRenderForm reads the flat {"x-api-key"} layout.
func NewRenderForm(path string, opts ...Option) (*Connector, error) {
	o := resolveOptions(opts)

	doc, err := o.loader.Load(path)
	if err != nil {
		return nil, err
	}

	apiKey, err := doc.Root().RequiredString(keyRenderFormKey)
	if err != nil {
		return nil, err
	}

	b := NewBuilder(core.ProviderRenderForm).
		SettingsPath(doc.Path()).
		APIKey(apiKey).
		Header(HeaderAPIKey, apiKey).
		Header(HeaderAccept, "application/json")

	return build(b, o.logger)
}

// build finishes construction. The settings document goes out of scope with
// the caller's frame; only the derived fields survive on the connector.
func build(b *Builder, logger *slog.Logger) (*Connector, error) {
	c, err := b.Build()
	if err != nil {
		return nil, err
	}
	logger.Debug("connector initialized", "connector", c)
	return c, nil
}

func bearer(key string) string {
	return "Bearer " + key
}
