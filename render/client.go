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


package render

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/poiesic/connectors/connector"
	"github.com/poiesic/connectors/core"
	"github.com/poiesic/connectors/transport"
	"github.com/tidwall/gjson"
)

// HeaderOutput asks the render endpoint for an image result.
const HeaderOutput = "output"

// Option configures a Client.
type Option func(*options)

type options struct {
	transport transport.Config
	logger    *slog.Logger
}

// WithTransportConfig sets the timeout and rate limit of outbound calls.
func WithTransportConfig(cfg transport.Config) Option {
	return func(o *options) {
		o.transport = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Client calls the RenderForm API with a connector's credentials.
type Client struct {
	client  *resty.Client
	version string
	logger  *slog.Logger
}

// NewClient creates a client for the RenderForm connector conn.
func NewClient(conn *connector.Connector, config *Config, opts ...Option) (*Client, error) {
	if conn == nil {
		return nil, fmt.Errorf("%w: connector is required", core.ErrInvalidConfig)
	}
	if conn.Provider() != core.ProviderRenderForm {
		return nil, fmt.Errorf("%w: %s connector cannot reach RenderForm", core.ErrInvalidConfig, conn.Provider())
	}
	if config == nil {
		config = DefaultConfig()
	}
	config.Normalize()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	o := options{
		transport: transport.DefaultConfig(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger.With("component", "renderform")
	client, err := transport.New(o.transport,
		transport.WithBaseURL(config.BaseURL),
		transport.WithHeaders(conn.Headers()),
		transport.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	return &Client{client: client, version: config.Version, logger: logger}, nil
}

// GetTemplate returns the definition of the template with the given id. An
// empty version selects Config.Version.
func (c *Client) GetTemplate(ctx context.Context, templateID, version string) (map[string]any, error) {
	templateID = strings.TrimSpace(templateID)
	if templateID == "" {
		return nil, fmt.Errorf("%w: template id", core.ErrEmptyMessage)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"version": c.versionOr(version),
			"id":      templateID,
		}).
		Get("/api/{version}/my-templates/{id}")
	if err := transport.CheckResponse(resp, err); err != nil {
		c.logger.Error("failed to fetch template", "template", templateID, "err", err)
		return nil, err
	}

	result := gjson.ParseBytes(resp.Body())
	if !gjson.ValidBytes(resp.Body()) || !result.IsObject() {
		return nil, fmt.Errorf("%w: template %s is not a JSON object", core.ErrMissingField, templateID)
	}
	template, _ := result.Value().(map[string]any)
	return template, nil
}

// Render fills the template named by r and returns the href of the
// rendered image.
func (c *Client) Render(ctx context.Context, r Request) (string, error) {
	templateID := strings.TrimSpace(r.TemplateID)
	if templateID == "" {
		return "", fmt.Errorf("%w: template id", core.ErrEmptyMessage)
	}

	body := map[string]any{
		"template": templateID,
		"data":     BuildPayload(r),
	}
	c.logger.Debug("rendering template", "template", templateID, "fields", len(body["data"].(map[string]any)))

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader(HeaderOutput, "image").
		SetHeader("Content-Type", "application/json").
		SetPathParam("version", c.versionOr(r.Version)).
		SetBody(body).
		Post("/api/{version}/render")
	if err := transport.CheckResponse(resp, err); err != nil {
		c.logger.Error("render failed", "template", templateID, "err", err)
		return "", err
	}

	href := gjson.GetBytes(resp.Body(), "href")
	if href.Type != gjson.String || href.Str == "" {
		return "", fmt.Errorf("%w: href", core.ErrMissingField)
	}
	return href.Str, nil
}

func (c *Client) versionOr(version string) string {
	if v := strings.Trim(strings.TrimSpace(version), "/"); v != "" {
		return v
	}
	return c.version
}
