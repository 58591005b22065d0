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
	"errors"
	"strings"
)

const (
	// DefaultBaseURL is the RenderForm API host.
	DefaultBaseURL = "https://api.renderform.io"
	// DefaultVersion is the API version used when a request names none.
	DefaultVersion = "v2"
)

// Config holds the RenderForm endpoint settings.
type Config struct {
	// BaseURL is the API host, without the /api path.
	// Default: "https://api.renderform.io"
	BaseURL string

	// Version is the API version segment.
	// Default: "v2"
	Version string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBaseURL sets the API host.
func WithBaseURL(url string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithVersion sets the default API version.
func WithVersion(version string) ConfigOption {
	return func(c *Config) {
		c.Version = version
	}
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		BaseURL: DefaultBaseURL,
		Version: DefaultVersion,
	}
}

// NewConfig creates a Config with the given options applied to defaults.
func NewConfig(opts ...ConfigOption) *Config {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(c)
	}
	c.Normalize()
	return c
}

// Normalize trims trailing slashes from BaseURL.
func (c *Config) Normalize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.Version = strings.Trim(strings.TrimSpace(c.Version), "/")
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("BaseURL cannot be empty")
	}
	if c.Version == "" {
		return errors.New("Version cannot be empty")
	}
	return nil
}
