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


package transport

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every environment variable read by ConfigFromEnv.
const EnvPrefix = "CONNECTORS_"

// Config holds the outbound HTTP policy.
type Config struct {
	// Timeout bounds a whole request, including reading the body.
	// Default: 60s
	Timeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"60s"`

	// RateLimit is the sustained number of requests per second.
	// Zero disables limiting.
	RateLimit float64 `env:"HTTP_RATE_LIMIT" envDefault:"0"`

	// RateBurst is the token bucket size used when RateLimit is set.
	// Default: 1
	RateBurst int `env:"HTTP_RATE_BURST" envDefault:"1"`

	// RetryCount is the number of retries on transport errors and 5xx/429.
	// Default: 0
	RetryCount int `env:"HTTP_RETRY_COUNT" envDefault:"0"`

	// UserAgent is sent with every request.
	UserAgent string `env:"HTTP_USER_AGENT" envDefault:"poiesic-connectors"`
}

// DefaultConfig returns a Config populated only from defaults.
func DefaultConfig() Config {
	var cfg Config
	_ = env.ParseWithOptions(&cfg, env.Options{
		Prefix:      EnvPrefix,
		Environment: map[string]string{},
	})
	return cfg
}

// ConfigFromEnv returns a Config populated from CONNECTORS_HTTP_* variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("transport config: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("transport config: Timeout must be greater than 0")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("transport config: RateLimit cannot be negative")
	}
	if c.RateLimit > 0 && c.RateBurst <= 0 {
		return fmt.Errorf("transport config: RateBurst must be greater than 0 when RateLimit is set")
	}
	if c.RetryCount < 0 {
		return fmt.Errorf("transport config: RetryCount cannot be negative")
	}
	return nil
}
