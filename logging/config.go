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


package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every environment variable read by ConfigFromEnv.
const EnvPrefix = "CONNECTORS_"

// LevelCritical is the severity used for failures that terminate the process.
const LevelCritical = slog.Level(12)

// Config holds logger settings.
type Config struct {
	// Name identifies the calling module. It names the log directory
	// (logs_<name>) and the log file (<name>.log).
	// Default: base name of the working directory.
	Name string `env:"LOG_NAME"`

	// Dir is the directory holding the log file.
	// Default: logs_<name> under the working directory.
	Dir string `env:"LOG_DIR"`

	// Level is one of debug, info, warn, error or critical.
	Level string `env:"LOG_LEVEL" envDefault:"info"`

	// MaxSizeMB is the size in megabytes at which the log file is rotated.
	MaxSizeMB int `env:"LOG_MAX_SIZE_MB" envDefault:"5"`

	// MaxBackups is the number of rotated files kept.
	MaxBackups int `env:"LOG_MAX_BACKUPS" envDefault:"1"`

	// Console enables the stderr sink.
	Console bool `env:"LOG_CONSOLE" envDefault:"true"`

	// File enables the rotating file sink.
	File bool `env:"LOG_FILE" envDefault:"true"`
}

// DefaultConfig returns a Config populated only from defaults.
func DefaultConfig() Config {
	var cfg Config
	// Parsing against an empty environment cannot fail.
	_ = env.ParseWithOptions(&cfg, env.Options{
		Prefix:      EnvPrefix,
		Environment: map[string]string{},
	})
	return cfg
}

// ConfigFromEnv returns a Config populated from CONNECTORS_LOG_* variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("logging config: %w", err)
	}
	return cfg, nil
}

// Normalize fills in the derived Name and Dir defaults.
func (c *Config) Normalize() {
	if c.Name == "" {
		c.Name = "connectors"
		if cwd, err := os.Getwd(); err == nil {
			c.Name = filepath.Base(cwd)
		}
	}
	if c.Dir == "" {
		dir := "logs_" + strings.ToLower(c.Name)
		if cwd, err := os.Getwd(); err == nil {
			dir = filepath.Join(cwd, dir)
		}
		c.Dir = dir
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if _, err := ParseLevel(c.Level); err != nil {
		return err
	}
	if c.File && c.MaxSizeMB <= 0 {
		return fmt.Errorf("logging config: MaxSizeMB must be greater than 0")
	}
	if c.MaxBackups < 0 {
		return fmt.Errorf("logging config: MaxBackups cannot be negative")
	}
	return nil
}

// ParseLevel maps a level name to its slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "critical":
		return LevelCritical, nil
	default:
		return 0, fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error, critical", level)
	}
}
