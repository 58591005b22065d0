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


package settings

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/poiesic/connectors/core"
	"github.com/tidwall/gjson"
)

// Loader resolves and parses settings files.
type Loader struct {
	searchDirs []string
	logger     *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithSearchDir adds a directory that relative paths are resolved against
// when they do not exist in the working directory. Directories are tried in
// the order they were added.
func WithSearchDir(dir string) LoaderOption {
	return func(l *Loader) {
		l.searchDirs = append(l.searchDirs, dir)
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a Loader. Without options the executable's directory is
// the only search directory.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if len(l.searchDirs) == 0 {
		if exe, err := os.Executable(); err == nil {
			l.searchDirs = []string{filepath.Dir(exe)}
		}
	}
	l.logger = l.logger.With("component", "settings")
	return l
}

// Load resolves and parses a settings file with the default Loader.
func Load(path string) (*Document, error) {
	return NewLoader().Load(path)
}

// Resolve returns the path that Load would read for the given input.
func (l *Loader) Resolve(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: empty path", core.ErrSettingsNotFound)
	}

	if isFile(path) {
		return path, nil
	}

	if !filepath.IsAbs(path) {
		for _, dir := range l.searchDirs {
			candidate := filepath.Join(dir, path)
			if isFile(candidate) {
				return candidate, nil
			}
		}
	}

	return "", fmt.Errorf("%w: %s", core.ErrSettingsNotFound, path)
}

// Load resolves path and parses the file it points to.
func (l *Loader) Load(path string) (*Document, error) {
	resolved, err := l.Resolve(path)
	if err != nil {
		l.logger.Debug("settings file not found", "path", path)
		return nil, err
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrSettingsNotFound, resolved, err)
	}

	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: %s is not valid JSON", core.ErrSettingsParse, resolved)
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: %s must contain a JSON object", core.ErrSettingsParse, resolved)
	}

	l.logger.Debug("loaded settings", "path", resolved)
	return &Document{
		path: resolved,
		root: Section{result: root},
	}, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
