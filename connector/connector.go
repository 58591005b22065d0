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
	"maps"
	"slices"
	"sync"

	"github.com/poiesic/connectors/core"
)

// Declared attribute names. Set rejects these with core.ErrImmutable.
const (
	FieldProvider        = "provider"
	FieldSettingsPath    = "settings_path"
	FieldAPIKey          = "api_key"
	FieldOrganizationID  = "organization_id"
	FieldAvailableModels = "available_models"
	FieldHeaders         = "headers"
)

var declaredFields = map[string]struct{}{
	FieldProvider:        {},
	FieldSettingsPath:    {},
	FieldAPIKey:          {},
	FieldOrganizationID:  {},
	FieldAvailableModels: {},
	FieldHeaders:         {},
}

// Connector is an authenticated handle for one provider.
type Connector struct {
	provider        core.Provider
	settingsPath    string
	apiKey          string
	organizationID  string
	availableModels []core.ModelDescriptor
	headers         map[string]string
	initialized     bool

	extrasMu sync.RWMutex
	extras   map[string]any
}

// Provider returns the provider this connector authenticates against.
func (c *Connector) Provider() core.Provider {
	return c.provider
}

// SettingsPath returns the resolved credentials file the connector was read
// from, or "" when it was built in code.
func (c *Connector) SettingsPath() string {
	return c.settingsPath
}

// APIKey returns the secret used to authenticate.
func (c *Connector) APIKey() string {
	return c.apiKey
}

// OrganizationID returns the organization id, or "" when not in use.
func (c *Connector) OrganizationID() string {
	return c.organizationID
}

// AvailableModels returns a copy of the models enabled for this connector.
func (c *Connector) AvailableModels() []core.ModelDescriptor {
	return slices.Clone(c.availableModels)
}

// ModelNames returns the names of the enabled models.
func (c *Connector) ModelNames() []string {
	names := make([]string, len(c.availableModels))
	for i, m := range c.availableModels {
		names[i] = m.Name
	}
	return names
}

// Model returns the descriptor for name.
func (c *Connector) Model(name string) (core.ModelDescriptor, bool) {
	for _, m := range c.availableModels {
		if m.Name == name {
			return m, true
		}
	}
	return core.ModelDescriptor{}, false
}

// SupportsModel reports whether name is enabled. A connector without a
// model list supports every model.
func (c *Connector) SupportsModel(name string) bool {
	if len(c.availableModels) == 0 {
		return true
	}
	_, ok := c.Model(name)
	return ok
}

// Headers returns a copy of the HTTP headers derived from the credentials.
func (c *Connector) Headers() map[string]string {
	return maps.Clone(c.headers)
}

// Initialized reports whether the connector finished construction.
func (c *Connector) Initialized() bool {
	return c.initialized
}

// Set attaches extension metadata. Declared attribute names are rejected
// with core.ErrImmutable once the connector is initialized.
func (c *Connector) Set(name string, value any) error {
	if _, declared := declaredFields[name]; declared && c.initialized {
		return fmt.Errorf("%w: %s", core.ErrImmutable, name)
	}
	if name == "" {
		return fmt.Errorf("%w: empty attribute name", core.ErrInvalidConfig)
	}

	c.extrasMu.Lock()
	defer c.extrasMu.Unlock()
	if c.extras == nil {
		c.extras = make(map[string]any)
	}
	c.extras[name] = value
	return nil
}

// Extra returns metadata previously attached with Set.
func (c *Connector) Extra(name string) (any, bool) {
	c.extrasMu.RLock()
	defer c.extrasMu.RUnlock()
	v, ok := c.extras[name]
	return v, ok
}

// Extras returns a copy of all attached metadata.
func (c *Connector) Extras() map[string]any {
	c.extrasMu.RLock()
	defer c.extrasMu.RUnlock()
	return maps.Clone(c.extras)
}

// ExtraAs returns the metadata stored under name when it has type T.
func ExtraAs[T any](c *Connector, name string) (T, bool) {
	v, ok := c.Extra(name)
	if !ok {
		var zero T
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}

// String returns a short description that never includes the API key.
func (c *Connector) String() string {
	switch c.provider {
	case core.ProviderOpenAI:
		return "OpenAI connector. Use Help() to read more."
	case core.ProviderHuggingFace:
		return "Connected to HuggingFace Service"
	case core.ProviderOpenAIService:
		return "OpenAI embedding service connector. Use Help() to read more."
	case core.ProviderRenderForm:
		return "RenderForm connector. Use Help() to read more."
	default:
		return "connector"
	}
}

// GoString implements fmt.GoStringer without exposing the API key.
func (c *Connector) GoString() string {
	return fmt.Sprintf("connector.Connector{provider: %q, settingsPath: %q, organizationID: %q, models: %q, initialized: %t}",
		c.provider, c.settingsPath, c.organizationID, c.ModelNames(), c.initialized)
}

// LogValue implements slog.LogValuer without exposing the API key.
func (c *Connector) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("provider", string(c.provider)),
		slog.String("settings_path", c.settingsPath),
		slog.Int("models", len(c.availableModels)),
	)
}
