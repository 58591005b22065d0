package connector

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/poiesic/connectors/core"
)

// Builder assembles a Connector. Build copies everything it has been given,
// so a Builder can be reused without affecting connectors already built.
type Builder struct {
	provider       core.Provider
	settingsPath   string
	apiKey         string
	organizationID string
	models         []core.ModelDescriptor
	headers        map[string]string
}

// NewBuilder starts a connector for provider.
func NewBuilder(provider core.Provider) *Builder {
	return &Builder{
		provider: provider,
		headers:  make(map[string]string),
	}
}

// SettingsPath records the file the connector was read from.
func (b *Builder) SettingsPath(path string) *Builder {
	b.settingsPath = path
	return b
}

// APIKey sets the required API key.
func (b *Builder) APIKey(key string) *Builder {
	b.apiKey = key
	return b
}

// OrganizationID sets the OpenAI organization id.
func (b *Builder) OrganizationID(id string) *Builder {
	b.organizationID = id
	return b
}

// Models appends model descriptors.
func (b *Builder) Models(models ...core.ModelDescriptor) *Builder {
	b.models = append(b.models, models...)
	return b
}

// Header adds a request header sent by service clients.
func (b *Builder) Header(key, value string) *Builder {
	b.headers[key] = value
	return b
}

// Build validates the accumulated values and returns an initialized,
// immutable Connector.
func (b *Builder) Build() (*Connector, error) {
	if err := core.ValidateProvider(b.provider); err != nil {
		return nil, err
	}
	if strings.TrimSpace(b.apiKey) == "" {
		return nil, fmt.Errorf("%w: %s", core.ErrMissingKey, FieldAPIKey)
	}
	for _, m := range b.models {
		if err := core.ValidateModelDescriptor(m); err != nil {
			return nil, err
		}
	}

	c := &Connector{
		provider:        b.provider,
		settingsPath:    b.settingsPath,
		apiKey:          b.apiKey,
		organizationID:  b.organizationID,
		availableModels: slices.Clone(b.models),
		headers:         maps.Clone(b.headers),
	}
	c.initialized = true
	return c, nil
}
