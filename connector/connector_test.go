package connector

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/poiesic/connectors/core"
	"github.com/poiesic/connectors/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const openAISettings = `{
  "connector": {
    "openai": {
      "api_key": "sk-test",
      "organization_id": "org-42",
      "model": ["gpt-4", {"name": "text-embedding-ada-002", "dim_size": 1536}]
    },
    "huggingface": {"api_key": "tok123"}
  }
}`

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewOpenAI(t *testing.T) {
	c, err := NewOpenAI(writeSettings(t, openAISettings))
	require.NoError(t, err)

	assert.Equal(t, core.ProviderOpenAI, c.Provider())
	assert.Equal(t, "sk-test", c.APIKey())
	assert.Equal(t, "org-42", c.OrganizationID())
	assert.True(t, c.Initialized())
	assert.Equal(t, map[string]string{
		"Authorization":       "Bearer sk-test",
		"OpenAI-Organization": "org-42",
	}, c.Headers())
	assert.Equal(t, []string{"gpt-4", "text-embedding-ada-002"}, c.ModelNames())

	m, ok := c.Model("text-embedding-ada-002")
	require.True(t, ok)
	assert.Equal(t, 1536, m.DimSize)
	assert.True(t, c.SupportsModel("gpt-4"))
	assert.False(t, c.SupportsModel("gpt-3"))
}

func TestNewOpenAIWithoutOrganization(t *testing.T) {
	path := writeSettings(t, `{"connector":{"openai":{"api_key":"sk","model":["gpt-4"]}}}`)

	_, err := NewOpenAI(path)
	assert.ErrorIs(t, err, core.ErrMissingKey)
	assert.Contains(t, err.Error(), "organization_id")

	c, err := NewOpenAI(path, WithOrganization(false))
	require.NoError(t, err)
	assert.Empty(t, c.OrganizationID())
	assert.Equal(t, map[string]string{"Authorization": "Bearer sk"}, c.Headers())
}

func TestNewOpenAIErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"missing api key", `{"connector":{"openai":{"organization_id":"o","model":["m"]}}}`, core.ErrMissingKey},
		{"empty api key", `{"connector":{"openai":{"api_key":"  ","organization_id":"o","model":["m"]}}}`, core.ErrMissingKey},
		{"null organization", `{"connector":{"openai":{"api_key":"k","organization_id":null,"model":["m"]}}}`, core.ErrMissingKey},
		{"missing models", `{"connector":{"openai":{"api_key":"k","organization_id":"o"}}}`, core.ErrMissingKey},
		{"missing provider", `{"connector":{"huggingface":{"api_key":"k"}}}`, core.ErrMissingKey},
		{"missing root", `{"openai":{"api_key":"k"}}`, core.ErrMissingKey},
		{"malformed", `{"connector":`, core.ErrSettingsParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewOpenAI(writeSettings(t, tt.content))
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, c)
		})
	}
}

func TestNewOpenAISettingsNotFound(t *testing.T) {
	loader := settings.NewLoader(settings.WithSearchDir(t.TempDir()))
	_, err := NewOpenAI("missing.json", WithLoader(loader))
	assert.ErrorIs(t, err, core.ErrSettingsNotFound)
}

func TestNewOpenAISearchDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "creds.json"), []byte(openAISettings), 0o600))

	c, err := NewOpenAI("creds.json", WithLoader(settings.NewLoader(settings.WithSearchDir(dir))))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "creds.json"), c.SettingsPath())
}

func TestNewHuggingFace(t *testing.T) {
	c, err := NewHuggingFace(writeSettings(t, `{"connector":{"huggingface":{"api_key":"tok123"}}}`))
	require.NoError(t, err)

	assert.Equal(t, "tok123", c.APIKey())
	assert.Equal(t, map[string]string{"Authorization": "Bearer tok123"}, c.Headers())
	assert.Empty(t, c.AvailableModels())
	assert.True(t, c.SupportsModel("anything"))
	assert.Equal(t, "Connected to HuggingFace Service", c.String())

	// Only derived fields are kept: the extras hold nothing from the file.
	assert.Empty(t, c.Extras())
}

func TestNewHuggingFaceMissingKey(t *testing.T) {
	_, err := NewHuggingFace(writeSettings(t, `{"connector":{"huggingface":{}}}`))
	assert.ErrorIs(t, err, core.ErrMissingKey)
}

func TestNewOpenAIService(t *testing.T) {
	c, err := NewOpenAIService(writeSettings(t, `{"api_key":"sk","organization":"org"}`))
	require.NoError(t, err)
	assert.Equal(t, core.ProviderOpenAIService, c.Provider())
	assert.Equal(t, map[string]string{
		"Authorization":       "Bearer sk",
		"OpenAI-Organization": "org",
	}, c.Headers())

	_, err = NewOpenAIService(writeSettings(t, `{"api_key":"sk"}`))
	assert.ErrorIs(t, err, core.ErrMissingKey)
}

func TestNewRenderForm(t *testing.T) {
	c, err := NewRenderForm(writeSettings(t, `{"x-api-key":"rf-key"}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"x-api-key": "rf-key",
		"accept":    "application/json",
	}, c.Headers())

	_, err = NewRenderForm(writeSettings(t, `{"api_key":"rf-key"}`))
	assert.ErrorIs(t, err, core.ErrMissingKey)
}

func TestConnectorImmutability(t *testing.T) {
	c, err := NewOpenAI(writeSettings(t, openAISettings))
	require.NoError(t, err)

	for _, field := range []string{FieldAPIKey, FieldSettingsPath, FieldOrganizationID, FieldAvailableModels, FieldHeaders, FieldProvider} {
		t.Run(field, func(t *testing.T) {
			err := c.Set(field, "changed")
			assert.ErrorIs(t, err, core.ErrImmutable)
		})
	}
	assert.Equal(t, "sk-test", c.APIKey())

	require.NoError(t, c.Set("team", "search"))
	v, ok := c.Extra("team")
	require.True(t, ok)
	assert.Equal(t, "search", v)

	s, ok := ExtraAs[string](c, "team")
	assert.True(t, ok)
	assert.Equal(t, "search", s)
	_, ok = ExtraAs[int](c, "team")
	assert.False(t, ok)
	_, ok = c.Extra("absent")
	assert.False(t, ok)

	assert.ErrorIs(t, c.Set("", 1), core.ErrInvalidConfig)
}

func TestConnectorCopiesAreDetached(t *testing.T) {
	c, err := NewOpenAI(writeSettings(t, openAISettings))
	require.NoError(t, err)

	h := c.Headers()
	h["Authorization"] = "Bearer stolen"
	assert.Equal(t, "Bearer sk-test", c.Headers()["Authorization"])

	models := c.AvailableModels()
	models[0].Name = "other"
	assert.Equal(t, "gpt-4", c.AvailableModels()[0].Name)
}

func TestConnectorConcurrentExtras(t *testing.T) {
	c, err := NewBuilder(core.ProviderHuggingFace).APIKey("k").Build()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			assert.NoError(t, c.Set(fmt.Sprintf("k%d", n), n))
			_, _ = c.Extra("k0")
		}(i)
	}
	wg.Wait()
	assert.Len(t, c.Extras(), 32)
}

func TestConnectorStringsHideKey(t *testing.T) {
	c, err := NewOpenAI(writeSettings(t, openAISettings))
	require.NoError(t, err)

	assert.Equal(t, "OpenAI connector. Use Help() to read more.", c.String())
	for _, s := range []string{c.String(), c.GoString(), fmt.Sprintf("%v", c), fmt.Sprintf("%#v", c), c.LogValue().String()} {
		assert.NotContains(t, s, "sk-test")
	}
	assert.Contains(t, c.GoString(), `provider: "openai"`)
}

func TestConnectorHelp(t *testing.T) {
	for _, p := range []core.Provider{core.ProviderOpenAI, core.ProviderHuggingFace, core.ProviderOpenAIService, core.ProviderRenderForm} {
		t.Run(string(p), func(t *testing.T) {
			help := HelpFor(p)
			assert.NotEmpty(t, help)
			assert.True(t, strings.Contains(help, "api_key"))
		})
	}
	assert.Empty(t, HelpFor("unknown"))
}

func TestBuilder(t *testing.T) {
	b := NewBuilder(core.ProviderOpenAI).
		APIKey("k").
		Models(core.ModelDescriptor{Name: "gpt-4"}).
		Header("Authorization", "Bearer k")

	first, err := b.Build()
	require.NoError(t, err)

	b.Header("Authorization", "Bearer other").Models(core.ModelDescriptor{Name: "gpt-5"})
	assert.Equal(t, "Bearer k", first.Headers()["Authorization"])
	assert.Len(t, first.AvailableModels(), 1)

	_, err = NewBuilder(core.ProviderOpenAI).Build()
	assert.ErrorIs(t, err, core.ErrMissingKey)

	_, err = NewBuilder("nope").APIKey("k").Build()
	assert.ErrorIs(t, err, core.ErrInvalidConfig)

	_, err = NewBuilder(core.ProviderOpenAI).APIKey("k").Models(core.ModelDescriptor{}).Build()
	assert.ErrorIs(t, err, core.ErrInvalidModel)
}

func TestRegistryReturnsFirstInstance(t *testing.T) {
	first := writeSettings(t, openAISettings)
	second := writeSettings(t, `{"connector":{"openai":{"api_key":"sk-other","organization_id":"org-9","model":["gpt-4"]}}}`)

	r := NewRegistry()
	a, err := r.OpenAI(first)
	require.NoError(t, err)
	b, err := r.OpenAI(second)
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, "sk-test", b.APIKey())
	assert.Equal(t, first, b.SettingsPath())

	// Registry-held connectors are immutable too.
	assert.ErrorIs(t, b.Set(FieldAPIKey, "x"), core.ErrImmutable)
}

func TestRegistryIndependentSlots(t *testing.T) {
	path := writeSettings(t, openAISettings)

	r := NewRegistry()
	oa, err := r.OpenAI(path)
	require.NoError(t, err)
	hf, err := r.HuggingFace(path)
	require.NoError(t, err)

	assert.NotSame(t, oa, hf)
	assert.Equal(t, "tok123", hf.APIKey())
	assert.Equal(t, []core.Provider{core.ProviderHuggingFace, core.ProviderOpenAI}, r.Providers())

	// A standard constructor always builds a fresh value.
	fresh, err := NewOpenAI(path)
	require.NoError(t, err)
	assert.NotSame(t, oa, fresh)
}

func TestRegistryFactoryErrorLeavesSlotEmpty(t *testing.T) {
	r := NewRegistry()
	_, err := r.HuggingFace(writeSettings(t, `{"connector":{}}`))
	assert.ErrorIs(t, err, core.ErrMissingKey)

	_, ok := r.Get(core.ProviderHuggingFace)
	assert.False(t, ok)
	assert.Empty(t, r.Providers())

	c, err := r.HuggingFace(writeSettings(t, `{"connector":{"huggingface":{"api_key":"tok"}}}`))
	require.NoError(t, err)
	got, ok := r.Get(core.ProviderHuggingFace)
	require.True(t, ok)
	assert.Same(t, c, got)
}

func TestRegistryRejectsMismatchedFactory(t *testing.T) {
	r := NewRegistry()
	_, err := r.GetOrCreate(core.ProviderOpenAI, func() (*Connector, error) {
		return NewBuilder(core.ProviderHuggingFace).APIKey("k").Build()
	})
	assert.ErrorIs(t, err, core.ErrInvalidConfig)

	_, err = r.GetOrCreate(core.ProviderOpenAI, func() (*Connector, error) { return nil, nil })
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestRegistryConcurrentCreate(t *testing.T) {
	r := NewRegistry()
	var calls atomic.Int32
	factory := func() (*Connector, error) {
		calls.Add(1)
		return NewBuilder(core.ProviderOpenAI).APIKey("k").Build()
	}

	const goroutines = 64
	results := make([]*Connector, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			c, err := r.GetOrCreate(core.ProviderOpenAI, factory)
			assert.NoError(t, err)
			results[n] = c
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, c := range results {
		assert.Same(t, results[0], c)
	}
}
