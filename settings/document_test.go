package settings

import (
	"testing"

	"github.com/poiesic/connectors/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadString(t *testing.T, content string) *Document {
	t.Helper()
	doc, err := Load(writeFile(t, t.TempDir(), "settings.json", content))
	require.NoError(t, err)
	return doc
}

func TestDocumentSection(t *testing.T) {
	doc := loadString(t, `{"connector":{"openai":{"api_key":"sk"}, "broken": "x"}, "x-api-key": "rf"}`)

	t.Run("nested section", func(t *testing.T) {
		s, err := doc.Section("connector", "openai")
		require.NoError(t, err)
		assert.True(t, s.Has("api_key"))
	})

	t.Run("missing section", func(t *testing.T) {
		_, err := doc.Section("connector", "huggingface")
		require.ErrorIs(t, err, core.ErrMissingKey)
		assert.Contains(t, err.Error(), "connector.huggingface")
	})

	t.Run("section that is not an object", func(t *testing.T) {
		_, err := doc.Section("connector", "broken")
		assert.ErrorIs(t, err, core.ErrMissingKey)
	})

	t.Run("keys with dashes are literal", func(t *testing.T) {
		key, err := doc.Root().RequiredString("x-api-key")
		require.NoError(t, err)
		assert.Equal(t, "rf", key)
	})

	t.Run("value as plain map", func(t *testing.T) {
		v := doc.Value()
		require.Contains(t, v, "connector")
		assert.Equal(t, "rf", v["x-api-key"])
	})
}

func TestSectionStrings(t *testing.T) {
	doc := loadString(t, `{"api_key": "sk", "empty": "", "blank": "  ", "null": null, "number": 42}`)
	root := doc.Root()

	tests := []struct {
		key     string
		want    string
		wantErr bool
	}{
		{key: "api_key", want: "sk"},
		{key: "empty", wantErr: true},
		{key: "blank", wantErr: true},
		{key: "null", wantErr: true},
		{key: "number", wantErr: true},
		{key: "absent", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := root.RequiredString(tt.key)
			if tt.wantErr {
				require.ErrorIs(t, err, core.ErrMissingKey)
				assert.Contains(t, err.Error(), tt.key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "sk", root.OptionalString("api_key"))
	assert.Equal(t, "", root.OptionalString("null"))
	assert.Equal(t, "", root.OptionalString("number"))
	assert.False(t, root.Has("null"))
	assert.False(t, root.Has("absent"))
	assert.True(t, root.Has("empty"))
}

func TestSectionModels(t *testing.T) {
	t.Run("list of names", func(t *testing.T) {
		doc := loadString(t, `{"model": ["gpt-4", "text-embedding-ada-002"]}`)

		models, err := doc.Root().Models("model", true)
		require.NoError(t, err)
		assert.Equal(t, []core.ModelDescriptor{{Name: "gpt-4"}, {Name: "text-embedding-ada-002"}}, models)
	})

	t.Run("list of descriptors", func(t *testing.T) {
		doc := loadString(t, `{"model": [{"name": "all-MiniLM-L6-v2", "dim_size": 384}]}`)

		models, err := doc.Root().Models("model", true)
		require.NoError(t, err)
		assert.Equal(t, []core.ModelDescriptor{{Name: "all-MiniLM-L6-v2", DimSize: 384}}, models)
	})

	t.Run("object keyed by alias", func(t *testing.T) {
		doc := loadString(t, `{"model": {"small": {"name": "all-MiniLM-L6-v2", "dim_size": 384}, "base": {"dim_size": 768}}}`)

		models, err := doc.Root().Models("model", true)
		require.NoError(t, err)
		assert.Equal(t, []core.ModelDescriptor{
			{Name: "all-MiniLM-L6-v2", DimSize: 384},
			{Name: "base", DimSize: 768},
		}, models)
	})

	t.Run("empty list", func(t *testing.T) {
		doc := loadString(t, `{"model": []}`)

		models, err := doc.Root().Models("model", true)
		require.NoError(t, err)
		assert.Empty(t, models)
	})

	t.Run("required but missing", func(t *testing.T) {
		doc := loadString(t, `{}`)

		_, err := doc.Root().Models("model", true)
		assert.ErrorIs(t, err, core.ErrMissingKey)
	})

	t.Run("optional and missing", func(t *testing.T) {
		doc := loadString(t, `{}`)

		models, err := doc.Root().Models("model", false)
		require.NoError(t, err)
		assert.Empty(t, models)
	})

	t.Run("wrong type", func(t *testing.T) {
		doc := loadString(t, `{"model": "gpt-4"}`)

		_, err := doc.Root().Models("model", true)
		assert.ErrorIs(t, err, core.ErrSettingsParse)
	})

	t.Run("invalid entry", func(t *testing.T) {
		doc := loadString(t, `{"model": [{"dim_size": 3}]}`)

		_, err := doc.Root().Models("model", true)
		assert.ErrorIs(t, err, core.ErrSettingsParse)
		assert.ErrorIs(t, err, core.ErrInvalidModel)
	})
}
