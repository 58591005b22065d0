package storage

import (
	"testing"
	"time"

	"github.com/poiesic/connectors/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalCacheEntry(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name  string
		entry *CacheEntry
	}{
		{
			name: "typical entry",
			entry: &CacheEntry{
				Key:       CacheKey("text-embedding-ada-002", "hello"),
				Model:     "text-embedding-ada-002",
				Text:      "hello",
				Vector:    []float32{0.1, -0.2, 0.3},
				CreatedAt: now,
			},
		},
		{
			name: "empty vector",
			entry: &CacheEntry{
				Key:       core.ID(7),
				Model:     "m",
				Text:      "t",
				Vector:    []float32{},
				CreatedAt: now,
			},
		},
		{
			name: "unicode text",
			entry: &CacheEntry{
				Key:       core.ID(8),
				Model:     "sentence-transformers/all-MiniLM-L6-v2",
				Text:      "zażółć gęślą jaźń",
				Vector:    []float32{1, 2},
				CreatedAt: now,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalCacheEntry(tt.entry)
			decoded, err := UnmarshalCacheEntry(data)
			require.NoError(t, err)
			assert.Equal(t, tt.entry, decoded)
		})
	}
}

func TestUnmarshalCacheEntry_Truncated(t *testing.T) {
	entry := NewCacheEntry("model", "some text", []float32{1, 2, 3, 4})
	entry.CreatedAt = time.Now().UTC()
	data := MarshalCacheEntry(entry)

	_, err := UnmarshalCacheEntry(data[:len(data)-3])
	assert.ErrorIs(t, err, ErrTruncatedData)

	_, err = UnmarshalCacheEntry(data[:3])
	assert.Error(t, err)

	_, err = UnmarshalCacheEntry(nil)
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, CacheKey("m", "text"), CacheKey("m", "text"))
	assert.NotEqual(t, CacheKey("m1", "text"), CacheKey("m2", "text"))
	assert.NotEqual(t, CacheKey("ab", "c"), CacheKey("a", "bc"))

	entry := NewCacheEntry("m", "text", []float32{1})
	assert.Equal(t, CacheKey("m", "text"), entry.Key)
}
