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


package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/connectors/core"
)

// float32Size is the raw encoding width of a vector component.
const float32Size = 4

// Layout: key, model, text, created-at (unix micro), vector length, vector
// components.
func cacheEntrySize(e *CacheEntry) int {
	return varint.Uint64.Size(uint64(e.Key)) +
		ord.String.Size(e.Model) +
		ord.String.Size(e.Text) +
		varint.Int64.Size(e.CreatedAt.UnixMicro()) +
		varint.Uint64.Size(uint64(len(e.Vector))) +
		len(e.Vector)*float32Size
}

// MarshalCacheEntry serializes a CacheEntry to bytes.
func MarshalCacheEntry(e *CacheEntry) []byte {
	buf := make([]byte, cacheEntrySize(e))
	n := varint.Uint64.Marshal(uint64(e.Key), buf)
	n += ord.String.Marshal(e.Model, buf[n:])
	n += ord.String.Marshal(e.Text, buf[n:])
	n += varint.Int64.Marshal(e.CreatedAt.UnixMicro(), buf[n:])
	n += varint.Uint64.Marshal(uint64(len(e.Vector)), buf[n:])
	for _, f := range e.Vector {
		n += raw.Float32.Marshal(f, buf[n:])
	}
	return buf
}

// UnmarshalCacheEntry deserializes a CacheEntry from bytes.
func UnmarshalCacheEntry(data []byte) (*CacheEntry, error) {
	var (
		e     CacheEntry
		n, m  int
		err   error
		key   uint64
		micro int64
		count uint64
	)

	if key, m, err = varint.Uint64.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("%w: key: %w", ErrSerializationFailed, err)
	}
	n += m
	if e.Model, m, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: model: %w", ErrSerializationFailed, err)
	}
	n += m
	if e.Text, m, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: text: %w", ErrSerializationFailed, err)
	}
	n += m
	if micro, m, err = varint.Int64.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: created at: %w", ErrSerializationFailed, err)
	}
	n += m
	if count, m, err = varint.Uint64.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: vector length: %w", ErrSerializationFailed, err)
	}
	n += m

	if count > uint64(len(data)-n)/float32Size {
		return nil, fmt.Errorf("%w: vector of %d components in %d bytes", ErrTruncatedData, count, len(data)-n)
	}
	e.Vector = make([]float32, count)
	for i := range e.Vector {
		if e.Vector[i], m, err = raw.Float32.Unmarshal(data[n:]); err != nil {
			return nil, fmt.Errorf("%w: vector: %w", ErrSerializationFailed, err)
		}
		n += m
	}

	e.Key = core.ID(key)
	e.CreatedAt = time.UnixMicro(micro).UTC()
	return &e, nil
}
