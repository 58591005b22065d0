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
	"strings"

	"github.com/poiesic/connectors/core"
	"github.com/tidwall/gjson"
)

// Document is a parsed settings file.
type Document struct {
	path string
	root Section
}

// Path returns the resolved path the document was read from.
func (d *Document) Path() string {
	return d.path
}

// Root returns the top-level object.
func (d *Document) Root() Section {
	return d.root
}

// Value returns the whole document as plain Go values.
func (d *Document) Value() map[string]any {
	v, _ := d.root.result.Value().(map[string]any)
	return v
}

// Section walks the given keys from the root and returns the object found
// there. Each key is matched literally, so keys may contain dots or dashes.
func (d *Document) Section(keys ...string) (Section, error) {
	s := d.root
	for _, key := range keys {
		next, err := s.Section(key)
		if err != nil {
			return Section{}, err
		}
		s = next
	}
	return s, nil
}

// Section is a JSON object inside a settings document.
type Section struct {
	path   string
	result gjson.Result
}

// Path returns the dotted key path of the section, empty for the root.
func (s Section) Path() string {
	return s.path
}

// Has reports whether key is present and not null.
func (s Section) Has(key string) bool {
	v := s.lookup(key)
	return v.Exists() && v.Type != gjson.Null
}

// Section returns the object stored under key.
func (s Section) Section(key string) (Section, error) {
	v := s.lookup(key)
	if !v.Exists() || !v.IsObject() {
		return Section{}, fmt.Errorf("%w: %s", core.ErrMissingKey, s.join(key))
	}
	return Section{path: s.join(key), result: v}, nil
}

// RequiredString returns the non-empty string stored under key.
func (s Section) RequiredString(key string) (string, error) {
	v := s.lookup(key)
	if v.Type != gjson.String || strings.TrimSpace(v.Str) == "" {
		return "", fmt.Errorf("%w: %s", core.ErrMissingKey, s.join(key))
	}
	return v.Str, nil
}

// OptionalString returns the string stored under key, or "" when it is
// absent, null or not a string.
func (s Section) OptionalString(key string) string {
	v := s.lookup(key)
	if v.Type != gjson.String {
		return ""
	}
	return v.Str
}

// Models returns the model descriptors stored under key. The value may be a
// list or an object; each entry is either a model name or an object with a
// "name" and an optional "dim_size". When required is false an absent key
// yields an empty slice.
func (s Section) Models(key string, required bool) ([]core.ModelDescriptor, error) {
	v := s.lookup(key)
	if !v.Exists() || v.Type == gjson.Null {
		if required {
			return nil, fmt.Errorf("%w: %s", core.ErrMissingKey, s.join(key))
		}
		return []core.ModelDescriptor{}, nil
	}

	if !v.IsArray() && !v.IsObject() {
		return nil, fmt.Errorf("%w: %s must be a list of models", core.ErrSettingsParse, s.join(key))
	}

	models := make([]core.ModelDescriptor, 0)
	var parseErr error
	v.ForEach(func(k, entry gjson.Result) bool {
		model, err := parseModel(k, entry)
		if err != nil {
			parseErr = fmt.Errorf("%w: %s: %w", core.ErrSettingsParse, s.join(key), err)
			return false
		}
		models = append(models, model)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return models, nil
}

func parseModel(key, entry gjson.Result) (core.ModelDescriptor, error) {
	var model core.ModelDescriptor
	switch {
	case entry.Type == gjson.String:
		model.Name = entry.Str
	case entry.IsObject():
		fields := entry.Map()
		model.Name = fields["name"].String()
		if model.Name == "" && key.Type == gjson.String {
			// Object form keyed by model name.
			model.Name = key.Str
		}
		model.DimSize = int(fields["dim_size"].Int())
	default:
		return model, fmt.Errorf("unsupported model entry %s", entry.Raw)
	}
	return model, core.ValidateModelDescriptor(model)
}

func (s Section) lookup(key string) gjson.Result {
	if !s.result.IsObject() {
		return gjson.Result{}
	}
	return s.result.Map()[key]
}

func (s Section) join(key string) string {
	if s.path == "" {
		return key
	}
	return s.path + "." + key
}
