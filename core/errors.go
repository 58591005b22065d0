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


package core

import "errors"

// Settings errors. These are raised while a connector is being built and are
// fatal for whoever needs the connector.
var (
	// ErrSettingsNotFound indicates the settings file could not be located.
	ErrSettingsNotFound = errors.New("settings file not found")

	// ErrSettingsParse indicates the settings file is not valid JSON.
	ErrSettingsParse = errors.New("cannot parse settings file")

	// ErrMissingKey indicates a required settings key is absent or empty.
	ErrMissingKey = errors.New("missing key in settings")
)

// Service errors returned by outbound calls.
var (
	// ErrMissingField indicates a provider response lacks an expected field.
	ErrMissingField = errors.New("missing field in response")

	// ErrTransport indicates the request never produced a response.
	ErrTransport = errors.New("transport failure")

	// ErrUnexpectedStatus indicates the provider answered with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected response status")

	// ErrEmptyMessage indicates an empty input text was given to a service call.
	ErrEmptyMessage = errors.New("message cannot be empty")

	// ErrUnsupportedModel indicates a model is not enabled for the connector.
	ErrUnsupportedModel = errors.New("model not supported")
)

var (
	// ErrImmutable indicates an attempt to reassign a declared connector
	// attribute after initialization. Callers may recover from it.
	ErrImmutable = errors.New("attribute immutable after initialization")

	// ErrInvalidConfig indicates a configuration value is out of range.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidModel indicates a model descriptor failed validation.
	ErrInvalidModel = errors.New("invalid model descriptor")
)
