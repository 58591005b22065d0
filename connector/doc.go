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


// Package connector provides authenticated handles for third-party AI and
// rendering services.
//
// A Connector is built from a JSON credentials file and carries the API key,
// an optional organization id, the models enabled for the provider and the
// HTTP headers derived from them. Connectors are immutable once built:
// declared attributes cannot be reassigned, and Set only accepts extension
// metadata under names that are not declared attributes.
//
// Four constructors read the supported credential layouts:
//
//	NewOpenAI         {"connector": {"openai": {"api_key", "organization_id", "model"}}}
//	NewHuggingFace    {"connector": {"huggingface": {"api_key", "model"}}}
//	NewOpenAIService  {"api_key", "organization"}
//	NewRenderForm     {"x-api-key"}
//
// A Registry keeps at most one connector per provider for the lifetime of
// the application. The first GetOrCreate call for a provider builds the
// connector; later calls return the same instance and ignore their
// arguments.
//
//	registry := connector.NewRegistry()
//	openai, err := registry.OpenAI("settings/credentials.json")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(openai.Headers()["Authorization"])
package connector
