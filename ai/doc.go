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


// Package ai provides abstractions for the AI services reached through
// connectors.
//
// This package defines interfaces for text embeddings and chat prompts. It
// follows the dependency inversion principle, allowing callers to depend on
// abstractions rather than concrete provider clients.
//
// # Design Principles
//
// The package is designed around three key interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - Prompter: Sends text or text plus image prompts to a chat model
//   - AIProvider: Aggregates AI services for convenient initialization
//
// Config carries the model defaults (model names, temperature, token limits,
// chunking). Any subset can be overridden per call with CallOption values:
//
//	answer, err := prompter.Prompt(ctx, "Summarize this", ai.WithCallTemperature(0))
//
// # Implementation Packages
//
//   - ai/openai: OpenAI chat, vision and embeddings via langchaingo, plus a
//     plain REST embedder for the standalone embedding service
//   - ai/huggingface: HuggingFace Hub account checks and hosted embeddings
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, openai.NewEmbedder, etc.) return
// INTERFACE types to enforce abstraction and prevent accidental coupling to
// concrete implementations.
//
//	provider, err := openai.NewProvider(conn, config)  // returns ai.AIProvider
//
// Test utility constructors (mock.NewMockEmbedder, mock.NewMockPrompter)
// return CONCRETE types to enable test assertions and behavior injection via
// the mock's public methods (CallCount, WithXFunc, Reset, etc.).
//
// # Usage Example
//
//	conn, err := connector.NewOpenAI("settings/credentials.json")
//	if err != nil {
//	    return err
//	}
//	provider, err := openai.NewProvider(conn, ai.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "Hello world")
//	answer, err := provider.Prompter().Prompt(ctx, "Say hello")
package ai
