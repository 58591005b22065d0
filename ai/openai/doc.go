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


// Package openai provides AI service implementations using OpenAI-compatible APIs.
//
// This package implements the ai.AIProvider interface using the langchaingo
// library. Every service is authenticated by a connector.Connector: the
// connector supplies the API key and, when present, the organization id
// sent as OpenAI-Organization.
//
// # Usage
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
//	vector, err := provider.Embedder().EmbedText(ctx, "sample text")
//	answer, err := provider.Prompter().Prompt(ctx, "Describe Paris", ai.WithCallMaxTokens(100))
//	caption, err := provider.Prompter().VisionPrompt(ctx, "What is shown?", "https://example.com/a.png")
//
// RESTEmbedder talks to the embeddings endpoint without langchaingo. It is
// meant for the standalone embedding service credentials
// (connector.NewOpenAIService) and can return the whole response "data"
// array through EmbeddingData.
package openai
