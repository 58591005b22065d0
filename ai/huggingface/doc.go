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


// Package huggingface provides HuggingFace services authenticated by a
// connector.Connector.
//
// Hub wraps the HuggingFace Hub REST API: Whoami verifies the access token
// and ModelInfo describes a model. Embedder implements ai.Embedder through
// the hosted inference API using langchaingo.
//
//	conn, err := connector.NewHuggingFace("settings/credentials.json")
//	if err != nil {
//	    return err
//	}
//	hub, err := huggingface.NewHub(conn, ai.DefaultConfig())
//	account, err := hub.Whoami(ctx)
//
//	embedder, err := huggingface.NewEmbedder(conn, ai.DefaultConfig())
//	vector, err := embedder.EmbedText(ctx, "sample text")
//
// When the connector lists models, NewEmbedder refuses any model outside
// that list with core.ErrUnsupportedModel.
package huggingface
