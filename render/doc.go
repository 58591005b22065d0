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


// Package render is a client for the RenderForm image rendering API.
//
// A Client is built from a RenderForm connector and speaks two calls:
// GetTemplate fetches a template definition, Render fills a template with
// formatting data and returns the URL of the rendered image. BuildPayload
// assembles the data object without touching the network.
package render
