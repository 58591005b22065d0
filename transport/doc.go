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


// Package transport builds the HTTP clients used for every outbound
// provider call.
//
// All clients share the same policy: a request timeout, an optional token
// bucket rate limit (requests wait for a token, they are not rejected), a
// generated X-Request-Id header, and debug logging through slog. New returns
// a resty client for hand-written REST calls; HTTPClient returns a plain
// *http.Client carrying the same policy for SDKs that take one.
//
// CheckResponse turns a resty result into the error taxonomy of the core
// package so callers never inspect status codes themselves.
package transport
