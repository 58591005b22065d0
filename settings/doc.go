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


// Package settings loads JSON credential files for connectors.
//
// A settings file is parsed once into a Document. Callers look up the
// sub-mapping they need with Section and extract required values from it;
// every lookup failure is returned as a typed error from the core package:
//
//   - core.ErrSettingsNotFound: the path does not resolve to a file
//   - core.ErrSettingsParse: the file is not valid JSON
//   - core.ErrMissingKey: a required key is absent, empty or of the wrong type
//
// Relative paths that do not exist in the working directory are retried
// against a list of search directories, by default the directory holding the
// running executable.
//
// # Usage
//
//	doc, err := settings.Load("settings/credentials.json")
//	if err != nil {
//	    return err
//	}
//	openai, err := doc.Section("connector", "openai")
//	if err != nil {
//	    return err
//	}
//	key, err := openai.RequiredString("api_key")
package settings
