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


// Package logging builds the process logger.
//
// New returns a *Logger wrapping a log/slog logger whose records go to the
// console and to a size-rotated file (lumberjack). Writes to all sinks are
// serialized by one mutex that is held only for the duration of a single
// record. The package adds a CRITICAL level above slog.LevelError, used for
// failures that end the process.
//
// The logger is created once at process start and must be closed at
// shutdown:
//
//	cfg, err := logging.ConfigFromEnv()
//	if err != nil {
//	    return err
//	}
//	logger, err := logging.New(cfg)
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//	slog.SetDefault(logger.Logger)
package logging
