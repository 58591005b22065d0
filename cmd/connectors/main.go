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



package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/poiesic/connectors"
	"github.com/poiesic/connectors/ai"
	"github.com/poiesic/connectors/logging"
	"github.com/poiesic/connectors/transport"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := &runner{}
	err := newApp(r).RunContext(ctx, os.Args)
	if err != nil {
		r.critical(err)
	}
	r.close()
	if err != nil {
		stop()
		os.Exit(1)
	}
}

// runner holds the process-wide logger and services built by the Before hook.
type runner struct {
	logger   *logging.Logger
	services *connectors.Services
}

func newApp(r *runner) *cli.App {
	return &cli.App{
		Name:  "connectors",
		Usage: "Credential-gated clients for OpenAI, HuggingFace and RenderForm",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error, critical)",
			},
			&cli.StringFlag{
				Name:    "settings",
				Aliases: []string{"s"},
				Usage:   "Path to the OpenAI/HuggingFace credentials file",
				Value:   connectors.DefaultCredentialsPath,
			},
			&cli.StringFlag{
				Name:  "service-settings",
				Usage: "Path to the embedding service settings file",
				Value: connectors.DefaultServicePath,
			},
			&cli.StringFlag{
				Name:  "renderform-settings",
				Usage: "Path to the RenderForm settings file",
				Value: connectors.DefaultRenderFormPath,
			},
			&cli.BoolFlag{
				Name:  "no-organization",
				Usage: "Do not require or send an OpenAI organization id",
			},
			&cli.StringFlag{
				Name:  "base-url",
				Usage: "OpenAI-compatible API base URL",
			},
			&cli.StringFlag{
				Name:  "cache-dir",
				Usage: "Directory of the persistent embedding cache (disabled when empty)",
			},
		},
		Before: r.setup,
		Commands: []*cli.Command{
			{
				Name:      "help-connector",
				Usage:     "Show settings and usage notes for a provider",
				ArgsUsage: "<openai|huggingface|openai-service|renderform>",
				Action:    r.helpConnectorCommand,
			},
			{
				Name:      "embed",
				Usage:     "Print the embedding vector of a text",
				ArgsUsage: "<text>",
				Action:    r.embedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "provider",
						Aliases: []string{"p"},
						Usage:   "Embedding provider (openai, huggingface, openai-service)",
						Value:   "openai",
					},
					&cli.StringFlag{
						Name:  "model",
						Usage: "HuggingFace model id (defaults to the configured hub model)",
					},
					&cli.BoolFlag{
						Name:  "metadata",
						Usage: "Print the full response data (openai-service only)",
					},
				},
			},
			{
				Name:      "prompt",
				Usage:     "Send a chat prompt and print the reply",
				ArgsUsage: "<prompt>",
				Action:    r.promptCommand,
				Flags:     callFlags(),
			},
			{
				Name:      "vision",
				Usage:     "Ask a question about an image",
				ArgsUsage: "<question>",
				Action:    r.visionCommand,
				Flags: append(callFlags(),
					&cli.StringFlag{
						Name:     "image-url",
						Aliases:  []string{"i"},
						Usage:    "URL of the image",
						Required: true,
					},
				),
			},
			{
				Name:   "render",
				Usage:  "Render a RenderForm template and print the image URL",
				Action: r.renderCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "template",
						Aliases:  []string{"t"},
						Usage:    "Template id",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:  "set",
						Usage: "Template property as element.property=value (repeatable)",
					},
					&cli.StringFlag{
						Name:  "image-url",
						Usage: "Image placed into the image element",
					},
					&cli.StringFlag{
						Name:  "image-tag",
						Usage: "Image element name",
					},
					&cli.StringFlag{
						Name:  "text",
						Usage: "Text placed into the text element",
					},
					&cli.StringFlag{
						Name:  "text-tag",
						Usage: "Text element name",
					},
					&cli.StringFlag{
						Name:  "version",
						Usage: "API version",
					},
				},
			},
			{
				Name:      "template",
				Usage:     "Print a RenderForm template definition",
				ArgsUsage: "<template id>",
				Action:    r.templateCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "version",
						Usage: "API version",
					},
				},
			},
			{
				Name:   "whoami",
				Usage:  "Show the HuggingFace account behind the token",
				Action: r.whoamiCommand,
			},
			{
				Name:      "model-info",
				Usage:     "Show HuggingFace Hub metadata for a model",
				ArgsUsage: "<model id>",
				Action:    r.modelInfoCommand,
			},
			{
				Name:      "split",
				Usage:     "Split a document into chunks, optionally embedding them",
				ArgsUsage: "[file]",
				Action:    r.splitCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Maximum chunk size in characters",
						Value: ai.DefaultConfig().ChunkSize,
					},
					&cli.IntFlag{
						Name:  "chunk-overlap",
						Usage: "Characters shared by neighbouring chunks",
						Value: ai.DefaultConfig().ChunkOverlap,
					},
					&cli.BoolFlag{
						Name:  "markdown",
						Usage: "Split along markdown structure",
					},
					&cli.BoolFlag{
						Name:  "embed",
						Usage: "Embed the chunks with OpenAI",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks per embedding request",
						Value: 16,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N chunks",
						Value: 100,
					},
				},
			},
			{
				Name:      "similar",
				Usage:     "List cached texts most similar to a query",
				ArgsUsage: "<text>",
				Action:    r.similarCommand,
				Flags: []cli.Flag{
					&cli.Float64Flag{
						Name:  "min-similarity",
						Usage: "Minimum cosine similarity",
						Value: 0.5,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: 10,
					},
				},
			},
		},
	}
}

func callFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "model",
			Usage: "Model override",
		},
		&cli.IntFlag{
			Name:  "max-tokens",
			Usage: "Maximum tokens in the reply",
		},
		&cli.Float64Flag{
			Name:  "temperature",
			Usage: "Sampling temperature",
			Value: -1,
		},
	}
}

// setup loads .env, then builds the logger and services from the
// environment and the global flags.
func (r *runner) setup(c *cli.Context) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	logCfg, err := logging.ConfigFromEnv()
	if err != nil {
		return err
	}
	if c.IsSet("log-level") {
		logCfg.Level = c.String("log-level")
	}
	if logCfg.Name == "" {
		logCfg.Name = c.App.Name
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return err
	}
	r.logger = logger
	slog.SetDefault(logger.Logger)

	httpCfg, err := transport.ConfigFromEnv()
	if err != nil {
		return err
	}

	var aiOpts []ai.ConfigOption
	if c.IsSet("base-url") {
		aiOpts = append(aiOpts, ai.WithBaseURL(c.String("base-url")))
	}

	opts := []connectors.Option{
		connectors.WithCredentials(c.String("settings")),
		connectors.WithServiceSettings(c.String("service-settings")),
		connectors.WithRenderFormSettings(c.String("renderform-settings")),
		connectors.WithOrganization(!c.Bool("no-organization")),
		connectors.WithAIConfig(ai.NewConfig(aiOpts...)),
		connectors.WithTransportConfig(httpCfg),
		connectors.WithLogger(logger.Logger),
	}
	if dir := c.String("cache-dir"); dir != "" {
		opts = append(opts, connectors.WithCacheDir(dir))
	}

	services, err := connectors.New(opts...)
	if err != nil {
		return err
	}
	r.services = services
	return nil
}

// critical records a fatal error. Before the logger exists it falls back to
// the default slog logger.
func (r *runner) critical(err error) {
	if r.logger != nil {
		r.logger.Critical("command failed", "err", err)
		return
	}
	slog.Error("command failed", "err", err)
}

func (r *runner) close() {
	if r.services != nil {
		if err := r.services.Close(); err != nil {
			slog.Error("failed to close services", "err", err)
		}
	}
	if r.logger != nil {
		_ = r.logger.Close()
	}
}
