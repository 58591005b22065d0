package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/poiesic/connectors/ai"
	"github.com/poiesic/connectors/connector"
	"github.com/poiesic/connectors/core"
	"github.com/poiesic/connectors/ingestion"
	"github.com/poiesic/connectors/render"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v2"
)

var errUsage = errors.New("invalid usage")

func argText(c *cli.Context, what string) (string, error) {
	text := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s is required", errUsage, what)
	}
	return text, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *runner) helpConnectorCommand(c *cli.Context) error {
	name, err := argText(c, "provider")
	if err != nil {
		return err
	}
	provider := core.Provider(strings.ToLower(name))
	if err := core.ValidateProvider(provider); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, connector.HelpFor(provider))
	return nil
}

func (r *runner) embedCommand(c *cli.Context) error {
	text, err := argText(c, "text")
	if err != nil {
		return err
	}

	var embedder ai.Embedder
	switch c.String("provider") {
	case "openai":
		embedder, err = r.services.Embedder()
	case "huggingface":
		embedder, err = r.services.HubEmbedder(c.String("model"))
	case "openai-service":
		rest, restErr := r.services.RESTEmbedder()
		if restErr != nil {
			return restErr
		}
		if c.Bool("metadata") {
			data, err := rest.EmbeddingData(c.Context, text)
			if err != nil {
				return err
			}
			return printJSON(c.App.Writer, data)
		}
		embedder = rest
	default:
		return fmt.Errorf("%w: unknown provider %q", errUsage, c.String("provider"))
	}
	if err != nil {
		return err
	}

	vector, err := embedder.EmbedText(c.Context, text)
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, vector)
}

func callOptions(c *cli.Context) []ai.CallOption {
	var opts []ai.CallOption
	if model := c.String("model"); model != "" {
		opts = append(opts, ai.WithCallModel(model))
	}
	if n := c.Int("max-tokens"); n > 0 {
		opts = append(opts, ai.WithCallMaxTokens(n))
	}
	if t := c.Float64("temperature"); t >= 0 {
		opts = append(opts, ai.WithCallTemperature(t))
	}
	return opts
}

func (r *runner) promptCommand(c *cli.Context) error {
	prompt, err := argText(c, "prompt")
	if err != nil {
		return err
	}
	prompter, err := r.services.Prompter()
	if err != nil {
		return err
	}
	reply, err := prompter.Prompt(c.Context, prompt, callOptions(c)...)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, reply)
	return nil
}

func (r *runner) visionCommand(c *cli.Context) error {
	question, err := argText(c, "question")
	if err != nil {
		return err
	}
	prompter, err := r.services.Prompter()
	if err != nil {
		return err
	}
	reply, err := prompter.VisionPrompt(c.Context, question, c.String("image-url"), callOptions(c)...)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, reply)
	return nil
}

// parseProperties turns element.property=value pairs into a formatting map.
// Values that are valid JSON keep their JSON type; anything else is a string.
func parseProperties(pairs []string) (map[string]any, error) {
	props := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: property %q must be element.property=value", errUsage, pair)
		}
		if gjson.Valid(value) {
			props[key] = gjson.Parse(value).Value()
		} else {
			props[key] = value
		}
	}
	return props, nil
}

func (r *runner) renderCommand(c *cli.Context) error {
	props, err := parseProperties(c.StringSlice("set"))
	if err != nil {
		return err
	}
	client, err := r.services.Render()
	if err != nil {
		return err
	}
	href, err := client.Render(c.Context, render.Request{
		TemplateID:     c.String("template"),
		Formatting:     props,
		ImageContainer: c.String("image-tag"),
		ImageURL:       c.String("image-url"),
		TextContainer:  c.String("text-tag"),
		ImageText:      c.String("text"),
		Version:        c.String("version"),
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, href)
	return nil
}

func (r *runner) templateCommand(c *cli.Context) error {
	id, err := argText(c, "template id")
	if err != nil {
		return err
	}
	client, err := r.services.Render()
	if err != nil {
		return err
	}
	template, err := client.GetTemplate(c.Context, id, c.String("version"))
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, template)
}

func (r *runner) whoamiCommand(c *cli.Context) error {
	hub, err := r.services.Hub()
	if err != nil {
		return err
	}
	account, err := hub.Whoami(c.Context)
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, account)
}

func (r *runner) modelInfoCommand(c *cli.Context) error {
	id, err := argText(c, "model id")
	if err != nil {
		return err
	}
	hub, err := r.services.Hub()
	if err != nil {
		return err
	}
	info, err := hub.ModelInfo(c.Context, id)
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, info)
}

func readDocument(c *cli.Context) (string, error) {
	if c.NArg() > 0 {
		data, err := os.ReadFile(c.Args().First())
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := io.ReadAll(c.App.Reader)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (r *runner) splitCommand(c *cli.Context) error {
	text, err := readDocument(c)
	if err != nil {
		return err
	}

	config := ai.NewConfig(ai.WithChunking(c.Int("chunk-size"), c.Int("chunk-overlap")))
	if err := config.Validate(); err != nil {
		return err
	}
	splitter, err := ingestion.NewSplitter(config, c.Bool("markdown"))
	if err != nil {
		return err
	}
	chunks, err := splitter.Split(text)
	if err != nil {
		return err
	}

	if !c.Bool("embed") {
		for i, chunk := range chunks {
			fmt.Fprintf(c.App.Writer, "--- chunk %d (%d chars)\n%s\n", i, len([]rune(chunk)), chunk)
		}
		return nil
	}

	embedder, err := r.services.Embedder()
	if err != nil {
		return err
	}
	tracker := ingestion.NewProgressTracker(c.App.ErrWriter, len(chunks), c.Int("report-interval"))
	opts := []ingestion.Option{
		ingestion.WithBatchSize(c.Int("batch-size")),
		ingestion.WithProgress(tracker),
	}
	if c.Bool("markdown") {
		opts = append(opts, ingestion.WithMarkdown())
	}
	pipeline, err := ingestion.NewPipeline(embedder, config, opts...)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	tracker.Start()
	vectors, err := pipeline.EmbedChunks(c.Context, chunks)
	if err != nil {
		return err
	}
	tracker.Finish()

	for i, vector := range vectors {
		fmt.Fprintf(c.App.Writer, "%d\t%d\t%s\n", i, len(vector), preview(chunks[i], 60))
	}
	if cached, ok := embedder.(*ingestion.CachingEmbedder); ok {
		stats := cached.Stats()
		r.logger.Info("embedding cache", "hits", stats.Hits, "misses", stats.Misses)
	}
	return nil
}

func (r *runner) similarCommand(c *cli.Context) error {
	text, err := argText(c, "text")
	if err != nil {
		return err
	}
	cache := r.services.Cache()
	if cache == nil {
		return fmt.Errorf("%w: --cache-dir is required", errUsage)
	}
	embedder, err := r.services.Embedder()
	if err != nil {
		return err
	}
	vector, err := embedder.EmbedText(c.Context, text)
	if err != nil {
		return err
	}

	results, err := cache.FindSimilar(c.Context, r.services.AIConfig().EmbeddingModel, vector,
		float32(c.Float64("min-similarity")), c.Int("limit"))
	if err != nil {
		return err
	}
	for _, result := range results {
		if result.Entry.Text == text {
			continue
		}
		fmt.Fprintf(c.App.Writer, "%.4f\t%s\n", result.Score, preview(result.Entry.Text, 80))
	}
	return nil
}

func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
