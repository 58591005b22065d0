package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/connectors/ai"
	"github.com/poiesic/connectors/connector"
	"github.com/poiesic/connectors/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Prompter implements ai.Prompter using the OpenAI chat completions API.
type Prompter struct {
	client llms.Model
	chat   ai.CallOptions
	vision ai.CallOptions
	logger *slog.Logger
}

// newPrompter is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newPrompter(conn *connector.Connector, config *ai.Config, o options) (*Prompter, error) {
	if err := checkConnector(conn); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := newLLM(conn, config, o)
	if err != nil {
		return nil, err
	}

	return &Prompter{
		client: client,
		chat:   config.ChatDefaults(),
		vision: config.VisionDefaults(),
		logger: o.logger.With("component", "openai-prompter"),
	}, nil
}

// NewPrompter creates a chat prompter authenticated by conn.
// Returns ai.Prompter interface to enforce abstraction.
func NewPrompter(conn *connector.Connector, config *ai.Config, opts ...Option) (ai.Prompter, error) {
	o, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	return newPrompter(conn, config, o)
}

// Prompt sends prompt as a single user message and returns the first
// completion.
func (p *Prompter) Prompt(ctx context.Context, prompt string, opts ...ai.CallOption) (string, error) {
	if err := requireText(prompt); err != nil {
		return "", err
	}
	call := ai.ResolveCallOptions(p.chat, opts...)

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(prompt)},
		},
	}
	return p.generate(ctx, "prompt", content, call)
}

// VisionPrompt sends text together with the image at imageURL.
func (p *Prompter) VisionPrompt(ctx context.Context, text, imageURL string, opts ...ai.CallOption) (string, error) {
	if err := requireText(text); err != nil {
		return "", err
	}
	if strings.TrimSpace(imageURL) == "" {
		return "", fmt.Errorf("%w: image url", core.ErrEmptyMessage)
	}
	call := ai.ResolveCallOptions(p.vision, opts...)

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(text),
				llms.ImageURLPart(imageURL),
			},
		},
	}
	return p.generate(ctx, "vision prompt", content, call)
}

func (p *Prompter) generate(ctx context.Context, op string, content []llms.MessageContent, call ai.CallOptions) (string, error) {
	if err := contextErr(ctx); err != nil {
		return "", err
	}
	p.logger.Debug("sending prompt", "op", op, "model", call.Model, "max_tokens", call.MaxTokens)

	response, err := p.client.GenerateContent(ctx, content,
		llms.WithModel(call.Model),
		llms.WithTemperature(call.Temperature),
		llms.WithMaxTokens(call.MaxTokens),
		openai.WithLegacyMaxTokensField(),
	)
	if err != nil {
		p.logger.Error("failed to generate content", "op", op, "err", err)
		return "", wrapError(op, err)
	}

	if len(response.Choices) < 1 {
		return "", fmt.Errorf("%w: %s: choices", core.ErrMissingField, op)
	}
	return response.Choices[0].Content, nil
}
