package mock

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/poiesic/connectors/ai"
	"github.com/poiesic/connectors/core"
)

// PromptCall records one call received by MockPrompter.
type PromptCall struct {
	Text     string
	ImageURL string
	Options  ai.CallOptions
}

// MockPrompter is a test double for ai.Prompter.
type MockPrompter struct {
	// PromptFunc is called by Prompt if set. If nil, Prompt echoes the text.
	PromptFunc func(ctx context.Context, prompt string, opts ai.CallOptions) (string, error)

	// VisionPromptFunc is called by VisionPrompt if set. If nil,
	// VisionPrompt echoes the text and image URL.
	VisionPromptFunc func(ctx context.Context, text, imageURL string, opts ai.CallOptions) (string, error)

	defaults ai.CallOptions
	vision   ai.CallOptions

	mu    sync.Mutex
	calls []PromptCall
}

// NewMockPrompter creates a mock prompter resolving call options against
// ai.DefaultConfig.
func NewMockPrompter() *MockPrompter {
	cfg := ai.DefaultConfig()
	return &MockPrompter{
		defaults: cfg.ChatDefaults(),
		vision:   cfg.VisionDefaults(),
	}
}

// WithPromptFunc sets PromptFunc and returns the prompter.
func (m *MockPrompter) WithPromptFunc(fn func(ctx context.Context, prompt string, opts ai.CallOptions) (string, error)) *MockPrompter {
	m.PromptFunc = fn
	return m
}

// Prompt records the call and returns the echo or the PromptFunc result.
func (m *MockPrompter) Prompt(ctx context.Context, prompt string, opts ...ai.CallOption) (string, error) {
	call := ai.ResolveCallOptions(m.defaults, opts...)
	m.record(PromptCall{Text: prompt, Options: call})

	if m.PromptFunc != nil {
		return m.PromptFunc(ctx, prompt, call)
	}
	if strings.TrimSpace(prompt) == "" {
		return "", core.ErrEmptyMessage
	}
	return "echo: " + prompt, nil
}

// VisionPrompt records the call and returns the echo or the
// VisionPromptFunc result.
func (m *MockPrompter) VisionPrompt(ctx context.Context, text, imageURL string, opts ...ai.CallOption) (string, error) {
	call := ai.ResolveCallOptions(m.vision, opts...)
	m.record(PromptCall{Text: text, ImageURL: imageURL, Options: call})

	if m.VisionPromptFunc != nil {
		return m.VisionPromptFunc(ctx, text, imageURL, call)
	}
	if strings.TrimSpace(text) == "" || strings.TrimSpace(imageURL) == "" {
		return "", core.ErrEmptyMessage
	}
	return fmt.Sprintf("echo: %s [%s]", text, imageURL), nil
}

// Calls returns a copy of the recorded calls.
func (m *MockPrompter) Calls() []PromptCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PromptCall(nil), m.calls...)
}

// CallCount returns the number of times any method was called.
func (m *MockPrompter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Reset clears recorded calls and custom functions.
func (m *MockPrompter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.PromptFunc = nil
	m.VisionPromptFunc = nil
}

func (m *MockPrompter) record(call PromptCall) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}
