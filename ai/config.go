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


package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for AI service providers.
type Config struct {
	// BaseURL is the base URL of the OpenAI API.
	// Example: "http://localhost:11434/v1" for a local OpenAI-compatible server
	// Default: "https://api.openai.com/v1"
	BaseURL string

	// EmbeddingModel is the OpenAI model used for text embeddings.
	// Default: "text-embedding-ada-002"
	EmbeddingModel string

	// ChatModel is the model used by Prompt.
	// Default: "gpt-4"
	ChatModel string

	// MaxTokens limits Prompt completions.
	// Default: 300
	MaxTokens int

	// Temperature is the sampling temperature for prompts, between 0 and 2.
	// Default: 0.4
	Temperature float64

	// VisionModel is the model used by VisionPrompt.
	// Default: "gpt-4-vision-preview"
	VisionModel string

	// VisionMaxTokens limits VisionPrompt completions.
	// Default: 330
	VisionMaxTokens int

	// HubURL is the HuggingFace Hub API host.
	// Default: "https://huggingface.co"
	HubURL string

	// InferenceURL is the HuggingFace inference API host.
	// Default: "https://api-inference.huggingface.co"
	InferenceURL string

	// HubEmbeddingModel is the HuggingFace model used for embeddings.
	// Default: "sentence-transformers/all-MiniLM-L6-v2"
	HubEmbeddingModel string

	// ChunkSize is the maximum chunk length, in characters, used when
	// splitting text before embedding.
	// Default: 1000
	ChunkSize int

	// ChunkOverlap is the number of characters shared by adjacent chunks.
	// Default: 200
	ChunkOverlap int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBaseURL sets the OpenAI API base URL.
func WithBaseURL(url string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithEmbeddingModel sets the OpenAI embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithChatModel sets the chat model identifier.
func WithChatModel(model string) ConfigOption {
	return func(c *Config) {
		c.ChatModel = model
	}
}

// WithMaxTokens sets the completion token limit for Prompt.
func WithMaxTokens(n int) ConfigOption {
	return func(c *Config) {
		c.MaxTokens = n
	}
}

// WithTemperature sets the default sampling temperature.
func WithTemperature(t float64) ConfigOption {
	return func(c *Config) {
		c.Temperature = t
	}
}

// WithVisionModel sets the model identifier used by VisionPrompt.
func WithVisionModel(model string) ConfigOption {
	return func(c *Config) {
		c.VisionModel = model
	}
}

// WithVisionMaxTokens sets the completion token limit for VisionPrompt.
func WithVisionMaxTokens(n int) ConfigOption {
	return func(c *Config) {
		c.VisionMaxTokens = n
	}
}

// WithHubURL sets the HuggingFace Hub API host.
func WithHubURL(url string) ConfigOption {
	return func(c *Config) {
		c.HubURL = url
	}
}

// WithInferenceURL sets the HuggingFace inference API host.
func WithInferenceURL(url string) ConfigOption {
	return func(c *Config) {
		c.InferenceURL = url
	}
}

// WithHubEmbeddingModel sets the HuggingFace embedding model identifier.
func WithHubEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.HubEmbeddingModel = model
	}
}

// WithChunking sets the text splitter chunk size and overlap.
func WithChunking(size, overlap int) ConfigOption {
	return func(c *Config) {
		c.ChunkSize = size
		c.ChunkOverlap = overlap
	}
}

// DefaultConfig returns a Config with the defaults for the hosted OpenAI and
// HuggingFace services.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:           "https://api.openai.com/v1",
		EmbeddingModel:    "text-embedding-ada-002",
		ChatModel:         "gpt-4",
		MaxTokens:         300,
		Temperature:       0.4,
		VisionModel:       "gpt-4-vision-preview",
		VisionMaxTokens:   330,
		HubURL:            "https://huggingface.co",
		InferenceURL:      "https://api-inference.huggingface.co",
		HubEmbeddingModel: "sentence-transformers/all-MiniLM-L6-v2",
		ChunkSize:         1000,
		ChunkOverlap:      200,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithBaseURL("http://localhost:11434/v1"),
//	    WithEmbeddingModel("text-embedding-3-small"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It adds the /v1 suffix to BaseURL if missing, which is required by
// OpenAI-compatible APIs, and strips trailing slashes from the HuggingFace
// hosts.
func (c *Config) Normalize() {
	if c.BaseURL != "" && !strings.HasSuffix(c.BaseURL, "/v1") {
		c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
		c.BaseURL = c.BaseURL + "/v1"
	}
	c.HubURL = strings.TrimSuffix(c.HubURL, "/")
	c.InferenceURL = strings.TrimSuffix(c.InferenceURL, "/")
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.BaseURL == "" {
		return errors.New("ai config: BaseURL is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.ChatModel == "" {
		return errors.New("ai config: ChatModel is required")
	}
	if c.VisionModel == "" {
		return errors.New("ai config: VisionModel is required")
	}
	if c.MaxTokens <= 0 || c.VisionMaxTokens <= 0 {
		return errors.New("ai config: token limits must be greater than 0")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return errors.New("ai config: Temperature must be between 0 and 2")
	}
	if c.HubURL == "" || c.InferenceURL == "" {
		return errors.New("ai config: HubURL and InferenceURL are required")
	}
	if c.HubEmbeddingModel == "" {
		return errors.New("ai config: HubEmbeddingModel is required")
	}
	if c.ChunkSize <= 0 {
		return errors.New("ai config: ChunkSize must be greater than 0")
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return errors.New("ai config: ChunkOverlap must be between 0 and ChunkSize")
	}
	return nil
}
