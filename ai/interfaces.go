package ai

import "context"

// Embedder generates vector embeddings from text.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns core.ErrEmptyMessage if text is blank.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Prompter sends a single user message to a chat model and returns the
// completion text.
// Implementations must be thread-safe for concurrent use.
type Prompter interface {
	// Prompt sends prompt as one user message. Model, temperature and token
	// limit default to the Config chat settings; opts override any of them
	// for this call.
	Prompt(ctx context.Context, prompt string, opts ...CallOption) (string, error)

	// VisionPrompt sends text together with the image at imageURL. Defaults
	// come from the Config vision settings.
	VisionPrompt(ctx context.Context, text, imageURL string, opts ...CallOption) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates its services from one connector so they share
// credentials and transport.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Prompter returns the chat completion service.
	// The returned Prompter is safe for concurrent use.
	Prompter() Prompter

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
