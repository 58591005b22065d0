package ai

// CallOptions are the resolved parameters of one model call.
type CallOptions struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// CallOption overrides one parameter of a single call.
type CallOption func(*CallOptions)

// WithCallModel overrides the model for one call.
func WithCallModel(model string) CallOption {
	return func(o *CallOptions) {
		o.Model = model
	}
}

// WithCallTemperature overrides the sampling temperature for one call.
func WithCallTemperature(temperature float64) CallOption {
	return func(o *CallOptions) {
		o.Temperature = temperature
	}
}

// WithCallMaxTokens overrides the completion token limit for one call.
func WithCallMaxTokens(maxTokens int) CallOption {
	return func(o *CallOptions) {
		o.MaxTokens = maxTokens
	}
}

// ResolveCallOptions applies opts on top of defaults.
func ResolveCallOptions(defaults CallOptions, opts ...CallOption) CallOptions {
	resolved := defaults
	for _, opt := range opts {
		opt(&resolved)
	}
	return resolved
}

// ChatDefaults returns the call defaults for text prompts.
func (c *Config) ChatDefaults() CallOptions {
	return CallOptions{
		Model:       c.ChatModel,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	}
}

// VisionDefaults returns the call defaults for vision prompts.
func (c *Config) VisionDefaults() CallOptions {
	return CallOptions{
		Model:       c.VisionModel,
		Temperature: c.Temperature,
		MaxTokens:   c.VisionMaxTokens,
	}
}
