package core

import (
	"encoding/binary"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// ID is a content derived identifier.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// IDFromParts hashes several strings into one ID. Parts are separated by a
// NUL byte so ("ab", "c") and ("a", "bc") do not collide.
func IDFromParts(parts ...string) ID {
	return IDFromContent(strings.Join(parts, "\x00"))
}

// Provider identifies a third-party service a connector authenticates against.
type Provider string

const (
	// ProviderOpenAI is the OpenAI connector backed by the shared credentials file.
	ProviderOpenAI Provider = "openai"
	// ProviderHuggingFace is the HuggingFace hub connector.
	ProviderHuggingFace Provider = "huggingface"
	// ProviderOpenAIService is the standalone OpenAI HTTP connector with its
	// own flat settings file.
	ProviderOpenAIService Provider = "openai-service"
	// ProviderRenderForm is the RenderForm image rendering connector.
	ProviderRenderForm Provider = "renderform"
)

// DisplayName returns the human readable provider name.
func (p Provider) DisplayName() string {
	switch p {
	case ProviderOpenAI, ProviderOpenAIService:
		return "OpenAI"
	case ProviderHuggingFace:
		return "HuggingFace"
	case ProviderRenderForm:
		return "RenderForm"
	default:
		return string(p)
	}
}

// ModelDescriptor describes a model enabled in the credentials file.
type ModelDescriptor struct {
	Name    string
	DimSize int // Embedding dimension, 0 when unknown or not an embedding model
}
