package ingestion

import (
	"strings"

	"github.com/poiesic/connectors/ai"
	"github.com/tmc/langchaingo/textsplitter"
)

// Splitter cuts text into overlapping chunks.
type Splitter struct {
	splitter textsplitter.TextSplitter
}

// NewSplitter creates a recursive character splitter sized by config. With
// markdown set, headings and code blocks are kept intact where possible.
func NewSplitter(config *ai.Config, markdown bool) (*Splitter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	opts := []textsplitter.Option{
		textsplitter.WithChunkSize(config.ChunkSize),
		textsplitter.WithChunkOverlap(config.ChunkOverlap),
	}
	if markdown {
		return &Splitter{splitter: textsplitter.NewMarkdownTextSplitter(opts...)}, nil
	}
	return &Splitter{splitter: textsplitter.NewRecursiveCharacter(opts...)}, nil
}

// Split returns the non-blank chunks of text in document order.
func (s *Splitter) Split(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return []string{}, nil
	}
	parts, err := s.splitter.SplitText(text)
	if err != nil {
		return nil, err
	}
	chunks := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			chunks = append(chunks, part)
		}
	}
	return chunks, nil
}
