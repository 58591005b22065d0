// Package mock provides in-process doubles for the ai service interfaces.
//
// MockEmbedder returns a deterministic vector derived from the text hash, so
// equal texts always embed to equal vectors. MockPrompter echoes the prompt
// and records the call options it resolved, which lets tests check how
// per-call overrides merge with the Config defaults. MockProvider bundles
// one of each.
//
// Each double accepts an override function for error injection:
//
//	embedder := mock.NewMockEmbedder().
//	    WithEmbedTextsFunc(func(ctx context.Context, texts []string) ([][]float32, error) {
//	        return nil, core.ErrUnexpectedStatus
//	    })
//	pipeline, err := ingestion.NewPipeline(embedder, ai.DefaultConfig())
//
// CallCount and TextsCount report how often the upstream would have been hit,
// which is what the embedding cache tests assert on.
package mock
