package ai

import "context"

// Generator produces free-form text for a natural-language prompt.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Embedder maps a sentence into a fixed-dimension vector space suitable for
// cosine comparison.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}
