package service

import "context"

// TextGenerator is a completion backend. Lower temperature means more deterministic output.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, temperature float32) (string, error)
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
