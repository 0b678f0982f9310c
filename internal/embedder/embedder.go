// Package embedder provides local implementations of the embedding
// collaborator the pipeline treats as an injected function. The core
// packages never import this; only the CLIs and the corpus evaluator
// do.
package embedder

import (
	"context"
	"errors"
)

// Dimensions is the embedding size every implementation produces.
const Dimensions = 384

// ErrEmptyText is returned when there is nothing to embed.
var ErrEmptyText = errors.New("embedder: empty text")

// Embedder turns text into a fixed-dimension vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Close() error
}
