package embedder

import "context"

// TokenizedInput is one tokenized text ready for transformer inference.
type TokenizedInput struct {
	InputIDs      []int32
	AttentionMask []int32
	TokenTypeIDs  []int32
}

// TransformerBackend is a pluggable inference engine for transformer
// embedding models. The default build has no backend; backend_onnx.go
// provides one behind the 'onnx' build tag.
type TransformerBackend interface {
	// EmbedBatch runs one inference for a batch of tokenized inputs and
	// returns one embedding per input with length == Dimensions.
	EmbedBatch(ctx context.Context, batch []*TokenizedInput) ([][]float32, error)
	// IsReady reports whether the backend is initialized.
	IsReady() bool
	// Close releases any native resources.
	Close() error
}
