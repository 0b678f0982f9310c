package embedder

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"go.uber.org/zap"
)

// BERT-style special token ids.
const (
	tokenCLS = 101
	tokenSEP = 102
	// hashVocabSize is the id range the hash tokenizer maps words into,
	// offset past the special tokens.
	hashVocabSize = 28000
	tokenOffset   = 1000
)

// OnnxEmbedder runs a local transformer model through the ONNX backend.
// Tokenization hashes whitespace-split words into a fixed vocabulary
// range: deterministic and adequate for relative similarity, not a
// drop-in for the model's real tokenizer.
type OnnxEmbedder struct {
	backend   TransformerBackend
	maxLength int
	logger    *zap.Logger
}

// NewOnnxEmbedder creates an ONNX-backed embedder. It fails when the
// binary was built without the 'onnx' tag or the model cannot load.
func NewOnnxEmbedder(modelPath string, maxLength int, logger *zap.Logger) (*OnnxEmbedder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxLength <= 2 {
		maxLength = 512
	}

	backend := newTransformerBackend(logger, modelPath)
	if backend == nil || !backend.IsReady() {
		return nil, fmt.Errorf("onnx backend unavailable (build with -tags onnx and a valid model path)")
	}

	return &OnnxEmbedder{backend: backend, maxLength: maxLength, logger: logger}, nil
}

// Embed generates an embedding for one text.
func (e *OnnxEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// EmbedBatch tokenizes and embeds texts in one inference call.
func (e *OnnxEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	batch := make([]*TokenizedInput, 0, len(texts))
	for _, text := range texts {
		if strings.TrimSpace(text) == "" {
			return nil, ErrEmptyText
		}
		batch = append(batch, e.tokenize(text))
	}

	embeddings, err := e.backend.EmbedBatch(ctx, batch)
	if err != nil {
		return nil, err
	}
	for i := range embeddings {
		embeddings[i] = normalize(embeddings[i])
	}
	return embeddings, nil
}

// Close releases the backend.
func (e *OnnxEmbedder) Close() error {
	return e.backend.Close()
}

// tokenize maps words to hashed ids, pads or truncates to maxLength.
func (e *OnnxEmbedder) tokenize(text string) *TokenizedInput {
	words := strings.Fields(strings.ToLower(text))
	if len(words) > e.maxLength-2 {
		words = words[:e.maxLength-2]
	}

	ids := make([]int32, e.maxLength)
	mask := make([]int32, e.maxLength)
	types := make([]int32, e.maxLength)

	ids[0] = tokenCLS
	mask[0] = 1
	for i, word := range words {
		h := fnv.New32a()
		h.Write([]byte(word))
		ids[i+1] = int32(tokenOffset + h.Sum32()%hashVocabSize)
		mask[i+1] = 1
	}
	ids[len(words)+1] = tokenSEP
	mask[len(words)+1] = 1

	return &TokenizedInput{InputIDs: ids, AttentionMask: mask, TokenTypeIDs: types}
}
