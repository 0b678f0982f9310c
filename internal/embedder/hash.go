package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"hash/fnv"
	"math"
	"strings"

	"go.uber.org/zap"
)

// HashEmbedder produces fast deterministic embeddings from text hashes
// mixed with bag-of-words features. Identical text always maps to an
// identical vector; word overlap raises similarity. Useful for tests
// and for development without a model, not a substitute for a real
// embedding provider.
type HashEmbedder struct {
	logger *zap.Logger
}

// NewHashEmbedder creates a hash-based embedder.
func NewHashEmbedder(logger *zap.Logger) *HashEmbedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("hash embedder initialized", zap.Int("dimensions", Dimensions))
	return &HashEmbedder{logger: logger}
}

// Embed generates a deterministic embedding for text.
func (e *HashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	embedding := make([]float32, Dimensions)
	normalized := strings.ToLower(strings.TrimSpace(text))

	// Counter-mode hashing gives roughly orthogonal base vectors for
	// distinct texts.
	seed := sha256.Sum256([]byte(normalized))
	var counter [40]byte
	copy(counter[:32], seed[:])
	for i := 0; i < Dimensions; i += 8 {
		binary.LittleEndian.PutUint64(counter[32:], uint64(i))
		block := sha256.Sum256(counter[:])
		for j := 0; j < 8 && i+j < Dimensions; j++ {
			bits := binary.LittleEndian.Uint32(block[j*4 : j*4+4])
			embedding[i+j] = float32(bits)/float32(math.MaxUint32)*2 - 1
		}
	}

	// Bag-of-words mixing so overlapping vocabulary pulls vectors
	// together.
	for _, word := range strings.Fields(normalized) {
		h := fnv.New32a()
		h.Write([]byte(word))
		embedding[h.Sum32()%Dimensions] += 4
	}

	return normalize(embedding), nil
}

// EmbedBatch generates embeddings for multiple texts.
func (e *HashEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, 0, len(texts))
	for _, text := range texts {
		embedding, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings = append(embeddings, embedding)
	}
	return embeddings, nil
}

// Close releases nothing; the hash embedder holds no resources.
func (e *HashEmbedder) Close() error { return nil }

// normalize scales a vector to unit length.
func normalize(embedding []float32) []float32 {
	var norm float64
	for _, v := range embedding {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return embedding
	}
	inv := 1 / math.Sqrt(norm)
	for i, v := range embedding {
		embedding[i] = float32(float64(v) * inv)
	}
	return embedding
}
