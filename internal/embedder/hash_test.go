package embedder

import (
	"context"
	"math"
	"testing"

	"go.uber.org/zap"
)

// TestHashEmbedder tests the deterministic development embedder
func TestHashEmbedder(t *testing.T) {
	e := NewHashEmbedder(zap.NewNop())
	ctx := context.Background()

	t.Run("Deterministic", func(t *testing.T) {
		v1, err := e.Embed(ctx, "reentrancy in withdraw")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		v2, err := e.Embed(ctx, "reentrancy in withdraw")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		for i := range v1 {
			if v1[i] != v2[i] {
				t.Fatalf("Same text must produce the same vector, differs at %d", i)
			}
		}
	})

	t.Run("Dimensions", func(t *testing.T) {
		v, err := e.Embed(ctx, "short")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(v) != Dimensions {
			t.Errorf("Expected %d dimensions, got %d", Dimensions, len(v))
		}
	})

	t.Run("UnitNorm", func(t *testing.T) {
		v, _ := e.Embed(ctx, "oracle manipulation via flash loan")
		var norm float64
		for _, x := range v {
			norm += float64(x) * float64(x)
		}
		if math.Abs(norm-1.0) > 1e-4 {
			t.Errorf("Expected unit norm, got %f", math.Sqrt(norm))
		}
	})

	t.Run("DifferentTextsDiffer", func(t *testing.T) {
		v1, _ := e.Embed(ctx, "reentrancy in withdraw")
		v2, _ := e.Embed(ctx, "integer overflow in mint")
		same := true
		for i := range v1 {
			if v1[i] != v2[i] {
				same = false
				break
			}
		}
		if same {
			t.Error("Different texts should produce different vectors")
		}
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		v1, _ := e.Embed(ctx, "Reentrancy Attack")
		v2, _ := e.Embed(ctx, "reentrancy attack")
		for i := range v1 {
			if v1[i] != v2[i] {
				t.Fatal("Embedding should be case-normalized")
			}
		}
	})

	t.Run("EmptyText", func(t *testing.T) {
		if _, err := e.Embed(ctx, "   \n "); err != ErrEmptyText {
			t.Errorf("Expected ErrEmptyText, got %v", err)
		}
	})

	t.Run("CancelledContext", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		if _, err := e.Embed(cancelled, "text"); err == nil {
			t.Error("Cancelled context should abort")
		}
	})

	t.Run("Batch", func(t *testing.T) {
		vecs, err := e.EmbedBatch(ctx, []string{"one", "two", "three"})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(vecs) != 3 {
			t.Errorf("Expected 3 vectors, got %d", len(vecs))
		}
		single, _ := e.Embed(ctx, "two")
		for i := range single {
			if vecs[1][i] != single[i] {
				t.Fatal("Batch and single embedding must agree")
			}
		}
	})
}
