package vector

import (
	"errors"
	"math"
	"testing"
)

// near builds a vector at a controlled cosine similarity to the x axis.
func near(sim float64) []float32 {
	return []float32{float32(sim), float32(math.Sqrt(1 - sim*sim)), 0}
}

var xAxis = []float32{1, 0, 0}

// TestCheckDuplicate tests threshold classification
func TestCheckDuplicate(t *testing.T) {
	cfg := DefaultNoveltyConfig() // duplicate 0.92, similarity 0.85

	t.Run("EmptyCandidateSet", func(t *testing.T) {
		res, err := CheckDuplicate(xAxis, nil, cfg)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if res.IsDuplicate {
			t.Error("Empty set can never contain a duplicate")
		}
		if res.MaxSimilarity != 0 {
			t.Errorf("Expected max similarity 0, got %f", res.MaxSimilarity)
		}
		if res.NoveltyScore != 1 {
			t.Errorf("First item is maximally novel, got %f", res.NoveltyScore)
		}
		if res.DuplicateOf != -1 {
			t.Errorf("Expected DuplicateOf -1, got %d", res.DuplicateOf)
		}
	})

	t.Run("AboveDuplicateThreshold", func(t *testing.T) {
		res, err := CheckDuplicate(xAxis, [][]float32{near(0.5), near(0.95)}, cfg)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !res.IsDuplicate {
			t.Errorf("Similarity 0.95 vs threshold 0.92 should be a duplicate: %+v", res)
		}
		if res.DuplicateOf != 1 {
			t.Errorf("Expected argmax index 1, got %d", res.DuplicateOf)
		}
		if math.Abs(res.NoveltyScore-0.05) > 1e-6 {
			t.Errorf("Expected novelty ~0.05, got %f", res.NoveltyScore)
		}
	})

	t.Run("BelowDuplicateThreshold", func(t *testing.T) {
		strict := cfg
		strict.DuplicateThreshold = 0.97
		res, err := CheckDuplicate(xAxis, [][]float32{near(0.95)}, strict)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if res.IsDuplicate {
			t.Error("Similarity 0.95 vs threshold 0.97 should not be a duplicate")
		}
		if res.DuplicateOf != -1 {
			t.Errorf("Expected DuplicateOf -1, got %d", res.DuplicateOf)
		}
		// The continuous score is independent of the hard decision.
		if math.Abs(res.NoveltyScore-0.05) > 1e-6 {
			t.Errorf("Expected novelty ~0.05, got %f", res.NoveltyScore)
		}
	})

	t.Run("NegativeSimilarityClamps", func(t *testing.T) {
		res, err := CheckDuplicate(xAxis, [][]float32{{-1, 0, 0}}, cfg)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if res.MaxSimilarity != 0 || res.NoveltyScore != 1 {
			t.Errorf("Negative similarity should clamp: %+v", res)
		}
	})

	t.Run("MismatchAborts", func(t *testing.T) {
		_, err := CheckDuplicate(xAxis, [][]float32{{1, 0}}, cfg)
		if !errors.Is(err, ErrDimensionMismatch) {
			t.Errorf("Expected ErrDimensionMismatch, got %v", err)
		}
	})
}

// TestNoveltyScore tests scoring with pattern penalties
func TestNoveltyScore(t *testing.T) {
	cfg := DefaultNoveltyConfig()
	cfg.NoveltyPenalties = map[string]float64{"reentrancy": 0.5}

	t.Run("EmptyExistingSet", func(t *testing.T) {
		score, err := NoveltyScore(xAxis, nil, "", cfg)
		if err != nil || score != 1 {
			t.Errorf("Expected novelty 1 for empty set, got %f, %v", score, err)
		}
	})

	t.Run("PenaltyApplied", func(t *testing.T) {
		score, err := NoveltyScore(xAxis, [][]float32{near(0.2)}, "reentrancy", cfg)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		want := (1 - 0.2) * (1 - 0.5)
		if math.Abs(score-want) > 1e-6 {
			t.Errorf("Expected %f, got %f", want, score)
		}
	})

	t.Run("UnknownLabelNoPenalty", func(t *testing.T) {
		score, err := NoveltyScore(xAxis, [][]float32{near(0.2)}, "oracle_manipulation", cfg)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if math.Abs(score-0.8) > 1e-6 {
			t.Errorf("Unconfigured label should carry no penalty, got %f", score)
		}
	})

	t.Run("PenaltyOnEmptySet", func(t *testing.T) {
		score, _ := NoveltyScore(xAxis, nil, "reentrancy", cfg)
		if math.Abs(score-0.5) > 1e-6 {
			t.Errorf("Penalty applies even with no history, got %f", score)
		}
	})

	t.Run("Monotonicity", func(t *testing.T) {
		low, _ := NoveltyScore(xAxis, [][]float32{near(0.3)}, "", cfg)
		high, _ := NoveltyScore(xAxis, [][]float32{near(0.9)}, "", cfg)
		if high >= low {
			t.Errorf("Higher similarity must mean lower novelty: %f vs %f", low, high)
		}
	})
}

// TestFilterDuplicates tests batch suppression semantics
func TestFilterDuplicates(t *testing.T) {
	cfg := DefaultNoveltyConfig()

	t.Run("FirstWins", func(t *testing.T) {
		// A and B are near-identical; A arrives first and must suppress B.
		candidates := []Candidate{
			{ID: "A", Vector: near(0.999)},
			{ID: "B", Vector: near(0.998)},
			{ID: "C", Vector: []float32{0, 0, 1}},
		}
		accepted, err := FilterDuplicates(candidates, nil, cfg)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(accepted) != 2 {
			t.Fatalf("Expected A and C to survive, got %d", len(accepted))
		}
		if accepted[0].ID != "A" || accepted[1].ID != "C" {
			t.Errorf("Expected [A C], got [%s %s]", accepted[0].ID, accepted[1].ID)
		}
	})

	t.Run("ExistingSetSuppresses", func(t *testing.T) {
		existing := [][]float32{xAxis}
		candidates := []Candidate{{ID: "dup", Vector: near(0.99)}}
		accepted, err := FilterDuplicates(candidates, existing, cfg)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(accepted) != 0 {
			t.Errorf("Candidate matching existing set should be dropped, got %v", accepted)
		}
	})

	t.Run("NoveltyScoresAttached", func(t *testing.T) {
		accepted, _ := FilterDuplicates([]Candidate{{ID: "first", Vector: xAxis}}, nil, cfg)
		if len(accepted) != 1 || accepted[0].NoveltyScore != 1 {
			t.Errorf("First acceptance should score novelty 1: %+v", accepted)
		}
	})

	t.Run("EmptyBatch", func(t *testing.T) {
		accepted, err := FilterDuplicates(nil, nil, cfg)
		if err != nil || len(accepted) != 0 {
			t.Errorf("Empty batch should be a no-op, got %v, %v", accepted, err)
		}
	})
}

// TestNoveltyConfigValidate tests construction-time validation
func TestNoveltyConfigValidate(t *testing.T) {
	t.Run("DefaultsValid", func(t *testing.T) {
		if err := DefaultNoveltyConfig().Validate(); err != nil {
			t.Errorf("Defaults must validate: %v", err)
		}
	})

	cases := map[string]NoveltyConfig{
		"duplicate out of range":  {DuplicateThreshold: 1.5, SimilarityThreshold: 0.8},
		"similarity out of range": {DuplicateThreshold: 0.9, SimilarityThreshold: -0.1},
		"inverted thresholds":     {DuplicateThreshold: 0.5, SimilarityThreshold: 0.9},
		"penalty out of range": {
			DuplicateThreshold:  0.9,
			SimilarityThreshold: 0.8,
			NoveltyPenalties:    map[string]float64{"x": 2},
		},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			if err := cfg.Validate(); err == nil {
				t.Errorf("Expected validation error for %s", name)
			}
		})
	}
}
