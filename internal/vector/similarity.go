package vector

import (
	"fmt"
	"math"
	"sort"
)

// CosineSimilarity returns the normalized dot product of a and b in
// [-1,1]. Mismatched dimensions abort with ErrDimensionMismatch; an
// all-zero vector compares as 0 rather than dividing by zero.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// FindMostSimilar returns the top-k candidates by descending similarity
// to query, filtered to scores >= minThreshold. Ties keep candidate
// input order. k <= 0 means no limit.
func FindMostSimilar(query []float32, candidates [][]float32, k int, minThreshold float64) ([]Match, error) {
	var matches []Match
	for i, c := range candidates {
		score, err := CosineSimilarity(query, c)
		if err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
		if score >= minThreshold {
			matches = append(matches, Match{Index: i, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if k > 0 && len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// Diversity returns one minus the mean pairwise cosine similarity over
// all unordered pairs. Zero or one vectors have no pairs and score 0.
func Diversity(vectors [][]float32) (float64, error) {
	if len(vectors) < 2 {
		return 0, nil
	}

	var sum float64
	pairs := 0
	for i := 0; i < len(vectors); i++ {
		for j := i + 1; j < len(vectors); j++ {
			s, err := CosineSimilarity(vectors[i], vectors[j])
			if err != nil {
				return 0, fmt.Errorf("pair (%d,%d): %w", i, j, err)
			}
			sum += s
			pairs++
		}
	}
	return 1 - sum/float64(pairs), nil
}
