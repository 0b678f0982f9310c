package vector

import (
	"fmt"
	"math"
)

// maxOver returns the maximum similarity of query against candidates
// and the argmax index. Empty candidate sets return (-Inf, -1).
func maxOver(query []float32, candidates [][]float32) (float64, int, error) {
	max := math.Inf(-1)
	arg := -1
	for i, c := range candidates {
		s, err := CosineSimilarity(query, c)
		if err != nil {
			return 0, -1, fmt.Errorf("candidate %d: %w", i, err)
		}
		if s > max {
			max = s
			arg = i
		}
	}
	return max, arg, nil
}

// CheckDuplicate classifies query against candidates. An empty
// candidate set is never a duplicate and is maximally novel. The
// novelty score is continuous and independent of the hard duplicate
// decision.
func CheckDuplicate(query []float32, candidates [][]float32, cfg NoveltyConfig) (DuplicateCheckResult, error) {
	result := DuplicateCheckResult{
		DuplicateOf:  -1,
		NoveltyScore: 1,
	}
	if len(candidates) == 0 {
		return result, nil
	}

	max, arg, err := maxOver(query, candidates)
	if err != nil {
		return DuplicateCheckResult{DuplicateOf: -1}, err
	}

	result.MaxSimilarity = clamp01(max)
	result.NoveltyScore = clamp01(1 - result.MaxSimilarity)
	if result.MaxSimilarity >= cfg.DuplicateThreshold {
		result.IsDuplicate = true
		result.DuplicateOf = arg
	}
	return result, nil
}

// NoveltyScore computes 1 - maxSimilarity(query, existing), then
// applies the configured penalty for patternLabel multiplicatively.
// Unconfigured labels carry no penalty. The result is clamped to [0,1].
func NoveltyScore(query []float32, existing [][]float32, patternLabel string, cfg NoveltyConfig) (float64, error) {
	base := 1.0
	if len(existing) > 0 {
		max, _, err := maxOver(query, existing)
		if err != nil {
			return 0, err
		}
		base = clamp01(1 - clamp01(max))
	}
	if penalty, ok := cfg.NoveltyPenalties[patternLabel]; ok {
		base *= 1 - penalty
	}
	return clamp01(base), nil
}

// FilterDuplicates keeps candidates that are not duplicates of the
// existing set nor of any earlier surviving candidate in the same
// batch. Candidates are processed in input order, so earlier ones can
// suppress later ones but never the reverse, and the output is a
// stable subsequence of the input.
func FilterDuplicates(candidates []Candidate, existing [][]float32, cfg NoveltyConfig) ([]Accepted, error) {
	pool := make([][]float32, len(existing), len(existing)+len(candidates))
	copy(pool, existing)

	var accepted []Accepted
	for i, c := range candidates {
		res, err := CheckDuplicate(c.Vector, pool, cfg)
		if err != nil {
			return nil, fmt.Errorf("batch candidate %d: %w", i, err)
		}
		if res.IsDuplicate {
			continue
		}
		accepted = append(accepted, Accepted{Candidate: c, NoveltyScore: res.NoveltyScore})
		pool = append(pool, c.Vector)
	}
	return accepted, nil
}
