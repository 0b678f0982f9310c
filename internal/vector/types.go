// Package vector implements the similarity and novelty calculations the
// pipeline runs over caller-supplied embedding vectors. Every function
// is a pure computation: the package never stores or caches vectors.
package vector

import (
	"errors"
	"fmt"
)

// ErrDimensionMismatch is returned when two vectors of different
// lengths are compared. It is the only aborting condition in the
// package; a silent wrong-dimension comparison would produce
// meaningless scores.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// Match references one candidate by its input index with its score.
type Match struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

// DuplicateCheckResult is the decision bundle for one query vector
// against a candidate set.
type DuplicateCheckResult struct {
	IsDuplicate   bool    `json:"is_duplicate"`
	MaxSimilarity float64 `json:"max_similarity"`
	// DuplicateOf is the input index of the argmax candidate when
	// IsDuplicate, -1 otherwise.
	DuplicateOf  int     `json:"duplicate_of"`
	NoveltyScore float64 `json:"novelty_score"`
}

// NoveltyConfig carries the thresholds and the attack-pattern penalty
// table. Defaults live here, not in the comparison functions.
type NoveltyConfig struct {
	DuplicateThreshold  float64            `yaml:"duplicate_threshold" mapstructure:"duplicate_threshold"`
	SimilarityThreshold float64            `yaml:"similarity_threshold" mapstructure:"similarity_threshold"`
	NoveltyPenalties    map[string]float64 `yaml:"novelty_penalties" mapstructure:"novelty_penalties"`
}

// DefaultNoveltyConfig returns the documented defaults.
func DefaultNoveltyConfig() NoveltyConfig {
	return NoveltyConfig{
		DuplicateThreshold:  0.92,
		SimilarityThreshold: 0.85,
	}
}

// Validate checks threshold ordering and penalty ranges once at
// construction time.
func (c NoveltyConfig) Validate() error {
	if c.DuplicateThreshold < 0 || c.DuplicateThreshold > 1 {
		return fmt.Errorf("duplicate threshold %v outside [0,1]", c.DuplicateThreshold)
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity threshold %v outside [0,1]", c.SimilarityThreshold)
	}
	if c.DuplicateThreshold < c.SimilarityThreshold {
		return fmt.Errorf("duplicate threshold %v below similarity threshold %v",
			c.DuplicateThreshold, c.SimilarityThreshold)
	}
	for label, penalty := range c.NoveltyPenalties {
		if penalty < 0 || penalty > 1 {
			return fmt.Errorf("novelty penalty for %q is %v, outside [0,1]", label, penalty)
		}
	}
	return nil
}

// Candidate pairs an item reference with its embedding for batch
// deduplication.
type Candidate struct {
	ID     string    `json:"id"`
	Vector []float32 `json:"-"`
}

// Accepted is a batch candidate that survived deduplication.
type Accepted struct {
	Candidate
	NoveltyScore float64 `json:"novelty_score"`
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
