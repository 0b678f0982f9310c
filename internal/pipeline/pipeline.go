// Package pipeline is the entry point middleware uses to prepare agent
// content for persistence: sanitize, reduce by kind, then judge the
// caller-embedded result against candidate vectors.
package pipeline

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/halcyonsec/memgate/internal/reduce"
	"github.com/halcyonsec/memgate/internal/sanitize"
	"github.com/halcyonsec/memgate/internal/vector"
)

// Config carries the pipeline's two configuration surfaces.
type Config struct {
	Sanitize sanitize.Options
	Novelty  vector.NoveltyConfig
}

// DefaultConfig returns the documented defaults for both surfaces.
func DefaultConfig() Config {
	return Config{
		Sanitize: sanitize.DefaultOptions(),
		Novelty:  vector.DefaultNoveltyConfig(),
	}
}

// Prepared bundles the storage-safe form of one artifact.
type Prepared struct {
	Kind      reduce.Kind      `json:"kind"`
	Sanitized sanitize.Outcome `json:"sanitized"`
	Reduction reduce.Result    `json:"reduction"`
}

// Decision bundles the dedup verdict with the penalty-adjusted novelty
// score for one embedded artifact.
type Decision struct {
	Duplicate    vector.DuplicateCheckResult `json:"duplicate"`
	Novelty      float64                     `json:"novelty"`
	PatternLabel string                      `json:"pattern_label,omitempty"`
}

// Pipeline composes the sanitizer, the reducer dispatch and the novelty
// engine. It holds no per-call state; concurrent use is safe.
type Pipeline struct {
	sanitizer *sanitize.Sanitizer
	config    Config
	logger    *zap.Logger
}

// New validates the configuration once and builds the pipeline.
func New(cfg Config, logger *zap.Logger) (*Pipeline, error) {
	if err := cfg.Novelty.Validate(); err != nil {
		return nil, fmt.Errorf("invalid novelty config: %w", err)
	}
	if cfg.Sanitize.MaxLength < 0 {
		return nil, fmt.Errorf("invalid sanitize config: max length %d", cfg.Sanitize.MaxLength)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		sanitizer: sanitize.New(logger),
		config:    cfg,
		logger:    logger,
	}, nil
}

// Prepare sanitizes content and reduces it by kind. The reducer sees
// the sanitized text, never the original.
func (p *Pipeline) Prepare(kind reduce.Kind, content string) Prepared {
	outcome := p.sanitizer.Sanitize(content, p.config.Sanitize)
	reduction := reduce.ByKind(kind, outcome.Text)

	p.logger.Debug("artifact prepared",
		zap.String("kind", string(kind)),
		zap.Bool("modified", outcome.WasModified),
		zap.Bool("sensitive", outcome.Sensitivity.IsSensitive),
		zap.Bool("store_raw", reduction.ShouldStoreRaw),
		zap.Int("summary_bytes", len(reduction.Summary)),
	)

	return Prepared{Kind: kind, Sanitized: outcome, Reduction: reduction}
}

// Evaluate judges an embedded artifact against the candidate set and
// applies the pattern penalty to its novelty. The candidates come from
// the external memory service; the pipeline never fetches them itself.
func (p *Pipeline) Evaluate(vec []float32, candidates [][]float32, patternLabel string) (Decision, error) {
	check, err := vector.CheckDuplicate(vec, candidates, p.config.Novelty)
	if err != nil {
		return Decision{}, err
	}

	novelty := check.NoveltyScore
	if penalty, ok := p.config.Novelty.NoveltyPenalties[patternLabel]; ok {
		novelty *= 1 - penalty
	}

	p.logger.Debug("artifact evaluated",
		zap.Bool("duplicate", check.IsDuplicate),
		zap.Float64("max_similarity", check.MaxSimilarity),
		zap.Float64("novelty", novelty),
		zap.String("pattern", patternLabel),
	)

	return Decision{Duplicate: check, Novelty: novelty, PatternLabel: patternLabel}, nil
}

// FilterBatch deduplicates a batch of embedded candidates against the
// existing set and against each other, in input order.
func (p *Pipeline) FilterBatch(candidates []vector.Candidate, existing [][]float32) ([]vector.Accepted, error) {
	return vector.FilterDuplicates(candidates, existing, p.config.Novelty)
}
