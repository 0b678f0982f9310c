// Package corpus replays historical finding corpora through the full
// pipeline as a dry run: sanitize, reduce, embed, dedup. It is the tool
// used to calibrate thresholds and penalty tables against real data.
package corpus

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/segmentio/parquet-go"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/halcyonsec/memgate/internal/embedder"
	"github.com/halcyonsec/memgate/internal/pipeline"
	"github.com/halcyonsec/memgate/internal/reduce"
	"github.com/halcyonsec/memgate/internal/vector"
)

// Evaluator runs a corpus file through the pipeline and accumulates
// acceptance statistics. One evaluator per run; it is not reusable.
type Evaluator struct {
	pipe     *pipeline.Pipeline
	embedder embedder.Embedder
	limiter  *rate.Limiter
	config   *Config
	logger   *zap.Logger

	accepted   [][]float32
	noveltySum float64
}

// NewEvaluator creates an evaluator over the given pipeline and
// embedding service.
func NewEvaluator(pipe *pipeline.Pipeline, emb embedder.Embedder, config *Config, logger *zap.Logger) *Evaluator {
	limit := rate.Inf
	if config.EmbedsPerSecond > 0 {
		limit = rate.Limit(config.EmbedsPerSecond)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{
		pipe:     pipe,
		embedder: emb,
		limiter:  rate.NewLimiter(limit, maxInt(1, config.BatchSize)),
		config:   config,
		logger:   logger,
	}
}

// ProcessFile evaluates a corpus file, detecting the format from its
// extension.
func (e *Evaluator) ProcessFile(ctx context.Context, filePath string) (*Stats, error) {
	start := time.Now()
	stats := &Stats{}

	format := DetectFileFormat(filePath)
	e.logger.Info("starting corpus evaluation",
		zap.String("file", filePath),
		zap.String("format", string(format)),
		zap.Int("batch_size", e.config.BatchSize),
	)

	var err error
	switch format {
	case FormatCSV:
		err = e.processCSV(ctx, filePath, stats)
	case FormatParquet:
		err = e.processParquet(ctx, filePath, stats)
	case FormatJSON:
		err = e.processJSON(ctx, filePath, stats)
	default:
		return stats, fmt.Errorf("unsupported corpus format: %s", filepath.Ext(filePath))
	}
	if err != nil {
		return stats, err
	}

	if stats.Accepted > 0 {
		stats.MeanNovelty = e.noveltySum / float64(stats.Accepted)
	}
	stats.Diversity = e.sampleDiversity()
	stats.Duration = time.Since(start)

	e.logger.Info("corpus evaluation completed",
		zap.Int64("total_records", stats.TotalRecords),
		zap.Int64("accepted", stats.Accepted),
		zap.Int64("duplicates", stats.Duplicates),
		zap.Int64("sensitive", stats.Sensitive),
		zap.Float64("mean_novelty", stats.MeanNovelty),
		zap.Float64("diversity", stats.Diversity),
		zap.Duration("duration", stats.Duration),
	)

	return stats, nil
}

// DetectFileFormat maps a file extension to a corpus format.
func DetectFileFormat(filePath string) FileFormat {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".csv":
		return FormatCSV
	case ".parquet":
		return FormatParquet
	case ".json", ".jsonl", ".ndjson":
		return FormatJSON
	default:
		return FormatUnknown
	}
}

func (e *Evaluator) processCSV(ctx context.Context, filePath string, stats *Stats) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = 3 // text, kind, pattern

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}
	e.logger.Debug("CSV header detected", zap.Strings("columns", header))

	return e.processBatches(ctx, func() ([]*Record, error) {
		var batch []*Record
		for len(batch) < e.config.BatchSize {
			row, err := reader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				e.logger.Warn("failed to read CSV record", zap.Error(err))
				stats.Failed++
				continue
			}
			record := &Record{
				Text:    strings.TrimSpace(row[0]),
				Kind:    strings.TrimSpace(row[1]),
				Pattern: strings.TrimSpace(row[2]),
			}
			if validRecord(record) {
				batch = append(batch, record)
			} else {
				stats.Failed++
			}
		}
		return batch, nil
	}, stats)
}

func (e *Evaluator) processParquet(ctx context.Context, filePath string, stats *Stats) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open Parquet file: %w", err)
	}
	defer file.Close()

	reader := parquet.NewReader(file)
	defer reader.Close()

	return e.processBatches(ctx, func() ([]*Record, error) {
		var batch []*Record
		for len(batch) < e.config.BatchSize {
			var record Record
			err := reader.Read(&record)
			if err == io.EOF {
				break
			}
			if err != nil {
				e.logger.Warn("failed to read Parquet record", zap.Error(err))
				stats.Failed++
				continue
			}
			if validRecord(&record) {
				batch = append(batch, &record)
			} else {
				stats.Failed++
			}
		}
		return batch, nil
	}, stats)
}

func (e *Evaluator) processJSON(ctx context.Context, filePath string, stats *Stats) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open JSON file: %w", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)

	return e.processBatches(ctx, func() ([]*Record, error) {
		var batch []*Record
		for len(batch) < e.config.BatchSize {
			var record Record
			err := decoder.Decode(&record)
			if err == io.EOF {
				break
			}
			if err != nil {
				return batch, fmt.Errorf("failed to decode JSON record: %w", err)
			}
			if validRecord(&record) {
				batch = append(batch, &record)
			} else {
				stats.Failed++
			}
		}
		return batch, nil
	}, stats)
}

func (e *Evaluator) processBatches(ctx context.Context, readBatch func() ([]*Record, error), stats *Stats) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		batch, err := readBatch()
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}

		for _, record := range batch {
			if err := e.evaluate(ctx, record, stats); err != nil {
				stats.Failed++
				stats.Errors = appendBounded(stats.Errors, err.Error())
				continue
			}
			stats.TotalRecords++
			if e.config.ProgressReport > 0 && stats.TotalRecords%int64(e.config.ProgressReport) == 0 {
				e.logger.Info("corpus progress",
					zap.Int64("records", stats.TotalRecords),
					zap.Int64("accepted", stats.Accepted),
					zap.Int64("duplicates", stats.Duplicates),
				)
			}
		}
	}
}

// evaluate runs one record through prepare, embed and dedup, treating
// every previously accepted record as the candidate set.
func (e *Evaluator) evaluate(ctx context.Context, record *Record, stats *Stats) error {
	prepared := e.pipe.Prepare(reduce.Kind(record.Kind), record.Text)
	if prepared.Sanitized.Sensitivity.IsSensitive {
		stats.Sensitive++
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return err
	}

	embedStart := time.Now()
	vec, err := e.embedder.Embed(ctx, prepared.Reduction.Summary)
	if err != nil {
		return fmt.Errorf("embed: %w", err)
	}
	stats.EmbedTime += time.Since(embedStart)

	decision, err := e.pipe.Evaluate(vec, e.accepted, record.Pattern)
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}

	if decision.Duplicate.IsDuplicate {
		stats.Duplicates++
		return nil
	}
	stats.Accepted++
	e.noveltySum += decision.Novelty
	e.accepted = append(e.accepted, vec)
	return nil
}

// sampleDiversity computes diversity over a bounded sample of accepted
// vectors.
func (e *Evaluator) sampleDiversity() float64 {
	sample := e.accepted
	if e.config.DiversitySample > 0 && len(sample) > e.config.DiversitySample {
		sample = sample[:e.config.DiversitySample]
	}
	diversity, err := vector.Diversity(sample)
	if err != nil {
		e.logger.Warn("diversity computation failed", zap.Error(err))
		return 0
	}
	return diversity
}

func validRecord(r *Record) bool {
	return strings.TrimSpace(r.Text) != ""
}

func appendBounded(errs []string, msg string) []string {
	if len(errs) >= 20 {
		return errs
	}
	return append(errs, msg)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
