package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/halcyonsec/memgate/internal/embedder"
	"github.com/halcyonsec/memgate/internal/pipeline"
)

func testConfig() *Config {
	return &Config{
		BatchSize:       16,
		ProgressReport:  0,
		EmbedsPerSecond: 0,
		DiversitySample: 100,
	}
}

func newTestEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	pipe, err := pipeline.New(pipeline.DefaultConfig(), zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to build pipeline: %v", err)
	}
	return NewEvaluator(pipe, embedder.NewHashEmbedder(zap.NewNop()), testConfig(), zap.NewNop())
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}

// TestDetectFileFormat tests extension mapping
func TestDetectFileFormat(t *testing.T) {
	cases := map[string]FileFormat{
		"corpus.csv":     FormatCSV,
		"corpus.CSV":     FormatCSV,
		"corpus.parquet": FormatParquet,
		"corpus.json":    FormatJSON,
		"corpus.jsonl":   FormatJSON,
		"corpus.txt":     FormatUnknown,
	}
	for path, want := range cases {
		if got := DetectFileFormat(path); got != want {
			t.Errorf("%s: expected %s, got %s", path, want, got)
		}
	}
}

// TestProcessCSV tests an end-to-end dry run over a CSV corpus
func TestProcessCSV(t *testing.T) {
	// The first and third records are identical and must dedupe; the
	// second is distinct and accepted.
	csvData := `text,kind,pattern
reentrancy in the withdraw function lets an attacker drain the vault,generic,reentrancy
the price oracle reads a single spot pool and can be skewed,generic,oracle_manipulation
reentrancy in the withdraw function lets an attacker drain the vault,generic,reentrancy
`
	path := writeTempFile(t, "findings.csv", csvData)
	e := newTestEvaluator(t)

	stats, err := e.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}

	if stats.TotalRecords != 3 {
		t.Errorf("Expected 3 records, got %d", stats.TotalRecords)
	}
	if stats.Accepted != 2 {
		t.Errorf("Expected 2 accepted, got %d", stats.Accepted)
	}
	if stats.Duplicates != 1 {
		t.Errorf("Expected 1 duplicate, got %d", stats.Duplicates)
	}
	if stats.MeanNovelty <= 0 || stats.MeanNovelty > 1 {
		t.Errorf("Mean novelty out of range: %f", stats.MeanNovelty)
	}
	if stats.Duration <= 0 {
		t.Error("Duration should be recorded")
	}
}

// TestProcessJSON tests the JSON stream reader and sensitivity counting
func TestProcessJSON(t *testing.T) {
	jsonData := `{"text": "API_KEY=abcdef1234567890abcd found in the deploy script", "kind": "generic", "pattern": "leaked_secret"}
{"text": "the vault trusts an attacker-controlled callback", "kind": "generic", "pattern": "reentrancy"}
`
	path := writeTempFile(t, "findings.json", jsonData)
	e := newTestEvaluator(t)

	stats, err := e.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}

	if stats.TotalRecords != 2 {
		t.Errorf("Expected 2 records, got %d", stats.TotalRecords)
	}
	if stats.Sensitive != 1 {
		t.Errorf("Expected 1 sensitive record, got %d", stats.Sensitive)
	}
}

// TestProcessEmptyText tests that blank records count as failed
func TestProcessEmptyText(t *testing.T) {
	csvData := "text,kind,pattern\n,generic,x\nreal finding about access control on the admin path,generic,access_control\n"
	path := writeTempFile(t, "findings.csv", csvData)
	e := newTestEvaluator(t)

	stats, err := e.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if stats.Failed != 1 {
		t.Errorf("Expected 1 failed record, got %d", stats.Failed)
	}
	if stats.Accepted != 1 {
		t.Errorf("Expected 1 accepted record, got %d", stats.Accepted)
	}
}

// TestUnsupportedFormat tests the unknown-extension error
func TestUnsupportedFormat(t *testing.T) {
	path := writeTempFile(t, "findings.txt", "whatever")
	e := newTestEvaluator(t)

	if _, err := e.ProcessFile(context.Background(), path); err == nil {
		t.Error("Unknown extension should error")
	}
}

// TestCancellation tests context abort between batches
func TestCancellation(t *testing.T) {
	csvData := "text,kind,pattern\nsome finding text for the run,generic,x\n"
	path := writeTempFile(t, "findings.csv", csvData)
	e := newTestEvaluator(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.ProcessFile(ctx, path); err == nil {
		t.Error("Cancelled context should abort processing")
	}
}
