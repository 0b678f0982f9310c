package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/halcyonsec/memgate/internal/config"
	"github.com/halcyonsec/memgate/internal/logger"
	"github.com/halcyonsec/memgate/internal/pipeline"
	"github.com/halcyonsec/memgate/internal/reduce"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	// Parse command line flags
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		kind        = flag.String("kind", "generic", "Content kind (source, abi, graph, invariant, path, forge_logs, address_list, generic)")
		inputPath   = flag.String("input", "", "Path to content file (reads stdin when empty)")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	// Show version and exit
	if *showVersion {
		fmt.Printf("memgate %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	loggerConfig := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}
	if cfg.Logging.File.Enabled {
		loggerConfig.File = &logger.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		}
	}

	log, err := logger.New(loggerConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Build the pipeline
	pipe, err := pipeline.New(pipeline.Config{
		Sanitize: cfg.Sanitize,
		Novelty:  cfg.Novelty,
	}, log.Logger)
	if err != nil {
		log.Fatal("Failed to build pipeline", zap.Error(err))
	}

	content, err := readInput(*inputPath)
	if err != nil {
		log.Fatal("Failed to read input", zap.Error(err))
	}

	prepared := pipe.Prepare(reduce.Kind(*kind), content)
	log.LogArtifact(string(prepared.Kind), prepared.Reduction.Summary, prepared.Sanitized.Sensitivity.IsSensitive)

	output, err := json.MarshalIndent(prepared, "", "  ")
	if err != nil {
		log.Fatal("Failed to encode result", zap.Error(err))
	}
	fmt.Println(string(output))
}

func readInput(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}
