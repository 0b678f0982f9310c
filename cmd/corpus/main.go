package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/halcyonsec/memgate/internal/config"
	"github.com/halcyonsec/memgate/internal/corpus"
	"github.com/halcyonsec/memgate/internal/embedder"
	"github.com/halcyonsec/memgate/internal/logger"
	"github.com/halcyonsec/memgate/internal/pipeline"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		filePath    = flag.String("file", "", "Path to corpus file (.csv, .parquet, .json)")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("memgate-corpus %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "Usage: corpus -file <corpus.csv|corpus.parquet|corpus.json> [-config <path>]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

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

	log.Info("Starting corpus evaluation",
		zap.String("version", version),
		zap.String("file", *filePath),
		zap.String("embedding_service", cfg.Embedding.Service),
	)

	pipe, err := pipeline.New(pipeline.Config{
		Sanitize: cfg.Sanitize,
		Novelty:  cfg.Novelty,
	}, log.Logger)
	if err != nil {
		log.Fatal("Failed to build pipeline", zap.Error(err))
	}

	emb, err := buildEmbedder(cfg, log.Logger)
	if err != nil {
		log.Fatal("Failed to build embedding service", zap.Error(err))
	}
	defer emb.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info("Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	evaluator := corpus.NewEvaluator(pipe, emb, &corpus.Config{
		BatchSize:       cfg.Corpus.BatchSize,
		ProgressReport:  cfg.Corpus.ProgressReport,
		EmbedsPerSecond: cfg.Corpus.EmbedsPerSecond,
		DiversitySample: cfg.Corpus.DiversitySample,
	}, log.WithComponent("corpus").Logger)

	stats, err := evaluator.ProcessFile(ctx, *filePath)
	if err != nil {
		log.Fatal("Corpus evaluation failed", zap.Error(err))
	}

	output, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		log.Fatal("Failed to encode stats", zap.Error(err))
	}
	fmt.Println(string(output))
}

func buildEmbedder(cfg *config.Config, log *zap.Logger) (embedder.Embedder, error) {
	var emb embedder.Embedder
	switch cfg.Embedding.Service {
	case "hash":
		emb = embedder.NewHashEmbedder(log)
	case "onnx":
		onnx, err := embedder.NewOnnxEmbedder(cfg.Embedding.ModelPath, cfg.Embedding.MaxLength, log)
		if err != nil {
			return nil, err
		}
		emb = onnx
	default:
		return nil, fmt.Errorf("unknown embedding service: %s", cfg.Embedding.Service)
	}

	if !cfg.Cache.Enabled {
		return emb, nil
	}

	cached, err := embedder.NewCachedEmbedder(emb, &embedder.CacheConfig{
		RedisURL:       cfg.Cache.RedisURL,
		DefaultTTL:     cfg.Cache.DefaultTTL,
		KeyPrefix:      cfg.Cache.KeyPrefix,
		MaxConnections: cfg.Cache.MaxConnections,
		MinIdleConns:   cfg.Cache.MinIdleConns,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect embedding cache: %w", err)
	}
	return cached, nil
}
