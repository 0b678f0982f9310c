package config

import (
	"time"

	"github.com/halcyonsec/memgate/internal/sanitize"
	"github.com/halcyonsec/memgate/internal/vector"
)

// Config represents the main configuration structure.
type Config struct {
	Logging   LoggingConfig         `yaml:"logging" mapstructure:"logging"`
	Sanitize  sanitize.Options      `yaml:"sanitize" mapstructure:"sanitize"`
	Novelty   vector.NoveltyConfig  `yaml:"novelty" mapstructure:"novelty"`
	Embedding EmbeddingConfig       `yaml:"embedding" mapstructure:"embedding"`
	Cache     CacheConfig           `yaml:"cache" mapstructure:"cache"`
	Corpus    CorpusConfig          `yaml:"corpus" mapstructure:"corpus"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string     `yaml:"level" mapstructure:"level"`
	Format string     `yaml:"format" mapstructure:"format"` // json or console
	File   FileConfig `yaml:"file" mapstructure:"file"`
}

// FileConfig contains file logging configuration.
type FileConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// EmbeddingConfig selects and configures the local embedding service
// used by the CLIs. The library itself accepts vectors from any source.
type EmbeddingConfig struct {
	// Service is "hash" or "onnx".
	Service   string `yaml:"service" mapstructure:"service"`
	ModelPath string `yaml:"model_path" mapstructure:"model_path"`
	MaxLength int    `yaml:"max_length" mapstructure:"max_length"`
}

// CacheConfig contains the optional Redis embedding cache settings.
type CacheConfig struct {
	Enabled        bool          `yaml:"enabled" mapstructure:"enabled"`
	RedisURL       string        `yaml:"redis_url" mapstructure:"redis_url"`
	DefaultTTL     time.Duration `yaml:"default_ttl" mapstructure:"default_ttl"`
	KeyPrefix      string        `yaml:"key_prefix" mapstructure:"key_prefix"`
	MaxConnections int           `yaml:"max_connections" mapstructure:"max_connections"`
	MinIdleConns   int           `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
}

// CorpusConfig contains corpus evaluation settings.
type CorpusConfig struct {
	BatchSize       int     `yaml:"batch_size" mapstructure:"batch_size"`
	ProgressReport  int     `yaml:"progress_report" mapstructure:"progress_report"`
	EmbedsPerSecond float64 `yaml:"embeds_per_second" mapstructure:"embeds_per_second"` // 0 = unlimited
	DiversitySample int     `yaml:"diversity_sample" mapstructure:"diversity_sample"`
}

// GetDefaults returns a configuration with documented defaults.
func GetDefaults() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			File: FileConfig{
				Enabled: false,
				Path:    "logs/memgate.log",
			},
		},
		Sanitize: sanitize.DefaultOptions(),
		Novelty:  vector.DefaultNoveltyConfig(),
		Embedding: EmbeddingConfig{
			Service:   "hash",
			MaxLength: 512,
		},
		Cache: CacheConfig{
			Enabled:        false,
			RedisURL:       "redis://localhost:6379/0",
			DefaultTTL:     6 * time.Hour,
			KeyPrefix:      "memgate:embed:",
			MaxConnections: 10,
			MinIdleConns:   2,
		},
		Corpus: CorpusConfig{
			BatchSize:       256,
			ProgressReport:  1000,
			EmbedsPerSecond: 0,
			DiversitySample: 200,
		},
	}
}
