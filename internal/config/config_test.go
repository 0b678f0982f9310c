package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

// TestGetDefaults tests the documented default configuration
func TestGetDefaults(t *testing.T) {
	cfg := GetDefaults()

	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Unexpected logging defaults: %+v", cfg.Logging)
	}
	if !cfg.Sanitize.RedactSecrets || !cfg.Sanitize.RemoveInternalPaths {
		t.Errorf("Sanitization should default on: %+v", cfg.Sanitize)
	}
	if cfg.Novelty.DuplicateThreshold != 0.92 || cfg.Novelty.SimilarityThreshold != 0.85 {
		t.Errorf("Unexpected novelty defaults: %+v", cfg.Novelty)
	}
	if cfg.Embedding.Service != "hash" {
		t.Errorf("Default embedding service should be hash, got %s", cfg.Embedding.Service)
	}
	if cfg.Cache.Enabled {
		t.Error("Cache should default off")
	}
	if cfg.Corpus.BatchSize <= 0 {
		t.Errorf("Invalid default batch size: %d", cfg.Corpus.BatchSize)
	}

	if err := validateConfig(cfg); err != nil {
		t.Errorf("Defaults must validate: %v", err)
	}
}

// TestValidateConfig tests rejection of invalid settings
func TestValidateConfig(t *testing.T) {
	cases := map[string]func(*Config){
		"bad log level":    func(c *Config) { c.Logging.Level = "verbose" },
		"bad log format":   func(c *Config) { c.Logging.Format = "xml" },
		"inverted novelty": func(c *Config) { c.Novelty.DuplicateThreshold = 0.5 },
		"negative length":  func(c *Config) { c.Sanitize.MaxLength = -5 },
		"unknown embedder": func(c *Config) { c.Embedding.Service = "openai" },
		"zero batch size":  func(c *Config) { c.Corpus.BatchSize = 0 },
		"negative rate":    func(c *Config) { c.Corpus.EmbedsPerSecond = -1 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := GetDefaults()
			mutate(cfg)
			if err := validateConfig(cfg); err == nil {
				t.Errorf("Expected validation error for %s", name)
			}
		})
	}
}

// TestReload tests the hot-reload path Watch registers: good configs
// reach the callback, invalid ones are dropped.
func TestReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	t.Run("ValidConfigReachesCallback", func(t *testing.T) {
		var got *Config
		reload(func(c *Config) { got = c })
		if got == nil {
			t.Fatal("Callback not invoked for a valid config")
		}
		if got.Logging.Level != "debug" {
			t.Errorf("Expected reloaded level debug, got %s", got.Logging.Level)
		}
		// Unset keys keep their defaults.
		if got.Novelty.DuplicateThreshold != 0.92 {
			t.Errorf("Defaults should survive reload, got %v", got.Novelty.DuplicateThreshold)
		}
	})

	t.Run("InvalidConfigDropped", func(t *testing.T) {
		if err := os.WriteFile(path, []byte("logging:\n  level: verbose\n"), 0o644); err != nil {
			t.Fatalf("Failed to rewrite config: %v", err)
		}
		if err := viper.ReadInConfig(); err != nil {
			t.Fatalf("ReadInConfig failed: %v", err)
		}

		called := false
		reload(func(*Config) { called = true })
		if called {
			t.Error("Invalid config must not reach the callback")
		}
	})

	t.Run("WatchRegisters", func(t *testing.T) {
		if err := Watch(GetDefaults(), func(*Config) {}); err != nil {
			t.Errorf("Watch failed: %v", err)
		}
	})
}
