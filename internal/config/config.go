package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	config := GetDefaults()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("/etc/memgate/")
	viper.AddConfigPath("$HOME/.memgate/")

	viper.SetEnvPrefix("MEMGATE")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if configPath != "" {
		viper.SetConfigFile(configPath)
	}

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is not an error; defaults apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// validateConfig validates the loaded configuration once, so the
// pipeline never re-checks thresholds per call.
func validateConfig(config *Config) error {
	switch config.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", config.Logging.Level)
	}

	if config.Logging.Format != "json" && config.Logging.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", config.Logging.Format)
	}

	if err := config.Novelty.Validate(); err != nil {
		return err
	}

	if config.Sanitize.MaxLength < 0 {
		return fmt.Errorf("invalid sanitize max_length: %d", config.Sanitize.MaxLength)
	}

	if config.Embedding.Service != "hash" && config.Embedding.Service != "onnx" {
		return fmt.Errorf("invalid embedding service: %s (must be hash or onnx)", config.Embedding.Service)
	}

	if config.Corpus.BatchSize <= 0 {
		return fmt.Errorf("invalid corpus batch_size: %d", config.Corpus.BatchSize)
	}
	if config.Corpus.EmbedsPerSecond < 0 {
		return fmt.Errorf("invalid corpus embeds_per_second: %v", config.Corpus.EmbedsPerSecond)
	}

	return nil
}

// Watch starts watching the configuration file for changes.
func Watch(config *Config, callback func(*Config)) error {
	viper.WatchConfig()
	viper.OnConfigChange(func(e fsnotify.Event) {
		reload(callback)
	})

	return nil
}

// reload re-unmarshals the current viper state and hands the result to
// callback. Configs that fail validation are dropped; the last good
// config stays in effect.
func reload(callback func(*Config)) {
	newConfig := GetDefaults()
	if err := viper.Unmarshal(newConfig); err != nil {
		return
	}
	if err := validateConfig(newConfig); err != nil {
		return
	}
	callback(newConfig)
}
