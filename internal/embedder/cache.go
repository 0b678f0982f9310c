package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CacheConfig contains Redis embedding cache configuration.
type CacheConfig struct {
	RedisURL       string
	DefaultTTL     time.Duration
	KeyPrefix      string
	MaxConnections int
	MinIdleConns   int
}

// CacheStats reports cache performance.
type CacheStats struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// CachedEmbedder decorates another Embedder with a Redis cache keyed by
// text hash. Embedding is the expensive step in corpus runs; repeated
// artifacts hit the cache instead of the model.
type CachedEmbedder struct {
	inner  Embedder
	client *redis.Client
	config *CacheConfig
	logger *zap.Logger
	hits   int64
	misses int64
}

// NewCachedEmbedder wraps inner with a Redis cache.
func NewCachedEmbedder(inner Embedder, config *CacheConfig, logger *zap.Logger) (*CachedEmbedder, error) {
	opts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opts.PoolSize = config.MaxConnections
	opts.MinIdleConns = config.MinIdleConns

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("embedding cache initialized",
		zap.String("key_prefix", config.KeyPrefix),
		zap.Duration("default_ttl", config.DefaultTTL),
	)

	return &CachedEmbedder{inner: inner, client: client, config: config, logger: logger}, nil
}

// Embed returns a cached vector when present, otherwise delegates to
// the inner embedder and caches the result.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := c.cacheKey(text)

	cached, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var embedding []float32
		if err := json.Unmarshal([]byte(cached), &embedding); err == nil && len(embedding) == Dimensions {
			c.hits++
			return embedding, nil
		}
		// Corrupted entry; drop it and re-embed.
		c.client.Del(ctx, key)
	} else if err != redis.Nil {
		c.logger.Warn("cache lookup failed", zap.Error(err))
	}
	c.misses++

	embedding, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(embedding); err == nil {
		if err := c.client.Set(ctx, key, data, c.config.DefaultTTL).Err(); err != nil {
			c.logger.Warn("failed to cache embedding", zap.Error(err))
		}
	}

	return embedding, nil
}

// EmbedBatch embeds texts one by one through the cache.
func (c *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, 0, len(texts))
	for _, text := range texts {
		embedding, err := c.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings = append(embeddings, embedding)
	}
	return embeddings, nil
}

// Stats returns hit/miss counters for the current process.
func (c *CachedEmbedder) Stats() CacheStats {
	stats := CacheStats{Hits: c.hits, Misses: c.misses}
	if total := c.hits + c.misses; total > 0 {
		stats.HitRate = float64(c.hits) / float64(total)
	}
	return stats
}

// Close closes the Redis client and the inner embedder.
func (c *CachedEmbedder) Close() error {
	if err := c.client.Close(); err != nil {
		return err
	}
	return c.inner.Close()
}

func (c *CachedEmbedder) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return c.config.KeyPrefix + hex.EncodeToString(sum[:])
}
