// Package cache provides a Redis-backed cache for annotation results.
// Annotators are deterministic, so a result keyed by pattern set and input
// text never goes stale; the TTL only bounds memory.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/annotext/emoji-annotation-platform/internal/annotation"
	"github.com/annotext/emoji-annotation-platform/pkg/config"
	pkgredis "github.com/annotext/emoji-annotation-platform/pkg/redis"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "annotate:"

// ResultCache caches rendered annotation results in Redis, collapsing
// concurrent identical requests through singleflight.
type ResultCache struct {
	client *pkgredis.Client
	cfg    config.RedisConfig
	group  singleflight.Group
	logger *slog.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

func New(client *pkgredis.Client, cfg config.RedisConfig) *ResultCache {
	return &ResultCache{
		client: client,
		cfg:    cfg,
		logger: slog.Default().With("component", "result-cache"),
	}
}

func (c *ResultCache) Get(ctx context.Context, patternID, text string) (*annotation.Result, bool) {
	key := c.buildKey(patternID, text)
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.misses.Add(1)
		return nil, false
	}
	var result annotation.Result
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	c.logger.Debug("cache hit", "pattern_id", patternID, "key", key)
	return &result, true
}

func (c *ResultCache) Set(ctx context.Context, patternID, text string, result *annotation.Result) {
	key := c.buildKey(patternID, text)
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.cfg.CacheTTL); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached result for (patternID, text) or runs
// computeFn, caching its result. Concurrent callers with the same key share
// one computation. The second return reports whether the result came from
// the cache.
func (c *ResultCache) GetOrCompute(
	ctx context.Context,
	patternID, text string,
	computeFn func() (*annotation.Result, error),
) (*annotation.Result, bool, error) {
	if result, ok := c.Get(ctx, patternID, text); ok {
		return result, true, nil
	}
	key := c.buildKey(patternID, text)
	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		if result, ok := c.Get(ctx, patternID, text); ok {
			return result, nil
		}
		result, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, patternID, text, result)
		return result, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.(*annotation.Result), false, nil
}

// Invalidate drops every cached annotation result. Needed after a lookup
// table change, which alters what the same text annotates to.
func (c *ResultCache) Invalidate(ctx context.Context) error {
	deleted, err := c.client.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating cache: %w", err)
	}
	c.logger.Info("cache invalidate", "keys_deleted", deleted)
	return nil
}

func (c *ResultCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// buildKey hashes the pattern ID and full input text into a fixed-size key.
// Results differ per pattern set, so the ID is part of the key.
func (c *ResultCache) buildKey(patternID, text string) string {
	raw := fmt.Sprintf("%s\x00%s", patternID, text)
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}
