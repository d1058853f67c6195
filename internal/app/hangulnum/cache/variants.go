package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"hangulnum.local/internal/platform/metrics"
)

// Source 标记结果从哪一层拿到。
type Source string

const (
	SourceL1      Source = "l1"
	SourceL2      Source = "l2"
	SourceCompute Source = "compute"
)

const keyPrefix = "hn:variants:"

func Key(num uint64) string {
	return keyPrefix + strconv.FormatUint(num, 10)
}

// VariantsCache 两级缓存：L1 ristretto，L2 Redis（JSON 数组）。
// 变体表完全由数字决定，不存在失效问题，TTL 只用来回收空间。
// client 为 nil 时只有 L1；Redis 出错时降级为直接计算。
type VariantsCache struct {
	client *redis.Client
	local  *LocalCache
	ttl    time.Duration
}

func NewVariantsCache(client *redis.Client, local *LocalCache, ttl time.Duration) *VariantsCache {
	return &VariantsCache{client: client, local: local, ttl: ttl}
}

// GetOrCompute 依次查 L1、L2，都没有时调用 compute 并回填两级缓存。
func (c *VariantsCache) GetOrCompute(ctx context.Context, num uint64, compute func() []string) ([]string, Source) {
	if c.local != nil {
		if texts, ok := c.local.Get(num); ok {
			metrics.CacheOperations.WithLabelValues("l1", "hit").Inc()
			return texts, SourceL1
		}
		metrics.CacheOperations.WithLabelValues("l1", "miss").Inc()
	}

	if c.client != nil {
		texts, err := c.getRemote(ctx, num)
		switch {
		case err == nil:
			metrics.CacheOperations.WithLabelValues("l2", "hit").Inc()
			if c.local != nil {
				c.local.Set(num, texts)
			}
			return texts, SourceL2
		case errors.Is(err, redis.Nil):
			metrics.CacheOperations.WithLabelValues("l2", "miss").Inc()
		default:
			metrics.CacheOperations.WithLabelValues("l2", "error").Inc()
			slog.Warn("variants cache read failed", "key", Key(num), "err", err)
		}
	}

	texts := compute()
	if c.local != nil {
		c.local.Set(num, texts)
	}
	if c.client != nil {
		if err := c.setRemote(ctx, num, texts); err != nil {
			slog.Warn("variants cache write failed", "key", Key(num), "err", err)
		}
	}
	return texts, SourceCompute
}

func (c *VariantsCache) getRemote(ctx context.Context, num uint64) ([]string, error) {
	raw, err := c.client.Get(ctx, Key(num)).Bytes()
	if err != nil {
		return nil, err
	}
	var texts []string
	if err := json.Unmarshal(raw, &texts); err != nil {
		return nil, err
	}
	return texts, nil
}

func (c *VariantsCache) setRemote(ctx context.Context, num uint64, texts []string) error {
	raw, err := json.Marshal(texts)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, Key(num), raw, c.ttl).Err()
}

func (c *VariantsCache) Close() {
	if c.local != nil {
		c.local.Close()
		slog.Info("本地缓存已关闭")
	}
}
