package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// 模块目录的所有缓存项都存放在同一个 hash 中，失效只需一次 DEL
const (
	catalogKey    = "modules:catalog"
	generationKey = "modules:catalog:gen"
)

type RedisModuleCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisModuleCache(client *redis.Client, ttl time.Duration) *RedisModuleCache {
	return &RedisModuleCache{client: client, ttl: ttl}
}

// Get 命中时将缓存内容解码到 dst 并返回 true
func (c *RedisModuleCache) Get(ctx context.Context, field string, dst interface{}) (bool, error) {
	data, err := c.client.HGet(ctx, catalogKey, field).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisModuleCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Set 以 WATCH 保证代数未变时才写入；代数已变或并发失效时静默放弃
func (c *RedisModuleCache) Set(ctx context.Context, gen int64, field string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, generationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, catalogKey, field, data)
			pipe.Expire(ctx, catalogKey, c.ttl)
			return nil
		})
		return err
	}, generationKey)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

func (c *RedisModuleCache) Invalidate(ctx context.Context) error {
	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, generationKey)
	pipe.Del(ctx, catalogKey)
	_, err := pipe.Exec(ctx)
	return err
}

// NopModuleCache 未启用 Redis 时使用
type NopModuleCache struct{}

func (NopModuleCache) Get(context.Context, string, interface{}) (bool, error) { return false, nil }

func (NopModuleCache) Generation(context.Context) (int64, error) { return 0, nil }

func (NopModuleCache) Set(context.Context, int64, string, interface{}) error { return nil }

func (NopModuleCache) Invalidate(context.Context) error { return nil }
