package recommendation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache は推薦結果のキャッシュ。
type Cache interface {
	// Get はキャッシュ済みの推薦を返す。存在しない場合はnil, nilを返す。
	Get(ctx context.Context, key string) (*Recommendation, error)
	Set(ctx context.Context, key string, rec *Recommendation, ttl time.Duration) error
}

// RedisCache はRedisを使ったCache実装。値はJSONで保存する。
type RedisCache struct {
	client *redis.Client
}

// compile-time interface check
var _ Cache = (*RedisCache)(nil)

// NewRedisCache はRedisCacheの新しいインスタンスを生成する。
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// NewRedisClient はredis://形式のURLからRedisクライアントを生成する。
func NewRedisClient(rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("REDIS_URLのパースに失敗しました: %w", err)
	}
	return redis.NewClient(opts), nil
}

// PingRedis はRedisへの疎通を確認する。
func PingRedis(ctx context.Context, client *redis.Client) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Get はキャッシュから推薦を取得する。
func (c *RedisCache) Get(ctx context.Context, key string) (*Recommendation, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get recommendation cache: %w", err)
	}

	var rec Recommendation
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode recommendation cache: %w", err)
	}
	return &rec, nil
}

// Set は推薦をTTL付きで保存する。
func (c *RedisCache) Set(ctx context.Context, key string, rec *Recommendation, ttl time.Duration) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode recommendation cache: %w", err)
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("set recommendation cache: %w", err)
	}
	return nil
}
