package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	KEY_PRODUCTS             = "catalog:products"
	KEY_PRODUCTS_BY_CATEGORY = "catalog:products:category:%s"
	KEY_PRODUCT              = "catalog:product:%d"
	KEY_CATEGORIES           = "catalog:categories"
)

var ErrCacheMiss = errors.New("cache miss")

type QueryCache interface {
	Get(c context.Context, key string, dest interface{}) error
	Set(c context.Context, key string, value interface{}, ttl time.Duration) error
}

// RedisQueryCache stores query results as JSON strings whose TTL is the
// staleness window of the query.
type RedisQueryCache struct {
	client *redis.Client
}

func NewRedisQueryCache(client *redis.Client) *RedisQueryCache {
	return &RedisQueryCache{client: client}
}

func (r *RedisQueryCache) Get(c context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(c, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("failed getting key=%s from redis with error=%w", key, err)
	}
	if err = json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed unmarshaling key=%s with error=%w", key, err)
	}
	return nil
}

func (r *RedisQueryCache) Set(
	c context.Context,
	key string,
	value interface{},
	ttl time.Duration,
) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed marshaling key=%s with error=%w", key, err)
	}
	if err = r.client.Set(c, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed setting key=%s in redis with error=%w", key, err)
	}
	return nil
}
