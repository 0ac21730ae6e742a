package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisNamespace = "portfolio:"

// Redis shares cached replies across server instances. Entries expire through
// Redis TTLs; hit and miss counters are local to this process.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewRedis connects using a redis:// URL and verifies the connection.
func NewRedis(ctx context.Context, url string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisWithClient(client, ttl), nil
}

func NewRedisWithClient(client *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, redisNamespace+key).Result()
	if errors.Is(err, redis.Nil) {
		r.misses.Add(1)
		return "", false, nil
	}
	if err != nil {
		r.misses.Add(1)
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	r.hits.Add(1)
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, key, reply string) error {
	if err := r.client.Set(ctx, redisNamespace+key, reply, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// FlushAll deletes only this cache's keys so a shared Redis is left intact.
func (r *Redis) FlushAll(ctx context.Context) error {
	keys, err := r.keys(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (r *Redis) Stats(ctx context.Context) (Stats, error) {
	keys, err := r.keys(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		Hits:    r.hits.Load(),
		Misses:  r.misses.Load(),
		Keys:    len(keys),
		Backend: "redis",
	}, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, redisNamespace+keyPrefix+"*", 200).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	return keys, nil
}
