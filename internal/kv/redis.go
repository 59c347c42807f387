package kv

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Redis provides key-value persistence in Redis. Every key is namespaced
// with prefix so several lists can share one database.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis creates a Redis store over an existing client.
func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

// DialRedis connects to addr and verifies the connection with a ping.
func DialRedis(ctx context.Context, addr, prefix string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("could not connect to redis (%s): %w: %v", addr, ErrUnavailable, err)
	}
	return NewRedis(client, prefix), nil
}

// Get retrieves the value stored under key.
func (s *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	data, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get %s: %w: %v", key, ErrUnavailable, err)
	}
	return data, true, nil
}

// Set stores value under key without expiry.
func (s *Redis) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w: %v", key, ErrUnavailable, err)
	}
	return nil
}

// Delete removes key.
func (s *Redis) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w: %v", key, ErrUnavailable, err)
	}
	return nil
}

// Ping checks the Redis connection health.
func (s *Redis) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w: %v", ErrUnavailable, err)
	}
	return nil
}

// Close shuts down the connection pool.
func (s *Redis) Close() error {
	return s.client.Close()
}

func (s *Redis) key(k string) string {
	if s.prefix == "" {
		return k
	}
	return s.prefix + ":" + k
}
