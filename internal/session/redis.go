package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisJar stores entries as Redis strings under prefix+name, using the
// native key TTL for expiry.
type RedisJar struct {
	client *redis.Client
	prefix string
}

// NewRedisJar connects to the Redis server at url (redis://host:port/db)
// and verifies it with a PING.
func NewRedisJar(ctx context.Context, url, prefix string) (*RedisJar, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opt.DialTimeout = 5 * time.Second

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisJar{client: client, prefix: prefix}, nil
}

func (j *RedisJar) key(name string) string { return j.prefix + name }

func (j *RedisJar) Put(ctx context.Context, entries ...Entry) error {
	_, err := j.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, e := range entries {
			var ttl time.Duration
			if !e.Expires.IsZero() {
				ttl = time.Until(e.Expires)
				if ttl <= 0 {
					pipe.Del(ctx, j.key(e.Name))
					continue
				}
			}
			pipe.Set(ctx, j.key(e.Name), e.Value, ttl)
		}
		return nil
	})
	return err
}

func (j *RedisJar) Get(ctx context.Context, name string) (Entry, bool, error) {
	v, err := j.client.Get(ctx, j.key(name)).Result()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	// Redis enforces the TTL itself; the entry carries no expiry.
	return Entry{Name: name, Value: v}, true, nil
}

func (j *RedisJar) Delete(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	keys := make([]string, len(names))
	for i, n := range names {
		keys[i] = j.key(n)
	}
	return j.client.Del(ctx, keys...).Err()
}

func (j *RedisJar) Close() error {
	return j.client.Close()
}
