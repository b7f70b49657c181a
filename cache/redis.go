package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"Chirp/config"

	lru "github.com/hashicorp/golang-lru"
	"github.com/redis/go-redis/v9"
)

// Cache stores rendered responses. It talks to Redis when one is configured
// and otherwise keeps entries in a bounded in-process LRU.
type Cache struct {
	client *redis.Client
	local  *lru.Cache
}

type localEntry struct {
	value   string
	expires time.Time
}

func New(client *redis.Client, localSize int) (*Cache, error) {
	if localSize <= 0 {
		localSize = 1024
	}
	local, err := lru.New(localSize)
	if err != nil {
		return nil, fmt.Errorf("create local cache: %w", err)
	}
	return &Cache{client: client, local: local}, nil
}

// NewFromConfig connects using either:
// - REDIS_URL (redis:// or rediss://)
// - REDIS_ADDR (+ REDIS_USERNAME / REDIS_PASSWORD)
// - or neither, in which case only the local tier is used.
// If Redis is configured but unreachable the returned cache is local-only and
// the connection error is returned alongside it.
func NewFromConfig(cfg config.Redis) (*Cache, error) {
	var client *redis.Client

	switch {
	case cfg.URL != "":
		opt, err := redis.ParseURL(cfg.URL)
		if err != nil {
			c, _ := New(nil, cfg.LocalCacheSize)
			return c, fmt.Errorf("failed to parse REDIS_URL: %w", err)
		}
		client = redis.NewClient(opt)
	case cfg.Addr != "":
		client = redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Username: cfg.Username,
			Password: cfg.Password,
		})
	default:
		return New(nil, cfg.LocalCacheSize)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		c, _ := New(nil, cfg.LocalCacheSize)
		return c, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return New(client, cfg.LocalCacheSize)
}

func (c *Cache) Remote() bool {
	return c != nil && c.client != nil
}

// Get returns "" on a miss.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	if c == nil {
		return "", nil
	}
	if c.client != nil {
		val, err := c.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return val, err
	}

	raw, ok := c.local.Get(key)
	if !ok {
		return "", nil
	}
	entry := raw.(localEntry)
	if !entry.expires.IsZero() && time.Now().After(entry.expires) {
		c.local.Remove(key)
		return "", nil
	}
	return entry.value, nil
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	if c.client != nil {
		return c.client.Set(ctx, key, value, ttl).Err()
	}

	entry := localEntry{value: string(value)}
	if ttl > 0 {
		entry.expires = time.Now().Add(ttl)
	}
	c.local.Add(key, entry)
	return nil
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if c == nil || len(keys) == 0 {
		return nil
	}
	if c.client != nil {
		return c.client.Del(ctx, keys...).Err()
	}
	for _, key := range keys {
		c.local.Remove(key)
	}
	return nil
}

func (c *Cache) DeleteByPrefix(ctx context.Context, prefix string) error {
	if c == nil {
		return nil
	}
	if c.client == nil {
		for _, raw := range c.local.Keys() {
			if key, ok := raw.(string); ok && strings.HasPrefix(key, prefix) {
				c.local.Remove(key)
			}
		}
		return nil
	}

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return nil
}

func (c *Cache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
