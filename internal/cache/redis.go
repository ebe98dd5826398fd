package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/rueidis"
)

// RedisConfig holds connection parameters for a Redis cache backend.
type RedisConfig struct {
	Addrs    []string
	Username string
	Password string
	DB       int
}

// RedisBackend stores entries in Redis with server-side TTL expiry, so the
// cache survives restarts and is shared across scoring workers.
type RedisBackend struct {
	client rueidis.Client
}

// NewRedisBackend connects to Redis via rueidis.
func NewRedisBackend(cfg RedisConfig) (*RedisBackend, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &RedisBackend{client: client}, nil
}

// Ping checks connectivity.
func (b *RedisBackend) Ping(ctx context.Context) error {
	cmd := b.client.B().Ping().Build()
	if err := b.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// WaitForReady polls Ping until Redis responds or the timeout expires.
func (b *RedisBackend) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for cache backend: %w", ctx.Err())
		case <-ticker.C:
			if err := b.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// Close shuts down the client.
func (b *RedisBackend) Close() {
	b.client.Close()
}

// Get retrieves an entry.
func (b *RedisBackend) Get(ctx context.Context, key string) (Entry, bool, error) {
	cmd := b.client.B().Get().Key(key).Build()
	data, err := b.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("get %s: %w", key, err)
	}

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return Entry{}, false, fmt.Errorf("decode entry %s: %w", key, err)
	}
	return e, true, nil
}

// Set stores an entry with the given TTL.
func (b *RedisBackend) Set(ctx context.Context, key string, e Entry, ttl time.Duration) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}
	cmd := b.client.B().Set().Key(key).Value(string(data)).Ex(ttl).Build()
	if err := b.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete removes an entry.
func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	cmd := b.client.B().Del().Key(key).Build()
	if err := b.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// Keys returns nil: Redis expires entries server-side, so a proactive sweep
// has nothing to do.
func (b *RedisBackend) Keys(_ context.Context) ([]string, error) {
	return nil, nil
}

// Purge drops every cache entry under the cache key prefix.
func (b *RedisBackend) Purge(ctx context.Context) error {
	var cursor uint64
	for {
		cmd := b.client.B().Scan().Cursor(cursor).Match(keyPrefix + "*").Count(500).Build()
		entry, err := b.client.Do(ctx, cmd).AsScanEntry()
		if err != nil {
			return fmt.Errorf("scan: %w", err)
		}

		if len(entry.Elements) > 0 {
			del := b.client.B().Del().Key(entry.Elements...).Build()
			if err := b.client.Do(ctx, del).Error(); err != nil {
				return fmt.Errorf("del batch: %w", err)
			}
		}

		cursor = entry.Cursor
		if cursor == 0 {
			return nil
		}
	}
}
