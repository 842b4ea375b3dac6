// Package cache keeps the latest signal per symbol in Redis.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"SignalSentinel/internal/model"
)

const (
	DefaultTTL       = 15 * time.Minute
	DefaultNamespace = "signals"
)

// SignalSource produces a fresh signal for a symbol.
type SignalSource interface {
	Signal(ctx context.Context, symbol string) (*model.Signal, error)
}

// SignalCache decorates a SignalSource with a Redis read-through cache.
// A nil client bypasses the cache entirely.
type SignalCache struct {
	inner     SignalSource
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// NewSignalCache wraps inner. If ttl is 0 it defaults to 15 minutes; an
// empty namespace becomes "signals".
func NewSignalCache(rdb *redis.Client, ttl time.Duration, inner SignalSource, namespace string) *SignalCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &SignalCache{inner: inner, rdb: rdb, ttl: ttl, namespace: namespace}
}

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

// Signal returns the cached signal for symbol, computing and storing it on a miss.
func (c *SignalCache) Signal(ctx context.Context, symbol string) (*model.Signal, error) {
	if sig, ok := c.Get(ctx, symbol); ok {
		return sig, nil
	}
	sig, err := c.inner.Signal(ctx, symbol)
	if err != nil {
		return nil, err
	}
	_ = c.Put(ctx, sig) // best effort
	return sig, nil
}

// Get looks up a cached signal. Corrupted entries are deleted and reported as misses.
func (c *SignalCache) Get(ctx context.Context, symbol string) (*model.Signal, bool) {
	if c.rdb == nil {
		return nil, false
	}
	key := c.key(symbol)
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return nil, false
	}
	var sig model.Signal
	if err := json.Unmarshal(b, &sig); err != nil {
		_ = c.rdb.Del(ctx, key).Err()
		return nil, false
	}
	return &sig, true
}

// Put stores sig under its symbol with the cache TTL.
func (c *SignalCache) Put(ctx context.Context, sig *model.Signal) error {
	if c.rdb == nil || sig == nil {
		return nil
	}
	b, err := json.Marshal(sig)
	if err != nil {
		return fmt.Errorf("encode signal: %w", err)
	}
	return c.rdb.Set(ctx, c.key(sig.Symbol), b, c.ttl).Err()
}

// Invalidate drops the cached signal for symbol.
func (c *SignalCache) Invalidate(ctx context.Context, symbol string) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, c.key(symbol)).Err()
}

func (c *SignalCache) key(symbol string) string {
	return c.namespace + ":" + safe(strings.ToUpper(symbol))
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
