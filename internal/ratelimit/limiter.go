// Package ratelimit implements fixed-window request limiting over an
// injected counter store, so the backing state is swappable (Redis for a
// fleet, in-memory for a single node) and resettable between tests.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// CounterStore maps a key to a windowed counter.
type CounterStore interface {
	// Incr increments the counter for key, setting its expiry to window on
	// first increment, and returns the new count.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// Limiter enforces at most Limit requests per Window per key.
type Limiter struct {
	store  CounterStore
	limit  int64
	window time.Duration
}

// New creates a limiter over the given counter store.
func New(store CounterStore, limit int64, window time.Duration) *Limiter {
	return &Limiter{store: store, limit: limit, window: window}
}

// Allow records one request for key and reports whether it is within the
// limit for the current window.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := fmt.Sprintf("rl:%s:%d", key, time.Now().Unix()/int64(l.window.Seconds()))
	n, err := l.store.Incr(ctx, bucket, l.window)
	if err != nil {
		return false, err
	}
	return n <= l.limit, nil
}

// RedisStore backs counters with Redis. Suitable when several instances
// share the limit.
type RedisStore struct {
	Client *redis.Client
}

// NewRedisStore creates a Redis-backed counter store.
func NewRedisStore(addr, password string, db int) *RedisStore {
	return &RedisStore{Client: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	n, err := s.Client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		_ = s.Client.Expire(ctx, key, window).Err()
	}
	return n, nil
}

// MemoryStore backs counters with a process-local map. Single-node default.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[string]*memCounter
}

type memCounter struct {
	count     int64
	expiresAt time.Time
}

// NewMemoryStore creates an in-memory counter store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counters: make(map[string]*memCounter)}
}

func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	c, ok := s.counters[key]
	if !ok || now.After(c.expiresAt) {
		c = &memCounter{expiresAt: now.Add(window)}
		s.counters[key] = c
	}
	c.count++
	return c.count, nil
}

// Reset clears all counters. For tests.
func (s *MemoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters = make(map[string]*memCounter)
}
