// Package cache memoizes simulation results keyed by their request.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"renewable_simulator/internal/model"
)

// ErrMiss is returned when no result is cached under a key.
var ErrMiss = errors.New("cache miss")

const keyPrefix = "renewsim"

// Cache stores simulation results.
type Cache interface {
	Get(ctx context.Context, key string) (model.Result, error)
	Set(ctx context.Context, key string, result model.Result) error
}

// Key derives a stable cache key from the operation name and its request.
// Requests that encode to the same JSON share a key.
func Key(operation string, request any) (string, error) {
	data, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s:%s", keyPrefix, operation, hex.EncodeToString(sum[:])), nil
}

// Redis is a Cache backed by a Redis server.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to addr and verifies the connection.
func NewRedis(ctx context.Context, addr string, ttl time.Duration) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return &Redis{client: client, ttl: ttl}, nil
}

func (r *Redis) Get(ctx context.Context, key string) (model.Result, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return model.Result{}, ErrMiss
		}
		return model.Result{}, fmt.Errorf("reading %s: %w", key, err)
	}
	var result model.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return model.Result{}, fmt.Errorf("decoding %s: %w", key, err)
	}
	return result, nil
}

func (r *Redis) Set(ctx context.Context, key string, result model.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

// MemoryMaxEntries bounds a Memory cache. At the bound the oldest entry is
// evicted.
const MemoryMaxEntries = 1024

// Memory is an in-process Cache with per-entry expiry. A zero TTL keeps
// entries until they are evicted for space. Expired entries are swept
// from Set at most once per TTL.
type Memory struct {
	mu        sync.Mutex
	entries   map[string]entry
	ttl       time.Duration
	max       int
	lastSweep time.Time
	now       func() time.Time
}

type entry struct {
	result  model.Result
	stored  time.Time
	expires time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{entries: make(map[string]entry), ttl: ttl, max: MemoryMaxEntries, now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string) (model.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return model.Result{}, ErrMiss
	}
	if e.expired(m.now()) {
		delete(m.entries, key)
		return model.Result{}, ErrMiss
	}
	return e.result, nil
}

func (m *Memory) Set(_ context.Context, key string, result model.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if m.ttl > 0 && now.Sub(m.lastSweep) >= m.ttl {
		m.sweep(now)
	}
	if _, ok := m.entries[key]; !ok && len(m.entries) >= m.max {
		m.sweep(now)
		if len(m.entries) >= m.max {
			m.evictOldest()
		}
	}

	e := entry{result: result, stored: now}
	if m.ttl > 0 {
		e.expires = now.Add(m.ttl)
	}
	m.entries[key] = e
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Memory) sweep(now time.Time) {
	for k, e := range m.entries {
		if e.expired(now) {
			delete(m.entries, k)
		}
	}
	m.lastSweep = now
}

func (m *Memory) evictOldest() {
	var (
		oldest string
		at     time.Time
		found  bool
	)
	for k, e := range m.entries {
		if !found || e.stored.Before(at) {
			oldest, at, found = k, e.stored, true
		}
	}
	if found {
		delete(m.entries, oldest)
	}
}

func (e entry) expired(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}
