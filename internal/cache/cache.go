package cache

import (
	"sync"
	"time"
	"warboard/internal/constants"
)

type entry[V any] struct {
	value    V
	expireAt time.Time
}

// TTL is a map whose entries stop being visible a fixed time after they
// were set. Expired entries are dropped when read; nothing evicts in the
// background and there is no size bound.
type TTL[V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry[V]
}

func New[V any](ttl time.Duration) *TTL[V] {
	return NewWithClock[V](ttl, time.Now)
}

func NewWithClock[V any](ttl time.Duration, now func() time.Time) *TTL[V] {
	return &TTL[V]{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]entry[V]),
	}
}

// NewResponseCache is the cache shared by all upstream fetches.
func NewResponseCache() *TTL[any] {
	return New[any](constants.ResponseCacheTTL)
}

func (c *TTL[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if !c.now().Before(e.expireAt) {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *TTL[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{value: value, expireAt: c.now().Add(c.ttl)}
}

func (c *TTL[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Key builds the "{kind}_{tag}" key used for upstream records.
func Key(kind, tag string) string {
	return kind + "_" + tag
}
