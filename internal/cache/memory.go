package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// Memory is an in-process cache. Expired entries are never returned and are
// reclaimed by a background loop started in NewMemory.
type Memory struct {
	items *ttlcache.Cache[string, string]
}

func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	items := ttlcache.New[string, string](
		ttlcache.WithTTL[string, string](ttl),
		// A hit must not extend the entry's lifetime.
		ttlcache.WithDisableTouchOnHit[string, string](),
	)
	go items.Start()
	return &Memory{items: items}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	item := m.items.Get(key)
	if item == nil {
		return "", false, nil
	}
	return item.Value(), true, nil
}

func (m *Memory) Set(_ context.Context, key, reply string) error {
	m.items.Set(key, reply, ttlcache.DefaultTTL)
	return nil
}

func (m *Memory) FlushAll(_ context.Context) error {
	m.items.DeleteAll()
	return nil
}

func (m *Memory) Stats(_ context.Context) (Stats, error) {
	metrics := m.items.Metrics()
	return Stats{
		Hits:    metrics.Hits,
		Misses:  metrics.Misses,
		Keys:    m.items.Len(),
		Backend: "memory",
	}, nil
}

// Close stops the expiry loop.
func (m *Memory) Close() error {
	m.items.Stop()
	return nil
}
