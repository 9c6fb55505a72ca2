// Package cache memoizes finished story documents by story id.
// Every implementation runs at most one computation per key at a time:
// concurrent requests for the same story share the in-flight result.
package cache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ComputeFunc produces the value for a key.
type ComputeFunc func(ctx context.Context) ([]byte, error)

// Cache is a get-or-compute store keyed by story id.
type Cache interface {
	GetOrCompute(ctx context.Context, key string, compute ComputeFunc) ([]byte, error)
}

// Memory is an unbounded in-process cache. Entries are never evicted.
// Failed computations are not stored.
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]byte
	group   singleflight.Group
}

// NewMemory creates an empty Memory cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]byte)}
}

// GetOrCompute returns the cached value for key, computing it if absent.
func (m *Memory) GetOrCompute(ctx context.Context, key string, compute ComputeFunc) ([]byte, error) {
	m.mu.RLock()
	data, ok := m.entries[key]
	m.mu.RUnlock()
	if ok {
		return data, nil
	}

	return shared(ctx, &m.group, key, func(ctx context.Context) ([]byte, error) {
		m.mu.RLock()
		data, ok := m.entries[key]
		m.mu.RUnlock()
		if ok {
			return data, nil
		}

		data, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.entries[key] = data
		m.mu.Unlock()
		return data, nil
	})
}

// Len reports the number of cached entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// shared runs fn once per key across concurrent callers. The computation is
// detached from any single caller's cancellation; each caller stops waiting
// when its own context ends.
func shared(ctx context.Context, group *singleflight.Group, key string, fn ComputeFunc) ([]byte, error) {
	detached := context.WithoutCancel(ctx)
	ch := group.DoChan(key, func() (interface{}, error) {
		return fn(detached)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}
