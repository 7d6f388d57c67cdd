package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	url      string
	deadline time.Time
}

// Memory is a process-local Cache used in tests and when no redis address is
// configured. Expired entries are dropped lazily on read.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
}

func NewMemory(ttl time.Duration) *Memory {
	if ttl == 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Memory{
		entries: make(map[string]entry),
		ttl:     ttl,
	}
}

func (m *Memory) Get(ctx context.Context, code string) (string, error) {
	m.mu.RLock()
	e, ok := m.entries[code]
	m.mu.RUnlock()

	if !ok {
		return "", ErrMiss
	}
	if time.Now().After(e.deadline) {
		m.mu.Lock()
		delete(m.entries, code)
		m.mu.Unlock()
		return "", ErrMiss
	}
	return e.url, nil
}

func (m *Memory) Set(ctx context.Context, code, url string) error {
	m.mu.Lock()
	m.entries[code] = entry{url: url, deadline: time.Now().Add(m.ttl)}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Del(ctx context.Context, code string) error {
	m.mu.Lock()
	delete(m.entries, code)
	m.mu.Unlock()
	return nil
}
