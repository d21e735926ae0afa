// Package cache provides the in-memory bundle cache used by initial-mode
// map requests.
package cache

import (
	"sync"
	"time"

	"github.com/crazywalk/streetgraph/internal/model"
)

type entry struct {
	bundle  *model.Bundle
	expires time.Time
}

// Memory is a TTL map cache. Expired entries are discarded lazily on read.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemory returns an empty cache.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the bundle stored under key if it has not expired.
func (m *Memory) Get(key string) (*model.Bundle, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if m.now().After(e.expires) {
		m.mu.Lock()
		if cur, still := m.entries[key]; still && m.now().After(cur.expires) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false
	}
	return e.bundle, true
}

// Set stores bundle under key for ttl.
func (m *Memory) Set(key string, bundle *model.Bundle, ttl time.Duration) {
	m.mu.Lock()
	m.entries[key] = entry{bundle: bundle, expires: m.now().Add(ttl)}
	m.mu.Unlock()
}

// Len reports the number of entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
