// Package cache provides the origin-side flag cache that sits between the
// HTTP handlers and the database. Two backends exist: an in-process TTL
// map (the default) and Redis.
package cache

import (
	"context"
	"sync"
	"time"

	"openflag/internal/domain/flags"
)

// Memory is an in-process TTL cache. Entries expire lazily on read; there
// is no background sweep.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry

	// now is swappable in tests
	now func() time.Time
}

type memoryEntry struct {
	flag     flags.Flag
	storedAt time.Time
}

// NewMemory creates an in-process cache with the given TTL.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get returns the cached flag for key if present and fresh.
func (m *Memory) Get(_ context.Context, key string) (*flags.Flag, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if m.now().Sub(entry.storedAt) > m.ttl {
		delete(m.entries, key)
		return nil, false
	}
	flag := entry.flag
	return &flag, true
}

// Set stores flag under its key with a fresh timestamp.
func (m *Memory) Set(_ context.Context, flag *flags.Flag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[flag.Key] = memoryEntry{flag: *flag, storedAt: m.now()}
}

// Delete removes the entry for key.
func (m *Memory) Delete(_ context.Context, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// Clear drops every entry.
func (m *Memory) Clear(_ context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]memoryEntry)
}

var _ flags.Cache = (*Memory)(nil)
