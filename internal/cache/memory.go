package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultMaxEntries bounds a Memory store created without an explicit size.
const DefaultMaxEntries = 10000

type entry struct {
	val     []byte
	expires time.Time
}

// Memory is an in-process Store holding at most a fixed number of entries.
// Expired entries are dropped on access and whenever the store fills up; if
// it is still full, the entry closest to expiry makes room.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	max     int
	now     func() time.Time
}

// NewMemory returns a Memory holding up to maxEntries entries. A non-positive
// maxEntries selects DefaultMaxEntries.
func NewMemory(maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Memory{entries: make(map[string]entry), max: maxEntries, now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if e.expired(m.now()) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return append([]byte(nil), e.val...), true, nil
}

// Set stores val. A non-positive ttl never expires.
func (m *Memory) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if _, ok := m.entries[key]; !ok && len(m.entries) >= m.max {
		m.sweep(now)
		if len(m.entries) >= m.max {
			m.evict()
		}
	}

	e := entry{val: append([]byte(nil), val...)}
	if ttl > 0 {
		e.expires = now.Add(ttl)
	}
	m.entries[key] = e
	return nil
}

// Len returns the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (e entry) expired(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// sweep drops every expired entry. Callers hold m.mu.
func (m *Memory) sweep(now time.Time) {
	for k, e := range m.entries {
		if e.expired(now) {
			delete(m.entries, k)
		}
	}
}

// evict drops the entry that expires soonest, preferring entries that expire
// over those that never do. Callers hold m.mu.
func (m *Memory) evict() {
	var (
		victim string
		best   entry
		found  bool
	)
	for k, e := range m.entries {
		switch {
		case !found:
		case best.expires.IsZero() && !e.expires.IsZero():
		case !e.expires.IsZero() && e.expires.Before(best.expires):
		default:
			continue
		}
		victim, best, found = k, e, true
	}
	if found {
		delete(m.entries, victim)
	}
}
