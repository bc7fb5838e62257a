package session

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"
)

// ErrSessionNotFound indicates no stored session under the given id.
var ErrSessionNotFound = errors.New("session not found")

// Store persists session snapshots by id.
type Store interface {
	Load(ctx context.Context, id string) (Snapshot, error)
	Save(ctx context.Context, id string, snap Snapshot) error
	Delete(ctx context.Context, id string) error
}

type memoryEntry struct {
	snap    Snapshot
	expires time.Time
}

// MemoryStore keeps snapshots in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time

	// nextSweep is when Save next drops expired entries.
	nextSweep time.Time
}

// NewMemoryStore creates a memory store. A ttl of 0 keeps entries forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Load returns the snapshot for id, or ErrSessionNotFound.
func (m *MemoryStore) Load(_ context.Context, id string) (Snapshot, error) {
	m.mu.RLock()
	entry, ok := m.entries[id]
	m.mu.RUnlock()

	if !ok {
		return Snapshot{}, ErrSessionNotFound
	}
	if !entry.expires.IsZero() && m.now().After(entry.expires) {
		m.mu.Lock()
		delete(m.entries, id)
		m.mu.Unlock()
		return Snapshot{}, ErrSessionNotFound
	}

	snap := entry.snap
	snap.Results = slices.Clone(snap.Results)
	return snap, nil
}

// Save stores a copy of snap under id and restarts its TTL.
func (m *MemoryStore) Save(_ context.Context, id string, snap Snapshot) error {
	snap.Results = slices.Clone(snap.Results)

	now := m.now()
	entry := memoryEntry{snap: snap}
	if m.ttl > 0 {
		entry.expires = now.Add(m.ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ttl > 0 && !now.Before(m.nextSweep) {
		m.sweep(now)
		m.nextSweep = now.Add(m.ttl)
	}
	m.entries[id] = entry
	return nil
}

// sweep drops entries expired at now. m.mu must be held.
func (m *MemoryStore) sweep(now time.Time) {
	for id, entry := range m.entries {
		if !entry.expires.IsZero() && now.After(entry.expires) {
			delete(m.entries, id)
		}
	}
}

// Delete removes id. Deleting a missing id is not an error.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}

// Len returns the number of live sessions and drops expired ones.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep(m.now())
	return len(m.entries)
}

// stored returns the raw entry count, expired entries included.
func (m *MemoryStore) stored() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
