package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var ErrTooManyLocks = errors.New("too many sessions locked")

type lockEntry struct {
	mu sync.Mutex
	// users counts holders plus waiters; the entry is dropped when it hits zero.
	users int
}

// LockMap serializes work on a single session within this process. At most
// limit sessions can be locked or waited on at once.
type LockMap struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*lockEntry
	limit   int
}

func NewLockMap(limit int) *LockMap {
	return &LockMap{entries: make(map[uuid.UUID]*lockEntry), limit: limit}
}

// Lock blocks until the session is free and returns the func that releases
// it. Calling the release func more than once is a no-op.
func (m *LockMap) Lock(id uuid.UUID) (func(), error) {
	m.mu.Lock()
	entry, ok := m.entries[id]
	if !ok {
		if len(m.entries) >= m.limit {
			m.mu.Unlock()
			return nil, ErrTooManyLocks
		}
		entry = &lockEntry{}
		m.entries[id] = entry
	}
	entry.users++
	m.mu.Unlock()

	entry.mu.Lock()

	var once sync.Once
	return func() { once.Do(func() { m.release(id, entry) }) }, nil
}

func (m *LockMap) release(id uuid.UUID, entry *lockEntry) {
	entry.mu.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	entry.users--
	if entry.users == 0 {
		delete(m.entries, id)
	}
}

// Len reports how many sessions are currently locked or waited on.
func (m *LockMap) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
