package store

import (
	"context"
	"sync"
	"time"

	"github.com/patternworks/tess/internal/domain"
)

// MemoryStore implements Store with an in-process map. It is used by
// tests and suits ephemeral deployments; records do not survive a
// restart. Safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*memoryRecord
}

type memoryRecord struct {
	session   domain.Session
	updatedAt int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*memoryRecord)}
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}

// Put writes the full record.
func (m *MemoryStore) Put(ctx context.Context, id string, session *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *session
	stored.Messages = append([]domain.Message(nil), session.Messages...)
	m.sessions[id] = &memoryRecord{session: stored, updatedAt: time.Now().UnixMilli()}
	return nil
}

// Get returns a copy of the record, or (nil, nil) when absent.
func (m *MemoryStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	session := rec.session
	session.Messages = append([]domain.Message(nil), rec.session.Messages...)
	return &session, nil
}

// Delete removes the record, reporting whether one existed.
func (m *MemoryStore) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.sessions[id]
	delete(m.sessions, id)
	return ok, nil
}

// List enumerates all records as summaries.
func (m *MemoryStore) List(ctx context.Context) ([]domain.SessionSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summaries := make([]domain.SessionSummary, 0, len(m.sessions))
	for _, rec := range m.sessions {
		summaries = append(summaries, rec.session.Summarize())
	}
	return summaries, nil
}

// DeleteAll removes every record and returns the number removed.
func (m *MemoryStore) DeleteAll(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.sessions)
	m.sessions = make(map[string]*memoryRecord)
	return n, nil
}

// DeleteOlderThan removes records not modified since cutoff.
func (m *MemoryStore) DeleteOlderThan(ctx context.Context, cutoff int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, rec := range m.sessions {
		if rec.updatedAt < cutoff {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

// SetUpdatedAt overrides a record's last-modified time. Test hook for
// exercising expiry sweeps.
func (m *MemoryStore) SetUpdatedAt(id string, ts int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec, ok := m.sessions[id]; ok {
		rec.updatedAt = ts
	}
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
