package session

import (
	"context"
	"sync"
	"time"

	"jobbot/models"
)

// MemoryStore keeps sessions for the life of the process.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*models.Session), now: time.Now}
}

func (m *MemoryStore) GetOrCreate(_ context.Context, id string) (*models.Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s.Clone(), false, nil
	}
	s := models.NewSession(id, m.now())
	m.sessions[id] = s
	return s.Clone(), true, nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s.Clone(), nil
}

func (m *MemoryStore) Save(_ context.Context, sess *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess.Clone()
	return nil
}

func (m *MemoryStore) Reset(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	return ok, nil
}

// Len is the number of live sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
