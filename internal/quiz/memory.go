package quiz

import (
	"context"
	"sync"
)

// MemoryStore is the dev/test session store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]Session)}
}

func (m *MemoryStore) Get(ctx context.Context, chatID int64) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[chatID]
	if !ok {
		return nil, nil
	}
	cp := s
	cp.QuestionIDs = append([]int64(nil), s.QuestionIDs...)
	cp.Answers = append(cp.Answers[:0:0], s.Answers...)
	return &cp, nil
}

func (m *MemoryStore) Put(ctx context.Context, chatID int64, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	cp.QuestionIDs = append([]int64(nil), s.QuestionIDs...)
	cp.Answers = append(cp.Answers[:0:0], s.Answers...)
	m.sessions[chatID] = cp
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, chatID)
	return nil
}
