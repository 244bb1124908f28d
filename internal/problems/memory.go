package problems

import (
	"context"
	"sync"
)

// MemoryStore is an in-process catalog used in tests and local development.
type MemoryStore struct {
	mu       sync.RWMutex
	problems map[string]*Problem
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{problems: make(map[string]*Problem)}
}

func (m *MemoryStore) Add(p *Problem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.problems[p.ProblemID] = p
}

func (m *MemoryStore) GetProblem(_ context.Context, problemID string) (*Problem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.problems[problemID]
	if !ok {
		return nil, ErrProblemNotFound
	}
	return p, nil
}
