package store

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps mind maps in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*MindMap
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]*MindMap)}
}

func (s *MemoryStore) Save(_ context.Context, m *MindMap) error {
	if err := prepare(m); err != nil {
		return err
	}
	cp, err := clone(m)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.docs[cp.ID]; ok {
		cp.CreatedAt = prev.CreatedAt
		m.CreatedAt = prev.CreatedAt
	}
	s.docs[cp.ID] = cp
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*MindMap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.docs[id]
	if !ok {
		return nil, notFound(id)
	}
	return clone(m)
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]*MindMap, error) {
	s.mu.RLock()
	all := make([]*MindMap, 0, len(s.docs))
	for _, m := range s.docs {
		all = append(all, m)
	}
	s.mu.RUnlock()

	slices.SortFunc(all, newestFirst)
	all = all[:min(len(all), listLimit(limit))]

	out := make([]*MindMap, 0, len(all))
	for _, m := range all {
		cp, err := clone(m)
		if err != nil {
			return nil, err
		}
		out = append(out, cp)
	}
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return notFound(id)
	}
	delete(s.docs, id)
	return nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
