package house

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps houses in process memory. It backs the server when no
// database is configured and is used in tests.
type MemoryStore struct {
	mu     sync.RWMutex
	houses map[string]House
	order  []string
	now    func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{houses: make(map[string]House), now: time.Now}
}

func (s *MemoryStore) Insert(_ context.Context, n NewHouse) (string, error) {
	if err := n.Validate(); err != nil {
		return "", err
	}
	id := uuid.NewString()
	now := s.now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.houses[id] = House{
		ID:        id,
		Link:      n.Link,
		Vote:      n.Vote,
		Comment:   n.Comment,
		Record:    n.Record,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.order = append(s.order, id)
	return id, nil
}

func (s *MemoryStore) Remove(_ context.Context, id string) error {
	id, err := parseID(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.houses[id]
	if !ok || h.Removed {
		return notFound(id)
	}
	h.Removed = true
	h.UpdatedAt = s.now().UTC()
	s.houses[id] = h
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]House, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]House, 0, len(s.order))
	for _, id := range s.order {
		if h := s.houses[id]; !h.Removed {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (House, error) {
	id, err := parseID(id)
	if err != nil {
		return House{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.houses[id]
	if !ok {
		return House{}, notFound(id)
	}
	return h, nil
}

func (s *MemoryStore) Update(_ context.Context, id string, u Update) (House, error) {
	id, err := parseID(id)
	if err != nil {
		return House{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.houses[id]
	if !ok {
		return House{}, notFound(id)
	}
	h.Vote = u.Vote
	h.Comment = u.Comment
	h.UpdatedAt = s.now().UTC()
	s.houses[id] = h
	return h, nil
}

func (s *MemoryStore) Close() error { return nil }
