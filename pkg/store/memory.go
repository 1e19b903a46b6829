package store

import (
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/tiltmaze/pkg/level"
)

// MemoryStore keeps levels in a map. Levels are copied on the way in and
// out, so callers may mutate what they hold.
type MemoryStore struct {
	mu     sync.RWMutex
	levels map[string]*level.Level
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{levels: make(map[string]*level.Level)}
}

func (s *MemoryStore) Save(_ context.Context, l *level.Level) error {
	if err := prepare(l); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.levels[l.ID] = clone(l)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*level.Level, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.levels[id]
	if !ok {
		return nil, notFound(id)
	}
	return clone(l), nil
}

func (s *MemoryStore) List(context.Context) ([]level.Summary, error) {
	s.mu.RLock()
	out := make([]level.Summary, 0, len(s.levels))
	for _, l := range s.levels {
		out = append(out, l.Summarize())
	}
	s.mu.RUnlock()

	sortSummaries(out)
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.levels[id]; !ok {
		return notFound(id)
	}
	delete(s.levels, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

func clone(l *level.Level) *level.Level {
	c := *l
	c.Cells = slices.Clone(l.Cells)
	c.Corridors = slices.Clone(l.Corridors)
	return &c
}

var _ Store = (*MemoryStore)(nil)
