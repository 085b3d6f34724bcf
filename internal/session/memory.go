package session

import (
	"context"
	"sync"
	"time"

	"anaviz/internal/errors"
)

// MemoryStore keeps datasets in process memory
type MemoryStore struct {
	mu       sync.RWMutex
	datasets map[ID]Dataset
	now      func() time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		datasets: make(map[ID]Dataset),
		now:      time.Now,
	}
}

func (s *MemoryStore) Save(ctx context.Context, ds Dataset) (ID, error) {
	ds = prepare(ds, s.now())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.datasets[ds.ID] = ds
	return ds.ID, nil
}

func (s *MemoryStore) Get(ctx context.Context, id ID) (*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ds, ok := s.datasets[id]
	if !ok {
		return nil, errors.NotFound("dataset " + id.String())
	}
	return &ds, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.datasets[id]; !ok {
		return errors.NotFound("dataset " + id.String())
	}
	delete(s.datasets, id)
	return nil
}

func (s *MemoryStore) Sweep(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := s.now().Add(-olderThan)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, ds := range s.datasets {
		if ds.CreatedAt.Before(cutoff) {
			delete(s.datasets, id)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored datasets
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.datasets)
}
