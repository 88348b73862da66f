package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/cosmicverse/starfield/internal/domain"
	"github.com/cosmicverse/starfield/internal/store"
)

// Store is an in-memory implementation of store.Store with the same
// whole-collection contract as the durable backends. Used in tests.
type Store struct {
	mu    sync.RWMutex
	stars []domain.Star

	// FailSaves makes every SaveAll fail with a StorageError, for
	// exercising not-committed semantics.
	FailSaves bool
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{}
}

// Seed replaces the collection without going through SaveAll.
func (s *Store) Seed(stars []domain.Star) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stars = append([]domain.Star(nil), stars...)
}

func (s *Store) LoadAll(_ context.Context) []domain.Star {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Star(nil), s.stars...)
}

func (s *Store) SaveAll(_ context.Context, stars []domain.Star) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSaves {
		return &store.StorageError{Op: "save", Err: errors.New("save disabled")}
	}
	s.stars = append([]domain.Star(nil), stars...)
	return nil
}
