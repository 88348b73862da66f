package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cosmicverse/starfield/internal/domain"
	"github.com/cosmicverse/starfield/internal/logger"
	"github.com/cosmicverse/starfield/internal/store"
)

// ErrNotFound means the addressed star does not exist in the collection.
var ErrNotFound = errors.New("star not found")

// ErrInvalidInput wraps a validation hook rejection.
var ErrInvalidInput = errors.New("invalid star input")

// Stars enforces the identity and field-preservation rules on top of a
// store.Store. It holds no state of its own between calls: every
// operation loads the collection fresh, mutates, and saves it back.
//
// Mutations (Create/Update/Delete) serialize behind a single mutex so
// two concurrent writers cannot silently discard each other's
// load-mutate-save cycle. List stays lock-free; a read racing a write
// may observe the collection as it was before that write's save.
type Stars struct {
	store    store.Store
	logger   logger.Logger
	now      func() time.Time
	validate func(domain.Star) error

	mu sync.Mutex // gates all mutating operations
}

// Option customizes a Stars service.
type Option func(*Stars)

// WithClock overrides the time source. For tests.
func WithClock(now func() time.Time) Option {
	return func(s *Stars) { s.now = now }
}

// WithValidator installs a hook that can reject star input before it is
// stored. Nil (the default) stores whatever arrives.
func WithValidator(fn func(domain.Star) error) Option {
	return func(s *Stars) { s.validate = fn }
}

// New creates the star service.
func New(st store.Store, log logger.Logger, opts ...Option) *Stars {
	s := &Stars{
		store:  st,
		logger: log,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the full collection in insertion order.
func (s *Stars) List(ctx context.Context) []domain.Star {
	return s.store.LoadAll(ctx)
}

// Count returns the number of stored stars.
func (s *Stars) Count(ctx context.Context) int {
	return len(s.store.LoadAll(ctx))
}

// CreateInput is the caller-supplied shape of a new star. Absent fields
// are defaulted: a missing ID is generated, a missing position is
// rolled randomly, a zero timestamp becomes the current time.
type CreateInput struct {
	ID         string           `json:"id"`
	SunSign    string           `json:"sunSign"`
	MoonSign   string           `json:"moonSign"`
	RisingSign string           `json:"risingSign"`
	Position   *domain.Position `json:"position"`
	Timestamp  int64            `json:"timestamp"`
}

// Create appends a new star to the collection and persists it. The
// returned record carries the assigned identity; the caller must use
// that ID for subsequent edits.
func (s *Stars) Create(ctx context.Context, in CreateInput) (domain.Star, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stars := s.store.LoadAll(ctx)

	star := domain.Star{
		ID:         in.ID,
		SunSign:    in.SunSign,
		MoonSign:   in.MoonSign,
		RisingSign: in.RisingSign,
		Timestamp:  in.Timestamp,
	}
	if in.Position != nil {
		star.Position = *in.Position
	} else {
		star.Position = domain.RandomPosition()
	}
	if star.Timestamp == 0 {
		star.Timestamp = s.now().UnixMilli()
	}
	if star.ID == "" {
		id, err := s.generateID(stars)
		if err != nil {
			return domain.Star{}, err
		}
		star.ID = id
	}

	if s.validate != nil {
		if err := s.validate(star); err != nil {
			return domain.Star{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	stars = append(stars, star)
	if err := s.store.SaveAll(ctx, stars); err != nil {
		return domain.Star{}, err
	}

	s.logger.Info("star created",
		logger.String("id", star.ID),
		logger.Int("total", len(stars)))
	return star, nil
}

// UpdateInput is the caller-supplied shape of an edit. Only present
// sign fields overwrite; ID, position and timestamp in the payload are
// ignored by construction.
type UpdateInput struct {
	SunSign    *string `json:"sunSign"`
	MoonSign   *string `json:"moonSign"`
	RisingSign *string `json:"risingSign"`
}

// Update edits the star addressed by id. The stored ID and position
// survive unchanged regardless of the payload; the timestamp is bumped
// to the current time.
func (s *Stars) Update(ctx context.Context, id string, in UpdateInput) (domain.Star, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stars := s.store.LoadAll(ctx)
	idx := -1
	for i := range stars {
		if stars[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return domain.Star{}, ErrNotFound
	}

	updated := stars[idx]
	if in.SunSign != nil {
		updated.SunSign = *in.SunSign
	}
	if in.MoonSign != nil {
		updated.MoonSign = *in.MoonSign
	}
	if in.RisingSign != nil {
		updated.RisingSign = *in.RisingSign
	}
	updated.Timestamp = s.now().UnixMilli()

	if s.validate != nil {
		if err := s.validate(updated); err != nil {
			return domain.Star{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	stars[idx] = updated
	if err := s.store.SaveAll(ctx, stars); err != nil {
		return domain.Star{}, err
	}

	s.logger.Info("star updated", logger.String("id", id))
	return updated, nil
}

// Delete removes the star addressed by id. Records persisted before IDs
// were always assigned still answer to their timestamp-derived
// synthetic ID; the fallback only applies to records missing an ID, so
// it can never shadow an ID-bearing record.
func (s *Stars) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stars := s.store.LoadAll(ctx)
	kept := stars[:0:0]
	for _, star := range stars {
		if star.Key() == id {
			continue
		}
		kept = append(kept, star)
	}
	if len(kept) == len(stars) {
		return ErrNotFound
	}

	if err := s.store.SaveAll(ctx, kept); err != nil {
		return err
	}

	s.logger.Info("star deleted",
		logger.String("id", id),
		logger.Int("total", len(kept)))
	return nil
}

// generateID builds a new unique star ID from the current time plus a
// random suffix, re-rolling on the (unlikely) collision with an
// existing record rather than trusting probabilistic uniqueness.
func (s *Stars) generateID(stars []domain.Star) (string, error) {
	taken := make(map[string]bool, len(stars))
	for _, star := range stars {
		taken[star.Key()] = true
	}

	for {
		buf := make([]byte, 6)
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to generate star id: %w", err)
		}
		id := fmt.Sprintf("star:%d_%s", s.now().UnixMilli(), hex.EncodeToString(buf))
		if !taken[id] {
			return id, nil
		}
	}
}
