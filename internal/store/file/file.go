package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cosmicverse/starfield/internal/domain"
	"github.com/cosmicverse/starfield/internal/logger"
	"github.com/cosmicverse/starfield/internal/store"
)

// Store persists the star collection as one JSON array in a single file.
//
// Saves go through a temp file in the same directory followed by an
// atomic rename, so a failed save never corrupts the previously durable
// collection.
type Store struct {
	path   string
	logger logger.Logger
}

// New creates a file store for the given path, creating the parent
// directory and an empty collection file on first use.
func New(path string, log logger.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
			return nil, fmt.Errorf("failed to initialize data file: %w", err)
		}
		log.Info("initialized empty star collection",
			logger.String("path", path))
	}
	return &Store{path: path, logger: log}, nil
}

// LoadAll reads the full collection in stored order. A missing or
// unparseable file degrades to an empty collection.
func (s *Store) LoadAll(_ context.Context) []domain.Star {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read star collection, treating as empty",
				logger.String("path", s.path),
				logger.Error(err))
		}
		return nil
	}
	if len(data) == 0 {
		return nil
	}

	var stars []domain.Star
	if err := json.Unmarshal(data, &stars); err != nil {
		s.logger.Warn("star collection is not valid JSON, treating as empty",
			logger.String("path", s.path),
			logger.Error(err))
		return nil
	}
	return stars
}

// SaveAll replaces the persisted collection. All-or-nothing: the data
// file only changes once the new content is fully written.
func (s *Store) SaveAll(_ context.Context, stars []domain.Star) error {
	if stars == nil {
		stars = []domain.Star{}
	}

	// Indentation is cosmetic, kept for the admin's benefit.
	data, err := json.MarshalIndent(stars, "", "  ")
	if err != nil {
		return &store.StorageError{Op: "marshal", Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".stars-*.json")
	if err != nil {
		return &store.StorageError{Op: "create temp", Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return &store.StorageError{Op: "write", Err: err}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return &store.StorageError{Op: "close", Err: err}
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return &store.StorageError{Op: "rename", Err: err}
	}
	return nil
}
