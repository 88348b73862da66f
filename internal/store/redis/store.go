package redis

import (
	"context"
	"encoding/json"
	"errors"

	goredis "github.com/redis/go-redis/v9"

	"github.com/cosmicverse/starfield/internal/domain"
	"github.com/cosmicverse/starfield/internal/logger"
	"github.com/cosmicverse/starfield/internal/store"
)

// Store persists the star collection as one JSON value in Redis. It is
// a drop-in alternative to the file backend with identical semantics:
// whole-collection saves, fail-open loads.
type Store struct {
	client *goredis.Client
	logger logger.Logger
}

// New creates a Redis-backed store.
func New(client *goredis.Client, log logger.Logger) *Store {
	return &Store{client: client, logger: log}
}

// LoadAll reads the full collection. A missing key or an unreachable
// server degrades to an empty collection.
func (s *Store) LoadAll(ctx context.Context) []domain.Star {
	data, err := s.client.Get(ctx, KeyStars).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			s.logger.Warn("failed to read star collection from redis, treating as empty",
				logger.Error(err))
		}
		return nil
	}

	var stars []domain.Star
	if err := json.Unmarshal(data, &stars); err != nil {
		s.logger.Warn("star collection in redis is not valid JSON, treating as empty",
			logger.Error(err))
		return nil
	}
	return stars
}

// SaveAll replaces the persisted collection. The single SET is atomic
// on the Redis side, so a failed save leaves the previous value intact.
func (s *Store) SaveAll(ctx context.Context, stars []domain.Star) error {
	if stars == nil {
		stars = []domain.Star{}
	}
	data, err := json.Marshal(stars)
	if err != nil {
		return &store.StorageError{Op: "marshal", Err: err}
	}
	if err := s.client.Set(ctx, KeyStars, data, 0).Err(); err != nil {
		return &store.StorageError{Op: "set", Err: err}
	}
	return nil
}
