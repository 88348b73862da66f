package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/cosmicverse/starfield/internal/domain"
)

// Store persists the star collection as a single unit. There is no
// partial-collection access: callers load everything, mutate, and save
// everything back.
//
// LoadAll never fails. A missing or unreadable backing medium degrades
// to an empty collection (implementations log the condition) so the
// read path always works, including on first boot.
type Store interface {
	LoadAll(ctx context.Context) []domain.Star
	SaveAll(ctx context.Context, stars []domain.Star) error
}

// StorageError marks a write-path failure of the backing medium. The
// operation that triggered it must be treated as not committed.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsStorageError reports whether err is (or wraps) a StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
