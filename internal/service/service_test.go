package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cosmicverse/starfield/internal/domain"
	"github.com/cosmicverse/starfield/internal/logger"
	"github.com/cosmicverse/starfield/internal/store"
	"github.com/cosmicverse/starfield/internal/store/memory"
)

func newTestService(t *testing.T, opts ...Option) (*Stars, *memory.Store) {
	t.Helper()
	st := memory.New()
	return New(st, logger.Nop(), opts...), st
}

func strptr(s string) *string { return &s }

func TestCreateGeneratesID(t *testing.T) {
	svc, _ := newTestService(t)

	star, err := svc.Create(context.Background(), CreateInput{
		SunSign: "Leo", MoonSign: "Pisces", RisingSign: "Libra",
		Position: &domain.Position{X: 1, Y: 2, Z: 3}, Timestamp: 1000,
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if star.ID == "" {
		t.Error("Create() should assign a non-empty id")
	}
	if star.SunSign != "Leo" || star.MoonSign != "Pisces" || star.RisingSign != "Libra" {
		t.Errorf("Create() altered sign fields: %+v", star)
	}
	if star.Position != (domain.Position{X: 1, Y: 2, Z: 3}) {
		t.Errorf("Create() altered position: %+v", star.Position)
	}
	if star.Timestamp != 1000 {
		t.Errorf("Create() altered supplied timestamp: %d", star.Timestamp)
	}
}

func TestCreateKeepsSuppliedID(t *testing.T) {
	svc, _ := newTestService(t)

	star, err := svc.Create(context.Background(), CreateInput{ID: "star:42_custom", SunSign: "Aries"})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if star.ID != "star:42_custom" {
		t.Errorf("Create() id = %q, want caller-supplied id", star.ID)
	}
}

func TestCreateDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	star, err := svc.Create(context.Background(), CreateInput{SunSign: "Leo"})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if star.Timestamp == 0 {
		t.Error("Create() should default a zero timestamp to now")
	}
	p := star.Position
	for _, v := range []float64{p.X, p.Y, p.Z} {
		if v < -domain.PositionBound || v > domain.PositionBound {
			t.Errorf("defaulted position coordinate %v outside bounds", v)
		}
	}
}

func TestCreateListRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{
		SunSign: "Leo", MoonSign: "Pisces", RisingSign: "Libra",
		Position: &domain.Position{X: 1, Y: 2, Z: 3}, Timestamp: 1000,
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	stars := svc.List(ctx)
	if len(stars) != 1 {
		t.Fatalf("List() = %d stars, want 1", len(stars))
	}
	if stars[0] != created {
		t.Errorf("List()[0] = %+v, want the created record %+v", stars[0], created)
	}
}

func TestUpdatePreservesIDAndPosition(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{
		SunSign: "Leo", MoonSign: "Pisces", RisingSign: "Libra",
		Position: &domain.Position{X: 1, Y: 2, Z: 3}, Timestamp: 1000,
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	// Several rounds of edits must never move the id or position.
	for i := 0; i < 3; i++ {
		updated, err := svc.Update(ctx, created.ID, UpdateInput{SunSign: strptr("Aries")})
		if err != nil {
			t.Fatalf("Update() round %d failed: %v", i, err)
		}
		if updated.ID != created.ID {
			t.Errorf("Update() changed id: %q -> %q", created.ID, updated.ID)
		}
		if updated.Position != created.Position {
			t.Errorf("Update() changed position: %+v -> %+v", created.Position, updated.Position)
		}
		if updated.SunSign != "Aries" {
			t.Errorf("Update() sunSign = %q, want %q", updated.SunSign, "Aries")
		}
		if updated.MoonSign != "Pisces" || updated.RisingSign != "Libra" {
			t.Errorf("Update() touched signs that were not in the input: %+v", updated)
		}
	}
}

func TestUpdateBumpsTimestamp(t *testing.T) {
	now := time.UnixMilli(5000)
	svc, _ := newTestService(t, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{SunSign: "Leo", Timestamp: 1000})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	updated, err := svc.Update(ctx, created.ID, UpdateInput{SunSign: strptr("Aries")})
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if updated.Timestamp != 5000 {
		t.Errorf("Update() timestamp = %d, want forced to current time 5000", updated.Timestamp)
	}
	if updated.Timestamp < created.Timestamp {
		t.Errorf("Update() timestamp went backwards: %d < %d", updated.Timestamp, created.Timestamp)
	}
}

func TestUpdateNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{SunSign: "Leo"}); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	_, err := svc.Update(ctx, "star:missing", UpdateInput{SunSign: strptr("Aries")})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() on unknown id = %v, want ErrNotFound", err)
	}

	// No mutation must have happened.
	stars := svc.List(ctx)
	if len(stars) != 1 || stars[0].SunSign != "Leo" {
		t.Errorf("collection changed after failed update: %+v", stars)
	}
}

func TestDeleteRemovesExactlyOne(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		star, err := svc.Create(ctx, CreateInput{SunSign: "Leo"})
		if err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
		ids = append(ids, star.ID)
	}

	if err := svc.Delete(ctx, ids[1]); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	stars := svc.List(ctx)
	if len(stars) != 2 {
		t.Fatalf("List() after delete = %d stars, want 2", len(stars))
	}
	for _, s := range stars {
		if s.ID == ids[1] {
			t.Errorf("deleted star %q still present", ids[1])
		}
	}
}

func TestDeleteNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{SunSign: "Leo"}); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if err := svc.Delete(ctx, "star:missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() on unknown id = %v, want ErrNotFound", err)
	}
	if got := len(svc.List(ctx)); got != 1 {
		t.Errorf("collection size changed after failed delete: %d", got)
	}

	// Deleting twice: second call must report not found.
	stars := svc.List(ctx)
	if err := svc.Delete(ctx, stars[0].ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if err := svc.Delete(ctx, stars[0].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() = %v, want ErrNotFound", err)
	}
}

func TestDeleteLegacySyntheticID(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	// A record persisted before ids were always assigned answers to
	// its timestamp-derived synthetic id.
	st.Seed([]domain.Star{
		{SunSign: "Leo", Timestamp: 1700000000000},
		{ID: "star:9_aa", SunSign: "Aries", Timestamp: 1700000000000},
	})

	if err := svc.Delete(ctx, "star:1700000000000"); err != nil {
		t.Fatalf("Delete() by synthetic id failed: %v", err)
	}

	stars := svc.List(ctx)
	if len(stars) != 1 {
		t.Fatalf("List() = %d stars, want 1", len(stars))
	}
	// The id-bearing record with the same timestamp must not be shadowed.
	if stars[0].ID != "star:9_aa" {
		t.Errorf("wrong record deleted, survivor = %+v", stars[0])
	}
}

func TestCreateFailedSaveNotCommitted(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	st.FailSaves = true
	_, err := svc.Create(ctx, CreateInput{SunSign: "Leo"})
	if !store.IsStorageError(err) {
		t.Fatalf("Create() with failing store = %v, want StorageError", err)
	}

	st.FailSaves = false
	if got := len(svc.List(ctx)); got != 0 {
		t.Errorf("failed create leaked into collection: %d stars", got)
	}
}

func TestValidatorRejectsUnknownSigns(t *testing.T) {
	svc, _ := newTestService(t, WithValidator(domain.ValidateSigns))
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{SunSign: "Leo", MoonSign: "Nope", RisingSign: "Libra"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Create() with invalid sign = %v, want ErrInvalidInput", err)
	}
	if got := len(svc.List(ctx)); got != 0 {
		t.Errorf("rejected star was stored anyway: %d stars", got)
	}
}

func TestGeneratedIDsAreUnique(t *testing.T) {
	svc, _ := newTestService(t, WithClock(func() time.Time { return time.UnixMilli(1000) }))
	ctx := context.Background()

	// With a frozen clock only the random suffix distinguishes ids.
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		star, err := svc.Create(ctx, CreateInput{SunSign: "Leo"})
		if err != nil {
			t.Fatalf("Create() %d failed: %v", i, err)
		}
		if seen[star.ID] {
			t.Fatalf("duplicate id generated: %q", star.ID)
		}
		seen[star.ID] = true
	}
}

func TestConcurrentCreatesLoseNothing(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	const n = 32
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Create(ctx, CreateInput{SunSign: "Leo", Timestamp: int64(i + 1)})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent Create() failed: %v", err)
		}
	}

	if got := len(svc.List(ctx)); got != n {
		t.Errorf("concurrent creates lost writes: %d stars, want %d", got, n)
	}
}

func TestConcurrentUpdatesLoseNothing(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	const n = 8
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		star, err := svc.Create(ctx, CreateInput{SunSign: "Leo"})
		if err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
		ids[i] = star.ID
	}

	// Each goroutine flips a different star; every flip must survive.
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			sign := fmt.Sprintf("Aries-%d", i)
			if _, err := svc.Update(ctx, id, UpdateInput{SunSign: &sign}); err != nil {
				t.Errorf("concurrent Update(%q) failed: %v", id, err)
			}
		}(i, id)
	}
	wg.Wait()

	for _, s := range svc.List(ctx) {
		if s.SunSign == "Leo" {
			t.Errorf("update to star %q was lost", s.ID)
		}
	}
}
