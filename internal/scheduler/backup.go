package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/cosmicverse/starfield/internal/logger"
	"github.com/cosmicverse/starfield/internal/store"
)

// DefaultBackupKeep is how many snapshots survive pruning.
const DefaultBackupKeep = 14

// Backup periodically snapshots the star collection into a directory of
// timestamped JSON files and prunes the oldest ones.
type Backup struct {
	store    store.Store
	dir      string
	keep     int
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewBackup creates a backup scheduler.
func NewBackup(st store.Store, dir string, keep int, log logger.Logger, interval time.Duration) *Backup {
	if keep <= 0 {
		keep = DefaultBackupKeep
	}
	return &Backup{
		store:    st,
		dir:      dir,
		keep:     keep,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start takes one snapshot immediately, then snapshots on each tick.
func (b *Backup) Start(ctx context.Context) error {
	if err := b.Snapshot(ctx); err != nil {
		return fmt.Errorf("initial snapshot failed: %w", err)
	}

	ticker := time.NewTicker(b.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := b.Snapshot(ctx); err != nil {
					b.logger.Error("failed to snapshot star collection",
						logger.Error(err))
				}
			case <-b.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the scheduler.
func (b *Backup) Stop() {
	close(b.stopCh)
}

// Snapshot writes the current collection to a timestamped file and
// prunes snapshots beyond the retention count.
func (b *Backup) Snapshot(ctx context.Context) error {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	stars := b.store.LoadAll(ctx)
	data, err := json.MarshalIndent(stars, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	name := fmt.Sprintf("stars-%s.json", time.Now().UTC().Format("20060102-150405"))
	path := filepath.Join(b.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	b.logger.Info("star collection snapshot written",
		logger.String("path", path),
		logger.Int("stars", len(stars)))

	return b.prune()
}

// prune removes the oldest snapshots beyond the retention count. The
// timestamped names sort chronologically.
func (b *Backup) prune() error {
	matches, err := filepath.Glob(filepath.Join(b.dir, "stars-*.json"))
	if err != nil {
		return err
	}
	if len(matches) <= b.keep {
		return nil
	}

	sort.Strings(matches)
	for _, old := range matches[:len(matches)-b.keep] {
		if err := os.Remove(old); err != nil {
			b.logger.Warn("failed to prune old snapshot",
				logger.String("path", old),
				logger.Error(err))
			continue
		}
		b.logger.Debug("pruned old snapshot",
			logger.String("path", old))
	}
	return nil
}
