package store

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Janitor enforces retention on a Store
type Janitor struct {
	store     *Store
	grace     time.Duration
	retention time.Duration
	logger    *zap.Logger
}

// NewJanitor creates a janitor. A zero grace or retention disables that step.
func NewJanitor(s *Store, grace, retention time.Duration, logger *zap.Logger) *Janitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Janitor{store: s, grace: grace, retention: retention, logger: logger}
}

// PurgeSegments drops segment details of scans older than the grace period.
// The aggregate record survives.
func (j *Janitor) PurgeSegments(ctx context.Context) (int64, error) {
	if j.grace <= 0 {
		return 0, nil
	}
	cutoff := j.store.now().Add(-j.grace).UnixNano()

	res, err := j.store.db.ExecContext(ctx, `
DELETE FROM segments WHERE scan_id IN (SELECT id FROM scans WHERE scanned_at < ?)`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge segments: %w", err)
	}
	return res.RowsAffected()
}

// ExpireHistory deletes scans older than the retention period
func (j *Janitor) ExpireHistory(ctx context.Context) (int64, error) {
	if j.retention <= 0 {
		return 0, nil
	}
	cutoff := j.store.now().Add(-j.retention).UnixNano()

	if _, err := j.store.db.ExecContext(ctx, `
DELETE FROM segments WHERE scan_id IN (SELECT id FROM scans WHERE scanned_at < ?)`, cutoff); err != nil {
		return 0, fmt.Errorf("expire segments: %w", err)
	}
	res, err := j.store.db.ExecContext(ctx, "DELETE FROM scans WHERE scanned_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("expire scans: %w", err)
	}
	return res.RowsAffected()
}

// Vacuum reclaims free pages
func (j *Janitor) Vacuum(ctx context.Context) error {
	if _, err := j.store.db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}
	return nil
}

// Sweep runs one purge and expire pass
func (j *Janitor) Sweep(ctx context.Context) error {
	purged, err := j.PurgeSegments(ctx)
	if err != nil {
		return err
	}
	expired, err := j.ExpireHistory(ctx)
	if err != nil {
		return err
	}

	if purged > 0 || expired > 0 {
		j.logger.Info("retention sweep",
			zap.Int64("segments_purged", purged),
			zap.Int64("scans_expired", expired),
		)
	}
	return nil
}

// Run sweeps immediately and then every interval until ctx is done
func (j *Janitor) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}

	if err := j.Sweep(ctx); err != nil {
		j.logger.Warn("retention sweep failed", zap.Error(err))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := j.Sweep(ctx); err != nil {
				j.logger.Warn("retention sweep failed", zap.Error(err))
			}
		}
	}
}
