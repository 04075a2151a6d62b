package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"palava-proof/internal/domain/models"
	"palava-proof/pkg/logger"
)

// PendingReports is an offline store whose reports still have to reach
// the backend
type PendingReports interface {
	Pending(ctx context.Context, limit int) ([]models.Report, error)
	MarkSynced(ctx context.Context, ids []int64) error
}

// Locker guards scheduled runs when several servers share one backend
type Locker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
}

const (
	syncLockKey = "report-sync"
	syncLockTTL = 5 * time.Minute
)

// SyncResult summarises one sync pass
type SyncResult struct {
	Pending int `json:"pending"`
	Synced  int `json:"synced"`
	Failed  int `json:"failed"`
}

// Syncer pushes reports captured offline to the backend through a
// ReportService, so duplicates fold into existing reports
type Syncer struct {
	local     PendingReports
	backend   *ReportService
	batchSize int
	locker    Locker
	logger    *logger.Logger
}

// NewSyncer creates a new Syncer
func NewSyncer(local PendingReports, backend *ReportService, batchSize int, log *logger.Logger) *Syncer {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Syncer{
		local:     local,
		backend:   backend,
		batchSize: batchSize,
		logger:    log.WithComponent("syncer"),
	}
}

// SetLocker makes scheduled runs skip when another instance holds the lock
func (s *Syncer) SetLocker(l Locker) {
	s.locker = l
}

// RunOnce syncs one batch of pending reports
func (s *Syncer) RunOnce(ctx context.Context) (SyncResult, error) {
	var result SyncResult

	pending, err := s.local.Pending(ctx, s.batchSize)
	if err != nil {
		return result, fmt.Errorf("failed to load pending reports: %w", err)
	}
	result.Pending = len(pending)
	if len(pending) == 0 {
		return result, nil
	}

	synced := make([]int64, 0, len(pending))
	for _, r := range pending {
		localID := r.ID
		r.ID = 0
		receipt, err := s.backend.Submit(ctx, r)
		if err != nil || !receipt.Stored {
			result.Failed++
			continue
		}
		synced = append(synced, localID)
	}

	if len(synced) > 0 {
		if err := s.local.MarkSynced(ctx, synced); err != nil {
			return result, fmt.Errorf("failed to mark reports synced: %w", err)
		}
	}
	result.Synced = len(synced)

	s.logger.Info().
		Int("pending", result.Pending).
		Int("synced", result.Synced).
		Int("failed", result.Failed).
		Msg("offline reports synced")

	return result, nil
}

// ParseSchedule parses a standard 5-field cron expression
func ParseSchedule(expr string) (cron.Schedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid sync schedule %q: %w", expr, err)
	}
	return sched, nil
}

// Start runs RunOnce on the given schedule until ctx is cancelled
func (s *Syncer) Start(ctx context.Context, schedule cron.Schedule) error {
	for {
		now := time.Now()
		next := schedule.Next(now)
		s.logger.Debug().Time("next_run", next).Msg("next offline sync scheduled")

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		s.runLocked(ctx)
	}
}

func (s *Syncer) runLocked(ctx context.Context) {
	if s.locker != nil {
		ok, err := s.locker.AcquireLock(ctx, syncLockKey, syncLockTTL)
		if err != nil {
			s.logger.Warn().Err(err).Msg("failed to acquire sync lock")
			return
		}
		if !ok {
			s.logger.Debug().Msg("sync already running elsewhere, skipping")
			return
		}
		defer func() {
			// shutdown cancels ctx, the lock must still be released
			if err := s.locker.ReleaseLock(context.WithoutCancel(ctx), syncLockKey); err != nil {
				s.logger.Warn().Err(err).Msg("failed to release sync lock")
			}
		}()
	}

	if _, err := s.RunOnce(ctx); err != nil {
		s.logger.Error().Err(err).Msg("offline sync failed")
	}
}
