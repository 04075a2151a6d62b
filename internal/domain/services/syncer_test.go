package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"palava-proof/internal/domain/models"
	"palava-proof/pkg/logger"
)

type memoryPending struct {
	reports []models.Report
	synced  []int64
	err     error
}

func (m *memoryPending) Pending(_ context.Context, limit int) ([]models.Report, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.Report
	for _, r := range m.reports {
		if !r.Synced && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryPending) MarkSynced(_ context.Context, ids []int64) error {
	m.synced = append(m.synced, ids...)
	for i := range m.reports {
		for _, id := range ids {
			if m.reports[i].ID == id {
				m.reports[i].Synced = true
			}
		}
	}
	return nil
}

func TestSyncerRunOnce(t *testing.T) {
	local := &memoryPending{reports: []models.Report{
		{ID: 10, Content: "Your MTN account is locked", Type: "sms", TimesReported: 1},
		{ID: 11, Content: "Free airtime at bit.ly/x", Type: "whatsapp", TimesReported: 1},
		{ID: 12, Content: "already done", Synced: true},
	}}
	remote := &memoryStore{}
	backend := NewReportService(remote, nil, nil, logger.NewNop())

	syncer := NewSyncer(local, backend, 10, logger.NewNop())
	res, err := syncer.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SyncResult{Pending: 2, Synced: 2}, res)
	assert.Equal(t, []int64{10, 11}, local.synced)
	require.Len(t, remote.reports, 2)
	assert.Equal(t, "whatsapp", remote.reports[1].Type)

	// second pass has nothing left
	res, err = syncer.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SyncResult{}, res)
}

func TestSyncerKeepsFailedReportsPending(t *testing.T) {
	local := &memoryPending{reports: []models.Report{{ID: 1, Content: "scam"}}}
	backend := NewReportService(&memoryStore{err: errors.New("offline")}, nil, nil, logger.NewNop())

	res, err := NewSyncer(local, backend, 0, logger.NewNop()).RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Pending: 1, Failed: 1}, res)
	assert.Empty(t, local.synced)
}

func TestSyncerPendingError(t *testing.T) {
	local := &memoryPending{err: errors.New("locked")}
	backend := NewReportService(&memoryStore{}, nil, nil, logger.NewNop())

	_, err := NewSyncer(local, backend, 5, logger.NewNop()).RunOnce(context.Background())
	require.Error(t, err)
}

func TestParseSchedule(t *testing.T) {
	sched, err := ParseSchedule("*/5 * * * *")
	require.NoError(t, err)

	from := time.Date(2025, 3, 1, 10, 2, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 5, 0, 0, time.UTC), sched.Next(from))

	_, err = ParseSchedule("not a schedule")
	require.Error(t, err)
}

func TestSyncerStartStopsOnCancel(t *testing.T) {
	local := &memoryPending{}
	backend := NewReportService(&memoryStore{}, nil, nil, logger.NewNop())
	sched, err := ParseSchedule("0 0 1 1 *")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewSyncer(local, backend, 5, logger.NewNop()).Start(ctx, sched) }()

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("syncer did not stop")
	}
}

type memoryLocker struct {
	held     bool
	acquired int
}

func (l *memoryLocker) AcquireLock(_ context.Context, _ string, _ time.Duration) (bool, error) {
	if l.held {
		return false, nil
	}
	l.held = true
	l.acquired++
	return true, nil
}

func (l *memoryLocker) ReleaseLock(ctx context.Context, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.held = false
	return nil
}

func TestSyncerSkipsWhenLockHeld(t *testing.T) {
	local := &memoryPending{reports: []models.Report{{ID: 1, Content: "scam"}}}
	remote := &memoryStore{}
	syncer := NewSyncer(local, NewReportService(remote, nil, nil, logger.NewNop()), 5, logger.NewNop())

	locker := &memoryLocker{held: true}
	syncer.SetLocker(locker)
	syncer.runLocked(context.Background())
	assert.Empty(t, remote.reports)

	locker.held = false
	syncer.runLocked(context.Background())
	assert.Len(t, remote.reports, 1)
	assert.Equal(t, 1, locker.acquired)
	assert.False(t, locker.held)
}

func TestSyncerReleasesLockAfterCancel(t *testing.T) {
	local := &memoryPending{reports: []models.Report{{ID: 1, Content: "scam"}}}
	syncer := NewSyncer(local, NewReportService(&memoryStore{}, nil, nil, logger.NewNop()), 5, logger.NewNop())

	locker := &memoryLocker{}
	syncer.SetLocker(locker)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	syncer.runLocked(ctx)

	assert.Equal(t, 1, locker.acquired)
	assert.False(t, locker.held)
}
