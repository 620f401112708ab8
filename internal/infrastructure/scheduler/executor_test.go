package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/formax/backend/internal/application/catalog"
)

type stubSeatSyncer struct {
	report *catalog.SeatSyncReport
	err    error
	calls  int
}

func (s *stubSeatSyncer) SyncSeatCounts(_ context.Context) (*catalog.SeatSyncReport, error) {
	s.calls++
	return s.report, s.err
}

type stubDeliverer struct {
	delivered int
	err       error
	calls     int
}

func (s *stubDeliverer) AutoDeliverPastSessions(_ context.Context, _ time.Time, limit int) (int, error) {
	s.calls++
	if limit <= 0 {
		return 0, errors.New("limit must be positive")
	}
	return s.delivered, s.err
}

type stubSweeper struct {
	removed int64
	err     error
	calls   int
}

func (s *stubSweeper) CleanupExpiredSessions(_ context.Context) (int64, error) {
	s.calls++
	return s.removed, s.err
}

func TestMaintenanceExecutor_Dispatch(t *testing.T) {
	syncer := &stubSeatSyncer{report: &catalog.SeatSyncReport{Synced: 4, Failed: 1}}
	deliverer := &stubDeliverer{delivered: 2}
	sweeper := &stubSweeper{removed: 17}

	executor := NewMaintenanceExecutor(syncer, deliverer, sweeper, zap.NewNop())

	require.NoError(t, executor.Execute(context.Background(), NewJob(JobKindSeatSync, 0)))
	require.NoError(t, executor.Execute(context.Background(), NewJob(JobKindAutoDeliver, 0)))
	require.NoError(t, executor.Execute(context.Background(), NewJob(JobKindSessionSweep, 0)))

	assert.Equal(t, 1, syncer.calls)
	assert.Equal(t, 1, deliverer.calls)
	assert.Equal(t, 1, sweeper.calls)
}

func TestMaintenanceExecutor_UnknownKind(t *testing.T) {
	executor := NewMaintenanceExecutor(&stubSeatSyncer{}, &stubDeliverer{}, &stubSweeper{}, zap.NewNop())

	err := executor.Execute(context.Background(), NewJob(JobKind("VACUUM"), 0))
	assert.ErrorIs(t, err, ErrUnknownJobKind)
}

func TestMaintenanceExecutor_PropagatesFailures(t *testing.T) {
	syncErr := errors.New("shop timeout")
	executor := NewMaintenanceExecutor(&stubSeatSyncer{err: syncErr}, &stubDeliverer{}, &stubSweeper{}, zap.NewNop())

	err := executor.Execute(context.Background(), NewJob(JobKindSeatSync, 0))
	assert.ErrorIs(t, err, syncErr)
}

func TestMaintenanceExecutor_NilDependency(t *testing.T) {
	executor := NewMaintenanceExecutor(nil, &stubDeliverer{}, &stubSweeper{}, zap.NewNop())

	err := executor.Execute(context.Background(), NewJob(JobKindSeatSync, 0))
	assert.ErrorIs(t, err, ErrUnknownJobKind)
}
