package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/formax/backend/internal/application/catalog"
)

// SeatSyncer pulls seat counts from the shop for published variants
type SeatSyncer interface {
	SyncSeatCounts(ctx context.Context) (*catalog.SeatSyncReport, error)
}

// SessionDeliverer marks confirmed sessions whose slot has passed as delivered
type SessionDeliverer interface {
	AutoDeliverPastSessions(ctx context.Context, now time.Time, limit int) (int, error)
}

// SessionSweeper purges long-expired auth sessions
type SessionSweeper interface {
	CleanupExpiredSessions(ctx context.Context) (int64, error)
}

// autoDeliverBatchSize bounds how many sessions one run flips to delivered
const autoDeliverBatchSize = 200

// MaintenanceExecutor dispatches scheduled jobs to the application services
type MaintenanceExecutor struct {
	seatSyncer SeatSyncer
	deliverer  SessionDeliverer
	sweeper    SessionSweeper
	logger     *zap.Logger
}

// NewMaintenanceExecutor creates the job executor. Any dependency may be nil;
// jobs of that kind then fail with ErrUnknownJobKind.
func NewMaintenanceExecutor(
	seatSyncer SeatSyncer,
	deliverer SessionDeliverer,
	sweeper SessionSweeper,
	logger *zap.Logger,
) *MaintenanceExecutor {
	return &MaintenanceExecutor{
		seatSyncer: seatSyncer,
		deliverer:  deliverer,
		sweeper:    sweeper,
		logger:     logger,
	}
}

var _ JobExecutor = (*MaintenanceExecutor)(nil)

// Execute runs a single maintenance job
func (e *MaintenanceExecutor) Execute(ctx context.Context, job *Job) error {
	switch job.Kind {
	case JobKindSeatSync:
		return e.runSeatSync(ctx, job)
	case JobKindAutoDeliver:
		return e.runAutoDeliver(ctx, job)
	case JobKindSessionSweep:
		return e.runSessionSweep(ctx, job)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownJobKind, job.Kind)
	}
}

func (e *MaintenanceExecutor) runSeatSync(ctx context.Context, job *Job) error {
	if e.seatSyncer == nil {
		return fmt.Errorf("%w: seat sync not configured", ErrUnknownJobKind)
	}

	report, err := e.seatSyncer.SyncSeatCounts(ctx)
	if err != nil {
		return fmt.Errorf("seat sync failed: %w", err)
	}

	e.logger.Info("Seat sync finished",
		zap.String("job_id", job.ID.String()),
		zap.Int("synced", report.Synced),
		zap.Int("failed", report.Failed),
	)
	return nil
}

func (e *MaintenanceExecutor) runAutoDeliver(ctx context.Context, job *Job) error {
	if e.deliverer == nil {
		return fmt.Errorf("%w: auto deliver not configured", ErrUnknownJobKind)
	}

	delivered, err := e.deliverer.AutoDeliverPastSessions(ctx, time.Now(), autoDeliverBatchSize)
	if err != nil {
		return fmt.Errorf("auto deliver failed after %d sessions: %w", delivered, err)
	}

	e.logger.Info("Auto deliver finished",
		zap.String("job_id", job.ID.String()),
		zap.Int("delivered", delivered),
	)
	return nil
}

func (e *MaintenanceExecutor) runSessionSweep(ctx context.Context, job *Job) error {
	if e.sweeper == nil {
		return fmt.Errorf("%w: session sweep not configured", ErrUnknownJobKind)
	}

	removed, err := e.sweeper.CleanupExpiredSessions(ctx)
	if err != nil {
		return fmt.Errorf("session sweep failed: %w", err)
	}

	e.logger.Info("Session sweep finished",
		zap.String("job_id", job.ID.String()),
		zap.Int64("removed", removed),
	)
	return nil
}
