package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// CronTriggerConfig maps each job kind to a standard five-field cron
// expression
type CronTriggerConfig struct {
	SeatSyncSchedule     string
	AutoDeliverSchedule  string
	SessionSweepSchedule string

	// CheckInterval is how often the trigger looks for due jobs
	CheckInterval time.Duration
}

// DefaultCronTriggerConfig returns the default nightly schedule
func DefaultCronTriggerConfig() CronTriggerConfig {
	return CronTriggerConfig{
		SeatSyncSchedule:     "0 3 * * *",
		AutoDeliverSchedule:  "30 2 * * *",
		SessionSweepSchedule: "0 4 * * *",
		CheckInterval:        time.Minute,
	}
}

type cronEntry struct {
	kind     JobKind
	schedule cron.Schedule
	nextRun  time.Time
}

// CronTrigger submits maintenance jobs to the scheduler when their cron
// schedule comes due
type CronTrigger struct {
	config    CronTriggerConfig
	scheduler *Scheduler
	logger    *zap.Logger

	entries []*cronEntry

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewCronTrigger creates a cron trigger. Empty schedule strings disable the
// corresponding job kind.
func NewCronTrigger(config CronTriggerConfig, scheduler *Scheduler, logger *zap.Logger) (*CronTrigger, error) {
	if config.CheckInterval <= 0 {
		config.CheckInterval = time.Minute
	}

	schedules := []struct {
		kind JobKind
		expr string
	}{
		{JobKindSeatSync, config.SeatSyncSchedule},
		{JobKindAutoDeliver, config.AutoDeliverSchedule},
		{JobKindSessionSweep, config.SessionSweepSchedule},
	}

	now := time.Now()
	entries := make([]*cronEntry, 0, len(schedules))
	for _, s := range schedules {
		if s.expr == "" {
			continue
		}
		schedule, err := cron.ParseStandard(s.expr)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %q: %v", ErrInvalidSchedule, s.kind, s.expr, err)
		}
		entries = append(entries, &cronEntry{
			kind:     s.kind,
			schedule: schedule,
			nextRun:  schedule.Next(now),
		})
	}

	return &CronTrigger{
		config:    config,
		scheduler: scheduler,
		logger:    logger,
		entries:   entries,
	}, nil
}

// Start starts the cron trigger
func (c *CronTrigger) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = true
	c.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go c.runLoop(ctx)

	c.logger.Info("Cron trigger started",
		zap.Int("entries", len(c.entries)),
		zap.Duration("check_interval", c.config.CheckInterval),
	)

	return nil
}

// Stop stops the cron trigger
func (c *CronTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = false
	c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("Cron trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runLoop checks periodically for due schedules
func (c *CronTrigger) runLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.checkAndTrigger(time.Now())
		}
	}
}

// checkAndTrigger submits jobs whose schedule has come due
func (c *CronTrigger) checkAndTrigger(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, entry := range c.entries {
		if now.Before(entry.nextRun) {
			continue
		}
		entry.nextRun = entry.schedule.Next(now)

		if err := c.scheduler.Submit(entry.kind); err != nil {
			c.logger.Error("Failed to submit scheduled job",
				zap.String("kind", string(entry.kind)),
				zap.Error(err),
			)
			continue
		}
		c.logger.Info("Triggered scheduled job",
			zap.String("kind", string(entry.kind)),
			zap.Time("next_run", entry.nextRun),
		)
	}
}

// TriggerManual submits a job of the given kind immediately
func (c *CronTrigger) TriggerManual(kind JobKind) error {
	return c.scheduler.Submit(kind)
}
