package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingExecutor struct {
	mu    sync.Mutex
	kinds []JobKind
	err   error
	done  chan struct{}
}

func newRecordingExecutor(expected int) *recordingExecutor {
	e := &recordingExecutor{}
	if expected > 0 {
		e.done = make(chan struct{}, expected)
	}
	return e
}

func (e *recordingExecutor) Execute(_ context.Context, job *Job) error {
	e.mu.Lock()
	e.kinds = append(e.kinds, job.Kind)
	e.mu.Unlock()
	if e.done != nil {
		e.done <- struct{}{}
	}
	return e.err
}

func (e *recordingExecutor) executed() []JobKind {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]JobKind, len(e.kinds))
	copy(out, e.kinds)
	return out
}

func TestJob_Lifecycle(t *testing.T) {
	job := NewJob(JobKindSeatSync, 3)

	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, JobKindSeatSync, job.Kind)
	assert.Equal(t, 3, job.MaxRetries)

	job.Start()
	assert.Equal(t, JobStatusRunning, job.Status)
	require.NotNil(t, job.StartedAt)

	job.Complete()
	assert.Equal(t, JobStatusSuccess, job.Status)
	require.NotNil(t, job.CompletedAt)
}

func TestJob_RetryFlow(t *testing.T) {
	job := NewJob(JobKindAutoDeliver, 2)

	job.Start()
	job.Fail("shop unavailable")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "shop unavailable", job.Error)
	assert.True(t, job.ShouldRetry())

	job.ScheduleRetry(time.Minute)
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, 1, job.RetryCount)
	require.NotNil(t, job.NextRetryAt)
	assert.Empty(t, job.Error)

	job.Fail("still down")
	job.ScheduleRetry(time.Minute)
	job.Fail("still down")
	assert.False(t, job.ShouldRetry())
}

func TestScheduler_SubmitBeforeStart(t *testing.T) {
	s := NewScheduler(DefaultConfig(), newRecordingExecutor(0), zap.NewNop())

	err := s.Submit(JobKindSeatSync)
	assert.ErrorIs(t, err, ErrSchedulerNotRunning)
}

func TestScheduler_ExecutesSubmittedJobs(t *testing.T) {
	executor := newRecordingExecutor(2)
	s := NewScheduler(Config{
		MaxConcurrentJobs: 2,
		JobTimeout:        time.Second,
		RetryAttempts:     0,
		RetryDelay:        time.Millisecond,
	}, executor, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop(context.Background())

	require.NoError(t, s.Submit(JobKindSeatSync))
	require.NoError(t, s.Submit(JobKindSessionSweep))

	for i := 0; i < 2; i++ {
		select {
		case <-executor.done:
		case <-time.After(2 * time.Second):
			t.Fatal("job was not executed in time")
		}
	}

	assert.ElementsMatch(t, []JobKind{JobKindSeatSync, JobKindSessionSweep}, executor.executed())
}

func TestScheduler_StartIsIdempotent(t *testing.T) {
	s := NewScheduler(DefaultConfig(), newRecordingExecutor(0), zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background()))

	require.NoError(t, s.Stop(context.Background()))
	require.NoError(t, s.Stop(context.Background()))
}

func TestScheduler_RetriesFailedJob(t *testing.T) {
	executor := newRecordingExecutor(2)
	executor.err = errors.New("transient failure")

	s := NewScheduler(Config{
		MaxConcurrentJobs: 1,
		JobTimeout:        time.Second,
		RetryAttempts:     1,
		RetryDelay:        time.Millisecond,
	}, executor, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop(context.Background())

	require.NoError(t, s.Submit(JobKindSessionSweep))

	for i := 0; i < 2; i++ {
		select {
		case <-executor.done:
		case <-time.After(2 * time.Second):
			t.Fatal("expected retry execution")
		}
	}

	assert.Len(t, executor.executed(), 2)
}

func TestAllJobKinds(t *testing.T) {
	kinds := AllJobKinds()
	assert.Len(t, kinds, 3)
	assert.Contains(t, kinds, JobKindSeatSync)
	assert.Contains(t, kinds, JobKindAutoDeliver)
	assert.Contains(t, kinds, JobKindSessionSweep)
}
