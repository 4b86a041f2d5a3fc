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

// mockExecutor records executed jobs and can be told to fail
type mockExecutor struct {
	mu       sync.Mutex
	executed []*Job
	failErr  error
	done     chan struct{}
}

func newMockExecutor(expected int) *mockExecutor {
	return &mockExecutor{done: make(chan struct{}, expected)}
}

func (m *mockExecutor) Execute(_ context.Context, job *Job) error {
	m.mu.Lock()
	m.executed = append(m.executed, job)
	err := m.failErr
	m.mu.Unlock()
	m.done <- struct{}{}
	return err
}

func (m *mockExecutor) executedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.executed)
}

func waitForExecutions(t *testing.T, exec *mockExecutor, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-exec.done:
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for execution %d of %d", i+1, n)
		}
	}
}

func TestNewJob(t *testing.T) {
	asOf := time.Now()
	job := NewJob(SweepTypeOverdueReceivables, asOf, 3)

	assert.NotEqual(t, "", job.ID.String())
	assert.Equal(t, SweepTypeOverdueReceivables, job.SweepType)
	assert.Equal(t, asOf, job.AsOf)
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, 3, job.MaxRetries)
	assert.Equal(t, 0, job.RetryCount)
}

func TestJob_Lifecycle(t *testing.T) {
	job := NewJob(SweepTypeOverdueReceivables, time.Now(), 3)

	job.Start()
	assert.Equal(t, JobStatusRunning, job.Status)
	assert.NotNil(t, job.StartedAt)

	job.Complete()
	assert.Equal(t, JobStatusSuccess, job.Status)
	assert.NotNil(t, job.CompletedAt)
}

func TestJob_FailAndRetry(t *testing.T) {
	job := NewJob(SweepTypeOutboxCleanup, time.Now(), 2)

	job.Start()
	job.Fail("boom")

	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "boom", job.Error)
	assert.True(t, job.ShouldRetry())

	job.ScheduleRetry(time.Minute)
	assert.Equal(t, 1, job.RetryCount)
	assert.Equal(t, JobStatusPending, job.Status)
	assert.NotNil(t, job.NextRetryAt)

	job.Fail("boom again")
	job.ScheduleRetry(time.Minute)
	job.Fail("boom once more")

	assert.False(t, job.ShouldRetry())
}

func TestScheduler_SubmitJob_NotRunning(t *testing.T) {
	sched := NewScheduler(DefaultSchedulerConfig(), newMockExecutor(0), zap.NewNop())

	err := sched.SubmitJob(NewJob(SweepTypeOverdueReceivables, time.Now(), 0))

	assert.ErrorIs(t, err, ErrSchedulerNotRunning)
}

func TestScheduler_ExecutesSubmittedJob(t *testing.T) {
	exec := newMockExecutor(1)
	sched := NewScheduler(DefaultSchedulerConfig(), exec, zap.NewNop())

	require.NoError(t, sched.Start(context.Background()))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = sched.Stop(ctx)
	}()

	job := NewJob(SweepTypeOverdueReceivables, time.Now(), 0)
	require.NoError(t, sched.SubmitJob(job))

	waitForExecutions(t, exec, 1)
	assert.Equal(t, 1, exec.executedCount())
}

func TestScheduler_ScheduleSweep(t *testing.T) {
	exec := newMockExecutor(1)
	sched := NewScheduler(DefaultSchedulerConfig(), exec, zap.NewNop())

	require.NoError(t, sched.Start(context.Background()))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = sched.Stop(ctx)
	}()

	require.NoError(t, sched.ScheduleSweep(SweepTypeOutboxCleanup, time.Now()))

	waitForExecutions(t, exec, 1)

	exec.mu.Lock()
	defer exec.mu.Unlock()
	require.Len(t, exec.executed, 1)
	assert.Equal(t, SweepTypeOutboxCleanup, exec.executed[0].SweepType)
}

func TestScheduler_StartIsIdempotent(t *testing.T) {
	sched := NewScheduler(DefaultSchedulerConfig(), newMockExecutor(0), zap.NewNop())

	require.NoError(t, sched.Start(context.Background()))
	require.NoError(t, sched.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, sched.Stop(ctx))
	require.NoError(t, sched.Stop(ctx))
}

type fakeReceivableSweeper struct {
	flipped int
	err     error
	calls   int
}

func (f *fakeReceivableSweeper) RefreshOverdueStatuses(_ context.Context) (int, error) {
	f.calls++
	return f.flipped, f.err
}

type fakeOutboxCleaner struct {
	deleted int64
	err     error
	cutoff  time.Time
}

func (f *fakeOutboxCleaner) DeleteOlderThan(_ context.Context, before time.Time) (int64, error) {
	f.cutoff = before
	return f.deleted, f.err
}

func TestSweepExecutor_OverdueReceivables(t *testing.T) {
	sweeper := &fakeReceivableSweeper{flipped: 4}
	exec := NewSweepExecutor(sweeper, &fakeOutboxCleaner{}, 0, zap.NewNop())

	err := exec.Execute(context.Background(), NewJob(SweepTypeOverdueReceivables, time.Now(), 0))

	require.NoError(t, err)
	assert.Equal(t, 1, sweeper.calls)
}

func TestSweepExecutor_OverdueReceivables_Error(t *testing.T) {
	sweeper := &fakeReceivableSweeper{err: errors.New("db down")}
	exec := NewSweepExecutor(sweeper, &fakeOutboxCleaner{}, 0, zap.NewNop())

	err := exec.Execute(context.Background(), NewJob(SweepTypeOverdueReceivables, time.Now(), 0))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "overdue receivable sweep failed")
}

func TestSweepExecutor_OutboxCleanup(t *testing.T) {
	cleaner := &fakeOutboxCleaner{deleted: 12}
	retention := 48 * time.Hour
	exec := NewSweepExecutor(&fakeReceivableSweeper{}, cleaner, retention, zap.NewNop())

	asOf := time.Now()
	err := exec.Execute(context.Background(), NewJob(SweepTypeOutboxCleanup, asOf, 0))

	require.NoError(t, err)
	assert.Equal(t, asOf.Add(-retention), cleaner.cutoff)
}

func TestSweepExecutor_UnknownSweepType(t *testing.T) {
	exec := NewSweepExecutor(&fakeReceivableSweeper{}, &fakeOutboxCleaner{}, 0, zap.NewNop())

	err := exec.Execute(context.Background(), NewJob(SweepType("BOGUS"), time.Now(), 0))

	assert.ErrorIs(t, err, ErrInvalidSweepType)
}

func TestSweepTrigger_TriggerNow(t *testing.T) {
	exec := newMockExecutor(1)
	sched := NewScheduler(DefaultSchedulerConfig(), exec, zap.NewNop())
	require.NoError(t, sched.Start(context.Background()))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = sched.Stop(ctx)
	}()

	trigger := NewSweepTrigger(DefaultSweepTriggerConfig(), sched, zap.NewNop())

	require.NoError(t, trigger.TriggerNow(SweepTypeOverdueReceivables))

	waitForExecutions(t, exec, 1)
}

func TestSweepTrigger_IsDue(t *testing.T) {
	trigger := NewSweepTrigger(DefaultSweepTriggerConfig(), nil, zap.NewNop())
	now := time.Now()

	// Never run before
	assert.True(t, trigger.isDue(SweepTypeOverdueReceivables, now, time.Hour))

	trigger.mu.Lock()
	trigger.lastRun[SweepTypeOverdueReceivables] = now.Add(-30 * time.Minute)
	trigger.mu.Unlock()
	assert.False(t, trigger.isDue(SweepTypeOverdueReceivables, now, time.Hour))

	trigger.mu.Lock()
	trigger.lastRun[SweepTypeOverdueReceivables] = now.Add(-2 * time.Hour)
	trigger.mu.Unlock()
	assert.True(t, trigger.isDue(SweepTypeOverdueReceivables, now, time.Hour))

	// Disabled interval never fires
	assert.False(t, trigger.isDue(SweepTypeOverdueReceivables, now, 0))
}

func TestSweepTrigger_StartStop(t *testing.T) {
	exec := newMockExecutor(0)
	sched := NewScheduler(DefaultSchedulerConfig(), exec, zap.NewNop())
	require.NoError(t, sched.Start(context.Background()))

	cfg := DefaultSweepTriggerConfig()
	cfg.CheckInterval = time.Hour // Keep the loop idle during the test
	trigger := NewSweepTrigger(cfg, sched, zap.NewNop())

	require.NoError(t, trigger.Start(context.Background()))
	require.NoError(t, trigger.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, trigger.Stop(ctx))
	require.NoError(t, trigger.Stop(ctx))
	require.NoError(t, sched.Stop(ctx))
}
