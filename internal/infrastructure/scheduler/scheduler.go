package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// SweepType names a periodic maintenance pass
type SweepType string

const (
	SweepTypeOverdueReceivables SweepType = "OVERDUE_RECEIVABLES"
	SweepTypeOutboxCleanup      SweepType = "OUTBOX_CLEANUP"
)

// Job is one scheduled execution of a sweep. AsOf pins the reference
// time so retries evaluate the same instant the job was created for.
type Job struct {
	ID          uuid.UUID
	SweepType   SweepType
	AsOf        time.Time
	Status      JobStatus
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time
	RetryCount  int
	MaxRetries  int
	NextRetryAt *time.Time
}

func NewJob(sweepType SweepType, asOf time.Time, maxRetries int) *Job {
	return &Job{
		ID:         uuid.New(),
		SweepType:  sweepType,
		AsOf:       asOf,
		Status:     JobStatusPending,
		MaxRetries: maxRetries,
	}
}

func (j *Job) Start() {
	now := time.Now()
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.Error = ""
}

func (j *Job) Complete() {
	now := time.Now()
	j.Status = JobStatusSuccess
	j.CompletedAt = &now
}

func (j *Job) Fail(err string) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.CompletedAt = &now
	j.Error = err
}

func (j *Job) ShouldRetry() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// ScheduleRetry moves the job back to pending with a delay before the
// next attempt
func (j *Job) ScheduleRetry(delay time.Duration) {
	j.RetryCount++
	j.Status = JobStatusPending
	nextRetry := time.Now().Add(delay)
	j.NextRetryAt = &nextRetry
	j.Error = ""
}

// JobExecutor runs the actual sweep logic for a job
type JobExecutor interface {
	Execute(ctx context.Context, job *Job) error
}

type SchedulerConfig struct {
	Enabled           bool
	MaxConcurrentJobs int
	JobTimeout        time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration
}

func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Enabled:           true,
		MaxConcurrentJobs: 2,
		JobTimeout:        5 * time.Minute,
		RetryAttempts:     3,
		RetryDelay:        time.Minute,
	}
}

// Scheduler runs sweep jobs on a bounded worker pool fed by a buffered
// queue. Failed jobs are retried up to their MaxRetries.
type Scheduler struct {
	config   SchedulerConfig
	executor JobExecutor
	logger   *zap.Logger

	jobs      chan *Job
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

func NewScheduler(config SchedulerConfig, executor JobExecutor, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		config:   config,
		executor: executor,
		logger:   logger,
		jobs:     make(chan *Job, 100),
	}
}

// Start spins up the worker pool. Calling Start on a running scheduler
// is a no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, s.cancel = context.WithCancel(ctx)

	for i := 0; i < s.config.MaxConcurrentJobs; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.logger.Info("Sweep scheduler started",
		zap.Int("workers", s.config.MaxConcurrentJobs),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)
	return nil
}

// Stop drains the workers, honoring the context deadline
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	close(s.jobs)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Sweep scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Sweep scheduler stop timed out")
		return ctx.Err()
	}
}

// SubmitJob queues a job, failing fast when the scheduler is stopped
// or the queue is full
func (s *Scheduler) SubmitJob(job *Job) error {
	s.mu.Lock()
	running := s.isRunning
	s.mu.Unlock()
	if !running {
		return ErrSchedulerNotRunning
	}

	select {
	case s.jobs <- job:
		s.logger.Debug("Job submitted",
			zap.String("job_id", job.ID.String()),
			zap.String("sweep_type", string(job.SweepType)),
		)
		return nil
	default:
		return ErrJobQueueFull
	}
}

// ScheduleSweep queues a sweep of the given type with the configured
// retry budget
func (s *Scheduler) ScheduleSweep(sweepType SweepType, asOf time.Time) error {
	return s.SubmitJob(NewJob(sweepType, asOf, s.config.RetryAttempts))
}

func (s *Scheduler) worker(ctx context.Context, workerID int) {
	defer s.wg.Done()

	s.logger.Debug("Worker started", zap.Int("worker_id", workerID))
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Worker stopping", zap.Int("worker_id", workerID))
			return
		case job, ok := <-s.jobs:
			if !ok {
				s.logger.Debug("Job channel closed", zap.Int("worker_id", workerID))
				return
			}
			s.runJob(ctx, job, workerID)
		}
	}
}

// requeue puts a job back on the queue, dropping it with a warning
// when the queue is full
func (s *Scheduler) requeue(job *Job) {
	select {
	case s.jobs <- job:
	default:
		s.logger.Warn("Failed to re-queue job for retry",
			zap.String("job_id", job.ID.String()),
		)
	}
}

func (s *Scheduler) runJob(ctx context.Context, job *Job, workerID int) {
	// a retry that arrived early goes back on the queue
	if job.NextRetryAt != nil && time.Now().Before(*job.NextRetryAt) {
		s.requeue(job)
		return
	}

	job.Start()
	s.logger.Info("Processing job",
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("sweep_type", string(job.SweepType)),
	)

	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	if err := s.executor.Execute(jobCtx, job); err != nil {
		job.Fail(err.Error())
		s.logger.Error("Job failed",
			zap.Int("worker_id", workerID),
			zap.String("job_id", job.ID.String()),
			zap.String("sweep_type", string(job.SweepType)),
			zap.Error(err),
		)

		if job.ShouldRetry() {
			job.ScheduleRetry(s.config.RetryDelay)
			s.logger.Info("Job scheduled for retry",
				zap.String("job_id", job.ID.String()),
				zap.Int("retry_count", job.RetryCount),
				zap.Int("max_retries", job.MaxRetries),
			)
			s.requeue(job)
		}
		return
	}

	job.Complete()
	s.logger.Info("Job completed successfully",
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("sweep_type", string(job.SweepType)),
	)
}
