package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SweepTriggerConfig holds configuration for the interval trigger
type SweepTriggerConfig struct {
	// OverdueSweepInterval is how often to flip due receivables to overdue
	OverdueSweepInterval time.Duration

	// OutboxCleanupInterval is how often to purge sent outbox entries
	OutboxCleanupInterval time.Duration

	// CheckInterval is how often to check whether a sweep is due
	CheckInterval time.Duration
}

// DefaultSweepTriggerConfig returns default trigger configuration
func DefaultSweepTriggerConfig() SweepTriggerConfig {
	return SweepTriggerConfig{
		OverdueSweepInterval:  time.Hour,
		OutboxCleanupInterval: 24 * time.Hour,
		CheckInterval:         time.Minute,
	}
}

// SweepTrigger submits sweep jobs to the scheduler on a fixed interval
type SweepTrigger struct {
	config    SweepTriggerConfig
	scheduler *Scheduler
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	lastRun   map[SweepType]time.Time
}

// NewSweepTrigger creates a new sweep trigger
func NewSweepTrigger(config SweepTriggerConfig, scheduler *Scheduler, logger *zap.Logger) *SweepTrigger {
	return &SweepTrigger{
		config:    config,
		scheduler: scheduler,
		logger:    logger,
		lastRun:   make(map[SweepType]time.Time),
	}
}

// Start starts the trigger loop
func (t *SweepTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("Sweep trigger started",
		zap.Duration("overdue_sweep_interval", t.config.OverdueSweepInterval),
		zap.Duration("outbox_cleanup_interval", t.config.OutboxCleanupInterval),
		zap.Duration("check_interval", t.config.CheckInterval),
	)

	return nil
}

// Stop stops the trigger loop
func (t *SweepTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Sweep trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runLoop checks periodically whether a sweep is due
func (t *SweepTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.checkAndTrigger()
		}
	}
}

// checkAndTrigger submits every sweep whose interval has elapsed
func (t *SweepTrigger) checkAndTrigger() {
	now := time.Now()

	if t.isDue(SweepTypeOverdueReceivables, now, t.config.OverdueSweepInterval) {
		t.trigger(SweepTypeOverdueReceivables, now)
	}
	if t.isDue(SweepTypeOutboxCleanup, now, t.config.OutboxCleanupInterval) {
		t.trigger(SweepTypeOutboxCleanup, now)
	}
}

func (t *SweepTrigger) isDue(sweepType SweepType, now time.Time, interval time.Duration) bool {
	if interval <= 0 {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	last, ok := t.lastRun[sweepType]
	return !ok || now.Sub(last) >= interval
}

func (t *SweepTrigger) trigger(sweepType SweepType, now time.Time) {
	if err := t.scheduler.ScheduleSweep(sweepType, now); err != nil {
		t.logger.Error("Failed to schedule sweep",
			zap.String("sweep_type", string(sweepType)),
			zap.Error(err),
		)
		return
	}

	t.mu.Lock()
	t.lastRun[sweepType] = now
	t.mu.Unlock()

	t.logger.Info("Sweep triggered", zap.String("sweep_type", string(sweepType)))
}

// TriggerNow submits a sweep immediately, bypassing the interval check
func (t *SweepTrigger) TriggerNow(sweepType SweepType) error {
	return t.scheduler.ScheduleSweep(sweepType, time.Now())
}
