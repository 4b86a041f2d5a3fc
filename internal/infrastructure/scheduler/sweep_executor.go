package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ReceivableSweeper flips unsettled receivables past their due date to overdue.
// Implemented by the finance receivable service.
type ReceivableSweeper interface {
	RefreshOverdueStatuses(ctx context.Context) (int, error)
}

// OutboxCleaner purges delivered outbox entries older than a cutoff.
// Implemented by the outbox repository.
type OutboxCleaner interface {
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// SweepExecutor dispatches sweep jobs to the owning service
type SweepExecutor struct {
	receivables     ReceivableSweeper
	outbox          OutboxCleaner
	outboxRetention time.Duration
	logger          *zap.Logger
}

// NewSweepExecutor creates a new sweep executor
func NewSweepExecutor(
	receivables ReceivableSweeper,
	outbox OutboxCleaner,
	outboxRetention time.Duration,
	logger *zap.Logger,
) *SweepExecutor {
	if outboxRetention <= 0 {
		outboxRetention = 7 * 24 * time.Hour
	}
	return &SweepExecutor{
		receivables:     receivables,
		outbox:          outbox,
		outboxRetention: outboxRetention,
		logger:          logger,
	}
}

// Execute runs a single sweep job
func (e *SweepExecutor) Execute(ctx context.Context, job *Job) error {
	switch job.SweepType {
	case SweepTypeOverdueReceivables:
		return e.sweepOverdueReceivables(ctx)
	case SweepTypeOutboxCleanup:
		return e.cleanupOutbox(ctx, job.AsOf)
	default:
		return fmt.Errorf("%w: %s", ErrInvalidSweepType, job.SweepType)
	}
}

func (e *SweepExecutor) sweepOverdueReceivables(ctx context.Context) error {
	flipped, err := e.receivables.RefreshOverdueStatuses(ctx)
	if err != nil {
		return fmt.Errorf("overdue receivable sweep failed: %w", err)
	}

	e.logger.Info("Overdue receivable sweep completed",
		zap.Int("flipped", flipped),
	)
	return nil
}

func (e *SweepExecutor) cleanupOutbox(ctx context.Context, asOf time.Time) error {
	cutoff := asOf.Add(-e.outboxRetention)

	deleted, err := e.outbox.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("outbox cleanup failed: %w", err)
	}

	e.logger.Info("Outbox cleanup completed",
		zap.Int64("deleted", deleted),
		zap.Time("cutoff", cutoff),
	)
	return nil
}

// Ensure SweepExecutor implements JobExecutor
var _ JobExecutor = (*SweepExecutor)(nil)
