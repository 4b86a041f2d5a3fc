package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// auditRecord is the storage row for an audit entry
type auditRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Actor      string    `gorm:"size:100;not null;index"`
	Action     string    `gorm:"size:100;not null;index"`
	EntityType string    `gorm:"size:50;not null"`
	EntityID   uuid.UUID `gorm:"type:uuid;index"`
	Detail     string    `gorm:"type:text"`
	OccurredAt time.Time `gorm:"not null;index"`
}

// TableName returns the table name for audit records
func (auditRecord) TableName() string {
	return "audit_entries"
}

// GormAuditSink writes audit entries to the database. Entries are
// insert-only; a failed insert falls back to the log stream so the
// action still leaves a trace.
type GormAuditSink struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormAuditSink creates a new GormAuditSink
func NewGormAuditSink(db *gorm.DB, logger *zap.Logger) *GormAuditSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GormAuditSink{db: db, logger: logger}
}

// Record persists one audit entry
func (s *GormAuditSink) Record(ctx context.Context, entry shared.AuditEntry) error {
	record := auditRecord{
		ID:         entry.ID,
		Actor:      entry.Actor,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Detail:     entry.Detail,
		OccurredAt: entry.OccurredAt,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		s.logger.Warn("audit entry not persisted",
			zap.String("actor", entry.Actor),
			zap.String("action", entry.Action),
			zap.String("entity_type", entry.EntityType),
			zap.String("entity_id", entry.EntityID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// ZapAuditSink writes audit entries to the structured log only. Used
// when no database is wired, for example in tests or local tooling.
type ZapAuditSink struct {
	logger *zap.Logger
}

// NewZapAuditSink creates a new ZapAuditSink
func NewZapAuditSink(logger *zap.Logger) *ZapAuditSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapAuditSink{logger: logger}
}

// Record logs one audit entry
func (s *ZapAuditSink) Record(_ context.Context, entry shared.AuditEntry) error {
	s.logger.Info("audit",
		zap.String("actor", entry.Actor),
		zap.String("action", entry.Action),
		zap.String("entity_type", entry.EntityType),
		zap.String("entity_id", entry.EntityID.String()),
		zap.String("detail", entry.Detail),
		zap.Time("occurred_at", entry.OccurredAt),
	)
	return nil
}

// Ensure both sinks implement AuditSink
var (
	_ shared.AuditSink = (*GormAuditSink)(nil)
	_ shared.AuditSink = (*ZapAuditSink)(nil)
)
