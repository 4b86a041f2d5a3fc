package event

import (
	"context"

	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
	"gorm.io/gorm"
)

// OutboxPublisher publishes domain events to the outbox within a transaction
type OutboxPublisher struct {
	serializer *EventSerializer
}

// NewOutboxPublisher creates a new outbox publisher
func NewOutboxPublisher(serializer *EventSerializer) *OutboxPublisher {
	return &OutboxPublisher{
		serializer: serializer,
	}
}

// PublishWithTx publishes events to the outbox within the provided transaction
// This ensures events are persisted atomically with the aggregate changes
func (p *OutboxPublisher) PublishWithTx(ctx context.Context, tx *gorm.DB, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, event := range events {
		payload, err := p.serializer.Serialize(event)
		if err != nil {
			return err
		}

		entry := shared.NewOutboxEntry(event, payload)
		entries = append(entries, entry)
	}

	repo := NewGormOutboxRepository(tx)
	return repo.Save(ctx, entries...)
}

// OutboxEventPublisher is a database-bound publisher for callers that do
// not hold an open transaction. Each Publish call writes the entries in
// one transaction of its own; the outbox processor delivers them later.
type OutboxEventPublisher struct {
	db        *gorm.DB
	publisher *OutboxPublisher
}

// NewOutboxEventPublisher creates a new OutboxEventPublisher
func NewOutboxEventPublisher(db *gorm.DB, serializer *EventSerializer) *OutboxEventPublisher {
	return &OutboxEventPublisher{
		db:        db,
		publisher: NewOutboxPublisher(serializer),
	}
}

// Publish persists the events to the outbox
func (p *OutboxEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return p.publisher.PublishWithTx(ctx, tx, events...)
	})
}

// Ensure OutboxEventPublisher implements EventPublisher
var _ shared.EventPublisher = (*OutboxEventPublisher)(nil)
