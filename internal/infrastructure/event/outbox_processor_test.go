package event

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockOutboxRepository struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*shared.OutboxEntry
}

func newMockOutboxRepository() *mockOutboxRepository {
	return &mockOutboxRepository{entries: make(map[uuid.UUID]*shared.OutboxEntry)}
}

func (r *mockOutboxRepository) Save(_ context.Context, entries ...*shared.OutboxEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		r.entries[e.ID] = e
	}
	return nil
}

func (r *mockOutboxRepository) byStatus(status shared.OutboxStatus, limit int) []*shared.OutboxEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*shared.OutboxEntry
	for _, e := range r.entries {
		if e.Status == status {
			result = append(result, e)
			if limit > 0 && len(result) >= limit {
				break
			}
		}
	}
	return result
}

func (r *mockOutboxRepository) FindPending(_ context.Context, limit int) ([]*shared.OutboxEntry, error) {
	return r.byStatus(shared.OutboxStatusPending, limit), nil
}

func (r *mockOutboxRepository) FindRetryable(_ context.Context, before time.Time, limit int) ([]*shared.OutboxEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*shared.OutboxEntry
	for _, e := range r.entries {
		if e.Status == shared.OutboxStatusFailed && e.NextRetryAt != nil && e.NextRetryAt.Before(before) {
			result = append(result, e)
			if len(result) >= limit {
				break
			}
		}
	}
	return result, nil
}

func (r *mockOutboxRepository) FindDead(_ context.Context, _, _ int) ([]*shared.OutboxEntry, int64, error) {
	dead := r.byStatus(shared.OutboxStatusDead, 0)
	return dead, int64(len(dead)), nil
}

func (r *mockOutboxRepository) FindByID(_ context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[id], nil
}

func (r *mockOutboxRepository) MarkProcessing(_ context.Context, ids []uuid.UUID) ([]*shared.OutboxEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var claimed []*shared.OutboxEntry
	for _, id := range ids {
		if e, ok := r.entries[id]; ok {
			e.Status = shared.OutboxStatusProcessing
			claimed = append(claimed, e)
		}
	}
	return claimed, nil
}

func (r *mockOutboxRepository) Update(_ context.Context, entry *shared.OutboxEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.ID] = entry
	return nil
}

func (r *mockOutboxRepository) DeleteOlderThan(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func (r *mockOutboxRepository) CountByStatus(_ context.Context) (map[shared.OutboxStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[shared.OutboxStatus]int64)
	for _, e := range r.entries {
		counts[e.Status]++
	}
	return counts, nil
}

func (r *mockOutboxRepository) statusOf(id uuid.UUID) shared.OutboxStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[id].Status
}

func (r *mockOutboxRepository) lastErrorOf(id uuid.UUID) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[id].LastError
}

func runProcessorBriefly(t *testing.T, processor *OutboxProcessor) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, processor.Start(ctx))

	time.Sleep(200 * time.Millisecond)
	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	require.NoError(t, processor.Stop(stopCtx))
}

func TestOutboxProcessor_DeliversPendingEntries(t *testing.T) {
	logger := zap.NewNop()
	serializer := NewEventSerializer()
	serializer.Register("TestEvent", &testEvent{})

	repo := newMockOutboxRepository()
	eventBus := NewInMemoryEventBus(logger)
	handler := capture("TestEvent")
	eventBus.Subscribe(handler, "TestEvent")

	event := newTestEvent("TestEvent")
	payload, err := serializer.Serialize(event)
	require.NoError(t, err)
	entry := shared.NewOutboxEntry(event, payload)
	repo.Save(context.Background(), entry)

	processor := NewOutboxProcessor(repo, eventBus, serializer, OutboxProcessorConfig{
		BatchSize:    100,
		PollInterval: 50 * time.Millisecond,
	}, logger)

	runProcessorBriefly(t, processor)

	assert.Len(t, handler.delivered(), 1)
	assert.Equal(t, shared.OutboxStatusSent, repo.statusOf(entry.ID))
}

func TestOutboxProcessor_MarksUndeserializableEntryFailed(t *testing.T) {
	logger := zap.NewNop()

	// the serializer has no registrations, so deserialization fails
	serializer := NewEventSerializer()
	repo := newMockOutboxRepository()
	eventBus := NewInMemoryEventBus(logger)

	event := newTestEvent("UnregisteredEvent")
	entry := shared.NewOutboxEntry(event, []byte(`{"type": "UnregisteredEvent"}`))
	repo.Save(context.Background(), entry)

	processor := NewOutboxProcessor(repo, eventBus, serializer, OutboxProcessorConfig{
		BatchSize:    100,
		PollInterval: 50 * time.Millisecond,
	}, logger)

	runProcessorBriefly(t, processor)

	assert.Equal(t, shared.OutboxStatusFailed, repo.statusOf(entry.ID))
	assert.Contains(t, repo.lastErrorOf(entry.ID), "unknown event type")
}

func TestOutboxProcessor_StopWithoutWork(t *testing.T) {
	logger := zap.NewNop()
	processor := NewOutboxProcessor(
		newMockOutboxRepository(),
		NewInMemoryEventBus(logger),
		NewEventSerializer(),
		DefaultOutboxProcessorConfig(),
		logger,
	)

	require.NoError(t, processor.Start(context.Background()))

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, processor.Stop(stopCtx))
}

func TestDefaultOutboxProcessorConfig(t *testing.T) {
	config := DefaultOutboxProcessorConfig()

	assert.Equal(t, 100, config.BatchSize)
	assert.Equal(t, 5*time.Second, config.PollInterval)
	assert.True(t, config.CleanupEnabled)
	assert.Equal(t, 7*24*time.Hour, config.CleanupRetention)
	assert.Equal(t, time.Hour, config.CleanupInterval)
}
