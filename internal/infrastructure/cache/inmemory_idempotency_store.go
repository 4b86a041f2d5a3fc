package cache

import (
	"context"
	"sync"
	"time"

	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
)

// InMemoryIdempotencyStore keeps processed-event marks in a map. State
// is per-process, so it only deduplicates within a single instance.
type InMemoryIdempotencyStore struct {
	mu        sync.RWMutex
	expiries  map[string]time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryIdempotencyStore starts a background sweep that evicts
// expired marks every five minutes
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	store := &InMemoryIdempotencyStore{
		expiries: make(map[string]time.Time),
		stopChan: make(chan struct{}),
	}
	store.wg.Add(1)
	go store.sweepLoop()
	return store
}

// MarkProcessed records the event ID, returning true when it was newly
// marked. An expired mark counts as absent and is overwritten.
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, eventID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expiresAt, ok := s.expiries[eventID]; ok && time.Now().Before(expiresAt) {
		return false, nil
	}
	s.expiries[eventID] = time.Now().Add(ttl)
	return true, nil
}

func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, eventID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expiresAt, ok := s.expiries[eventID]
	return ok && time.Now().Before(expiresAt), nil
}

// Close stops the sweep goroutine. Safe to call more than once.
func (s *InMemoryIdempotencyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryIdempotencyStore) sweepLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *InMemoryIdempotencyStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for eventID, expiresAt := range s.expiries {
		if now.After(expiresAt) {
			delete(s.expiries, eventID)
		}
	}
}

// Size reports the number of marks currently held, expired or not
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.expiries)
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
