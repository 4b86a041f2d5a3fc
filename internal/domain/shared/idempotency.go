package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers which event IDs a consumer has already
// handled, so redelivered events are dropped instead of applied twice.
type IdempotencyStore interface {
	// MarkProcessed records the event ID for the given TTL. It
	// returns true when the ID was new, false when it was already
	// recorded and still live.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether the event ID is currently recorded
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	Close() error
}

// IdempotencyConfig controls duplicate-event suppression
type IdempotencyConfig struct {
	// TTL bounds how long an event ID stays recorded. After it
	// expires the same ID would be processed again.
	TTL time.Duration

	Enabled bool
}

// DefaultIdempotencyConfig enables suppression with a 24 hour window
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
