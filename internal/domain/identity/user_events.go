package identity

import (
	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeUser = "User"
)

// Event type constants
const (
	EventTypeUserCreated = "UserCreated"
)

// UserCreatedEvent is published when a new user account is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Roles    []string  `json:"roles"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(user *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, user.ID),
		UserID:          user.ID,
		Username:        user.Username,
		Roles:           user.Roles,
	}
}
