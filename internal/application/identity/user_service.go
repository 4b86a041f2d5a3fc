package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/identity"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
)

// UserService handles user account administration
type UserService struct {
	userRepo       identity.UserRepository
	eventPublisher shared.EventPublisher
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *UserService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create provisions a new user account
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, strings.ToLower(strings.TrimSpace(req.Username)))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username is already taken")
	}

	user, err := identity.NewUser(req.Username, req.DisplayName, req.Password, req.Roles)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, user)

	response := ToUserResponse(user)
	return &response, nil
}

// Get retrieves a user by ID
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// List retrieves users matching the filter
func (s *UserService) List(ctx context.Context, filter shared.Filter) ([]UserResponse, error) {
	filter.Normalize()
	users, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToUserResponses(users), nil
}

// SetRoles replaces a user's role assignments
func (s *UserService) SetRoles(ctx context.Context, id uuid.UUID, req SetRolesRequest) (*UserResponse, error) {
	return s.mutate(ctx, id, func(user *identity.User) error {
		return user.SetRoles(req.Roles)
	})
}

// Deactivate blocks an account from logging in
func (s *UserService) Deactivate(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	return s.mutate(ctx, id, func(user *identity.User) error {
		return user.Deactivate()
	})
}

// Activate re-enables a deactivated account
func (s *UserService) Activate(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	return s.mutate(ctx, id, func(user *identity.User) error {
		return user.Activate()
	})
}

func (s *UserService) mutate(ctx context.Context, id uuid.UUID, fn func(user *identity.User) error) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(user); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, user)

	response := ToUserResponse(user)
	return &response, nil
}

func (s *UserService) publishEvents(ctx context.Context, user *identity.User) {
	if s.eventPublisher == nil {
		return
	}
	events := user.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	user.ClearDomainEvents()
}
