package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/identity"
)

// LoginRequest is the input for authenticating a user
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest exchanges a refresh token for a new token pair
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest replaces the caller's password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// CreateUserRequest is the input for provisioning a user account
type CreateUserRequest struct {
	Username    string   `json:"username" binding:"required"`
	DisplayName string   `json:"display_name"`
	Password    string   `json:"password" binding:"required,min=8"`
	Roles       []string `json:"roles" binding:"required,min=1"`
}

// SetRolesRequest replaces a user's role assignments
type SetRolesRequest struct {
	Roles []string `json:"roles" binding:"required,min=1"`
}

// TokenResponse is the API shape of an issued token pair
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// UserResponse is the API shape of a user account
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name,omitempty"`
	Roles       []string   `json:"roles"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// LoginResponse bundles the issued tokens with the authenticated user
type LoginResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}

// ToUserResponse maps a domain user to its API shape
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Roles:       u.Roles,
		Status:      string(u.Status),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// ToUserResponses maps a slice of domain users
func ToUserResponses(users []identity.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, ToUserResponse(&users[i]))
	}
	return out
}
