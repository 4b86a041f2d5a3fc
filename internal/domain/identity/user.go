package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the status of a user account
type UserStatus string

const (
	UserStatusActive      UserStatus = "active"
	UserStatusDeactivated UserStatus = "deactivated"
)

// Role names recognized by the system
const (
	RoleAdmin     = "admin"
	RoleWarehouse = "warehouse"
	RoleSales     = "sales"
	RoleFinance   = "finance"
)

// Password cost for bcrypt
const bcryptCost = 12

var usernameRegex = regexp.MustCompile(`^[a-z0-9._\-]{3,50}$`)

// IsValidRole returns true if the role name is recognized
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleWarehouse, RoleSales, RoleFinance:
		return true
	}
	return false
}

// User represents a staff account. It is the aggregate root for
// authentication and role assignment.
type User struct {
	shared.BaseAggregateRoot
	Username     string         `gorm:"type:varchar(50);not null;uniqueIndex"`
	DisplayName  string         `gorm:"type:varchar(100)"`
	PasswordHash string         `gorm:"type:varchar(100);not null"`
	Roles        pq.StringArray `gorm:"type:text[];not null"`
	Status       UserStatus     `gorm:"type:varchar(20);not null;default:'active'"`
	LastLoginAt  *time.Time     `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates an active user with the given roles
func NewUser(username, displayName, password string, roles []string) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if !usernameRegex.MatchString(username) {
		return nil, shared.NewDomainError("VALIDATION_ERROR",
			"Username must be 3-50 characters of lowercase letters, digits, dot, dash or underscore")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "At least one role is required")
	}
	for _, role := range roles {
		if !IsValidRole(role) {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Unknown role: "+role)
		}
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          username,
		DisplayName:       displayName,
		PasswordHash:      hash,
		Roles:             roles,
		Status:            UserStatusActive,
	}

	user.AddDomainEvent(NewUserCreatedEvent(user))

	return user, nil
}

// VerifyPassword reports whether the given password matches the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword replaces the password after verifying the old one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("UNAUTHORIZED", "Current password is incorrect")
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	u.PasswordHash = hash
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// SetRoles replaces the user's role assignments
func (u *User) SetRoles(roles []string) error {
	if len(roles) == 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "At least one role is required")
	}
	for _, role := range roles {
		if !IsValidRole(role) {
			return shared.NewDomainError("VALIDATION_ERROR", "Unknown role: "+role)
		}
	}

	u.Roles = roles
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// HasRole reports whether the user holds the given role
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// RecordLogin stamps the last successful login time
func (u *User) RecordLogin(at time.Time) {
	u.LastLoginAt = &at
	u.UpdatedAt = time.Now()
}

// IsActive reports whether the account can log in
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// Deactivate blocks the account from logging in
func (u *User) Deactivate() error {
	if u.Status == UserStatusDeactivated {
		return shared.NewDomainError("INVALID_TRANSITION", "User is already deactivated")
	}

	u.Status = UserStatusDeactivated
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// Activate re-enables a deactivated account
func (u *User) Activate() error {
	if u.Status == UserStatusActive {
		return shared.NewDomainError("INVALID_TRANSITION", "User is already active")
	}

	u.Status = UserStatusActive
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("VALIDATION_ERROR", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("VALIDATION_ERROR", "Password cannot exceed 72 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
