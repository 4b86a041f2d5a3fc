package identity

import (
	"context"
	"time"

	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/identity"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/infrastructure/auth"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo identity.UserRepository, jwtService *auth.JWTService) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// SetTokenBlacklist enables token revocation on logout
func (s *AuthService) SetTokenBlacklist(blacklist auth.TokenBlacklist) {
	s.blacklist = blacklist
}

// Login authenticates a user by username and password and issues a token pair
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	log := logger.FromContext(ctx)

	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		log.Warn("Login attempt for unknown user", zap.String("username", req.Username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	if !user.IsActive() {
		log.Warn("Login attempt for deactivated account", zap.String("username", req.Username))
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	if !user.VerifyPassword(req.Password) {
		log.Warn("Invalid password attempt", zap.String("username", req.Username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   user.ID,
		Username: user.Username,
		Roles:    user.Roles,
	})
	if err != nil {
		log.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	user.RecordLogin(time.Now())
	if err := s.userRepo.Save(ctx, user); err != nil {
		// Login still succeeds; the timestamp is best effort
		log.Error("Failed to record login time", zap.Error(err))
	}

	return &LoginResponse{
		Token: toTokenResponse(pair),
		User:  ToUserResponse(user),
	}, nil
}

// Refresh exchanges a valid refresh token for a new token pair. Roles
// are reloaded from the user record so revoked roles drop off on refresh.
func (s *AuthService) Refresh(ctx context.Context, req RefreshTokenRequest) (*TokenResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid refresh token")
	}

	user, err := s.findClaimsUser(ctx, claims)
	if err != nil {
		return nil, err
	}

	pair, err := s.jwtService.RefreshTokenPair(req.RefreshToken, user.Username, user.Roles)
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Refresh token can no longer be used")
	}

	response := toTokenResponse(pair)
	return &response, nil
}

// Logout revokes the presented access token until it expires naturally
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.jwtService.ValidateAccessToken(accessToken)
	if err != nil {
		return shared.NewDomainError("UNAUTHORIZED", "Invalid token")
	}

	if s.blacklist == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}

	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, ttl); err != nil {
		logger.FromContext(ctx).Error("Failed to blacklist token", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to revoke token")
	}

	return nil
}

// CurrentUser returns the account behind a set of validated claims
func (s *AuthService) CurrentUser(ctx context.Context, claims *auth.Claims) (*UserResponse, error) {
	user, err := s.findClaimsUser(ctx, claims)
	if err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// ChangePassword replaces the caller's password after verifying the old one
func (s *AuthService) ChangePassword(ctx context.Context, claims *auth.Claims, req ChangePasswordRequest) error {
	user, err := s.findClaimsUser(ctx, claims)
	if err != nil {
		return err
	}

	if err := user.ChangePassword(req.OldPassword, req.NewPassword); err != nil {
		return err
	}

	return s.userRepo.Save(ctx, user)
}

func (s *AuthService) findClaimsUser(ctx context.Context, claims *auth.Claims) (*identity.User, error) {
	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid token claims")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Account no longer exists")
	}
	if !user.IsActive() {
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	return user, nil
}

func toTokenResponse(pair *auth.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}
}
