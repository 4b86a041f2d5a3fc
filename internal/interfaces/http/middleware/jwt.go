package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/putrihati-cmd/BUMASansor-sub004/internal/infrastructure/auth"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	JWTClaimsKey   = "jwt_claims"
	JWTUserIDKey   = "jwt_user_id"
	JWTUsernameKey = "jwt_username"
	JWTRolesKey    = "jwt_roles"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
)

// JWTMiddlewareConfig configures the authentication middleware
type JWTMiddlewareConfig struct {
	JWTService *auth.JWTService

	// TokenBlacklist, when set, rejects revoked tokens and tokens
	// issued before a forced logout
	TokenBlacklist auth.TokenBlacklist

	// SkipPaths and SkipPathPrefixes bypass authentication entirely
	SkipPaths        []string
	SkipPathPrefixes []string

	// OnError overrides the default 401 response
	OnError func(c *gin.Context, err error)

	Logger *zap.Logger
}

// DefaultJWTConfig skips health probes and the login endpoints
func DefaultJWTConfig(jwtService *auth.JWTService) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/healthz",
			"/ready",
			"/api/v1/health",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
		},
	}
}

// JWTAuthMiddleware authenticates requests with the default configuration
func JWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(DefaultJWTConfig(jwtService))
}

// JWTAuthMiddlewareWithConfig validates the bearer token, consults the
// blacklist, and exposes the claims through the gin context
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if pathSkipped(cfg, c.Request.URL.Path) {
			c.Next()
			return
		}

		tokenString, err := bearerToken(c)
		if err != nil {
			handleAuthError(c, cfg, err, "Missing or malformed authorization header")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			handleAuthError(c, cfg, err, "Token validation failed")
			return
		}

		if revoked := checkRevocation(c, cfg, claims); revoked {
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTUsernameKey, claims.Username)
		c.Set(JWTRolesKey, claims.Roles)

		// propagate the user into the request-scoped logger context
		ctx := c.Request.Context()
		ctx, _ = logger.WithUserID(ctx, logger.FromContext(ctx), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		if cfg.Logger != nil {
			cfg.Logger.Debug("JWT authentication successful",
				zap.String("user_id", claims.UserID),
				zap.String("username", claims.Username),
				zap.Strings("roles", claims.Roles),
			)
		}

		c.Next()
	}
}

func pathSkipped(cfg JWTMiddlewareConfig, path string) bool {
	for _, skip := range cfg.SkipPaths {
		if path == skip {
			return true
		}
	}
	for _, prefix := range cfg.SkipPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader(AuthHeaderKey)
	if header == "" || !strings.HasPrefix(header, BearerPrefix) {
		return "", auth.ErrInvalidToken
	}
	token := strings.TrimPrefix(header, BearerPrefix)
	if token == "" {
		return "", auth.ErrInvalidToken
	}
	return token, nil
}

// checkRevocation aborts the request when the token or the user's whole
// session set has been revoked. Blacklist lookup failures fail open,
// availability wins over strictness here.
func checkRevocation(c *gin.Context, cfg JWTMiddlewareConfig, claims *auth.Claims) bool {
	if cfg.TokenBlacklist == nil {
		return false
	}
	ctx := c.Request.Context()

	if claims.ID != "" {
		blacklisted, err := cfg.TokenBlacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Error("Failed to check token blacklist",
					zap.String("jti", claims.ID),
					zap.Error(err))
			}
		} else if blacklisted {
			handleAuthError(c, cfg, auth.ErrTokenBlacklisted, "Token has been revoked")
			return true
		}
	}

	if claims.UserID != "" {
		invalidated, err := cfg.TokenBlacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Error("Failed to check user token invalidation",
					zap.String("user_id", claims.UserID),
					zap.Error(err))
			}
		} else if invalidated {
			handleAuthError(c, cfg, auth.ErrTokenBlacklisted, "User session has been invalidated")
			return true
		}
	}

	return false
}

func handleAuthError(c *gin.Context, cfg JWTMiddlewareConfig, err error, message string) {
	if cfg.OnError != nil {
		cfg.OnError(c, err)
		return
	}

	if cfg.Logger != nil {
		cfg.Logger.Warn("JWT authentication failed",
			zap.Error(err),
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path),
		)
	}

	code, msg := "UNAUTHORIZED", "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, msg = "TOKEN_EXPIRED", "Token has expired"
	case errors.Is(err, auth.ErrInvalidTokenType):
		code, msg = "INVALID_TOKEN_TYPE", "Invalid token type"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		code, msg = "TOKEN_NOT_VALID", "Token is not yet valid"
	case errors.Is(err, auth.ErrTokenBlacklisted):
		code, msg = "TOKEN_REVOKED", "Token has been revoked"
	case errors.Is(err, auth.ErrInvalidToken):
		code, msg = "INVALID_TOKEN", "Invalid token"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": msg,
		},
	})
}

// GetJWTClaims returns the validated claims, or nil outside an
// authenticated request
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

func GetJWTUserID(c *gin.Context) string {
	return c.GetString(JWTUserIDKey)
}

func GetJWTUsername(c *gin.Context) string {
	return c.GetString(JWTUsernameKey)
}

func GetJWTRoles(c *gin.Context) []string {
	if roles, exists := c.Get(JWTRolesKey); exists {
		if r, ok := roles.([]string); ok {
			return r
		}
	}
	return nil
}
