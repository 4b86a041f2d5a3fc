package middleware

import (
	"net/http"

	"github.com/putrihati-cmd/BUMASansor-sub004/internal/infrastructure/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RoleConfig holds configuration for role middleware
type RoleConfig struct {
	// Logger for middleware logging
	Logger *zap.Logger
	// OnDenied is called when access is denied (optional)
	OnDenied func(c *gin.Context, requiredRoles []string)
}

// RequireRole creates middleware that requires a specific role
func RequireRole(role string) gin.HandlerFunc {
	return RequireAnyRole(role)
}

// RequireAnyRole creates middleware that requires any of the specified roles.
// The admin role is implicitly allowed everywhere.
func RequireAnyRole(roles ...string) gin.HandlerFunc {
	return RequireAnyRoleWithConfig(RoleConfig{}, roles...)
}

// RequireAnyRoleWithConfig creates role middleware with custom config
func RequireAnyRoleWithConfig(cfg RoleConfig, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			handleRoleDenied(c, cfg, roles, "No authentication claims found")
			return
		}

		if !claims.HasRole(auth.RoleAdmin) && !claims.HasAnyRole(roles...) {
			handleRoleDenied(c, cfg, roles, "User lacks required role")
			return
		}

		if cfg.Logger != nil {
			cfg.Logger.Debug("Role check passed",
				zap.String("user_id", claims.UserID),
				zap.Strings("required_any", roles),
				zap.Strings("user_roles", claims.Roles),
			)
		}

		c.Next()
	}
}

// handleRoleDenied handles role check failures
func handleRoleDenied(c *gin.Context, cfg RoleConfig, requiredRoles []string, reason string) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("Role check failed",
			zap.String("reason", reason),
			zap.Strings("required_any", requiredRoles),
			zap.String("path", c.Request.URL.Path),
		)
	}

	if cfg.OnDenied != nil {
		cfg.OnDenied(c, requiredRoles)
		return
	}

	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "FORBIDDEN",
			"message": "You do not have permission to perform this action",
		},
	})
}
