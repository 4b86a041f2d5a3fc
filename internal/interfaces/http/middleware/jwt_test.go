package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/putrihati-cmd/BUMASansor-sub004/internal/infrastructure/auth"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-middleware",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        5,
	})
}

func issueToken(t *testing.T, svc *auth.JWTService, roles []string) string {
	t.Helper()
	pair, err := svc.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   uuid.New(),
		Username: "testuser",
		Roles:    roles,
	})
	require.NoError(t, err)
	return pair.AccessToken
}

func newTestRouter(svc *auth.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(JWTAuthMiddleware(svc))
	router.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":  GetJWTUserID(c),
			"username": GetJWTUsername(c),
			"roles":    GetJWTRoles(c),
		})
	})
	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func TestJWTAuthMiddleware(t *testing.T) {
	svc := newTestJWTService()

	t.Run("allows request with valid token", func(t *testing.T) {
		router := newTestRouter(svc)
		token := issueToken(t, svc, []string{auth.RoleWarehouse})

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "testuser")
		assert.Contains(t, w.Body.String(), auth.RoleWarehouse)
	})

	t.Run("rejects request without authorization header", func(t *testing.T) {
		router := newTestRouter(svc)

		req := httptest.NewRequest("GET", "/protected", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects request with malformed header", func(t *testing.T) {
		router := newTestRouter(svc)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set(AuthHeaderKey, "Basic abc123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects request with invalid token", func(t *testing.T) {
		router := newTestRouter(svc)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+"not-a-real-token")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
	})

	t.Run("skips configured paths", func(t *testing.T) {
		router := newTestRouter(svc)

		req := httptest.NewRequest("GET", "/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects blacklisted token", func(t *testing.T) {
		blacklist := auth.NewInMemoryTokenBlacklist()
		cfg := DefaultJWTConfig(svc)
		cfg.TokenBlacklist = blacklist

		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.Use(JWTAuthMiddlewareWithConfig(cfg))
		router.GET("/protected", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		token := issueToken(t, svc, []string{auth.RoleSales})
		claims, err := svc.ValidateAccessToken(token)
		require.NoError(t, err)
		require.NoError(t, blacklist.AddToBlacklist(context.Background(), claims.ID, time.Hour))

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "TOKEN_REVOKED")
	})
}

func TestGetJWTHelpers(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("return zero values without claims", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())

		assert.Nil(t, GetJWTClaims(c))
		assert.Empty(t, GetJWTUserID(c))
		assert.Empty(t, GetJWTUsername(c))
		assert.Nil(t, GetJWTRoles(c))
	})

	t.Run("return stored values", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(JWTUserIDKey, "user-1")
		c.Set(JWTUsernameKey, "budi")
		c.Set(JWTRolesKey, []string{auth.RoleFinance})

		assert.Equal(t, "user-1", GetJWTUserID(c))
		assert.Equal(t, "budi", GetJWTUsername(c))
		assert.Equal(t, []string{auth.RoleFinance}, GetJWTRoles(c))
	})
}
