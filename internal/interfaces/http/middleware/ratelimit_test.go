package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func hitFrom(router *gin.Engine, method, path, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func okRouter(mw gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(mw)
	router.Any("/hit", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return router
}

func TestRateLimiter(t *testing.T) {
	t.Run("allows requests within limit", func(t *testing.T) {
		limiter := NewRateLimiter(5, time.Minute)
		for i := 0; i < 5; i++ {
			assert.True(t, limiter.Allow("depot-a"), "request %d should be allowed", i+1)
		}
	})

	t.Run("blocks requests exceeding limit", func(t *testing.T) {
		limiter := NewRateLimiter(3, time.Minute)
		for i := 0; i < 3; i++ {
			assert.True(t, limiter.Allow("depot-b"))
		}
		assert.False(t, limiter.Allow("depot-b"))
	})

	t.Run("separate limits per key", func(t *testing.T) {
		limiter := NewRateLimiter(2, time.Minute)

		assert.True(t, limiter.Allow("kasir-1"))
		assert.True(t, limiter.Allow("kasir-1"))
		assert.False(t, limiter.Allow("kasir-1"))

		assert.True(t, limiter.Allow("kasir-2"))
		assert.True(t, limiter.Allow("kasir-2"))
	})

	t.Run("resets after window", func(t *testing.T) {
		limiter := NewRateLimiter(2, 50*time.Millisecond)

		assert.True(t, limiter.Allow("depot-c"))
		assert.True(t, limiter.Allow("depot-c"))
		assert.False(t, limiter.Allow("depot-c"))

		time.Sleep(60 * time.Millisecond)
		assert.True(t, limiter.Allow("depot-c"))
	})

	t.Run("remaining reports current tokens", func(t *testing.T) {
		limiter := NewRateLimiter(5, time.Minute)
		assert.Equal(t, 5, limiter.Remaining("fresh"))

		limiter.Allow("fresh")
		limiter.Allow("fresh")
		assert.Equal(t, 3, limiter.Remaining("fresh"))
	})

	t.Run("concurrent access is safe", func(t *testing.T) {
		limiter := NewRateLimiter(100, time.Minute)
		var wg sync.WaitGroup
		var mu sync.Mutex
		allowed := 0

		for i := 0; i < 150; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if limiter.Allow("shared") {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 100, allowed)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("allows requests within limit", func(t *testing.T) {
		router := okRouter(RateLimit(NewRateLimiter(3, time.Minute)))
		for i := 0; i < 3; i++ {
			assert.Equal(t, http.StatusOK, hitFrom(router, "GET", "/hit", "").Code)
		}
	})

	t.Run("returns 429 when limit exceeded", func(t *testing.T) {
		router := okRouter(RateLimit(NewRateLimiter(2, time.Minute)))
		for i := 0; i < 2; i++ {
			assert.Equal(t, http.StatusOK, hitFrom(router, "GET", "/hit", "").Code)
		}

		w := hitFrom(router, "GET", "/hit", "")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")
	})

	t.Run("scopes key to authenticated user", func(t *testing.T) {
		limiter := NewRateLimiter(1, time.Minute)
		router := gin.New()
		router.Use(func(c *gin.Context) {
			if userID := c.GetHeader("X-Test-User"); userID != "" {
				c.Set(JWTUserIDKey, userID)
			}
			c.Next()
		})
		router.Use(RateLimit(limiter))
		router.GET("/hit", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		})

		asUser := func(userID string) int {
			req := httptest.NewRequest("GET", "/hit", nil)
			req.Header.Set("X-Test-User", userID)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			return w.Code
		}

		assert.Equal(t, http.StatusOK, asUser("gudang-admin"))
		assert.Equal(t, http.StatusTooManyRequests, asUser("gudang-admin"))
		assert.Equal(t, http.StatusOK, asUser("sales-1"))
	})
}

func TestRateLimitByKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter := NewRateLimiter(1, time.Minute)
	router := gin.New()
	router.Use(RateLimitByKey(limiter, func(c *gin.Context) string {
		return c.GetHeader("X-Warung-ID")
	}))
	router.GET("/hit", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	asWarung := func(id string) int {
		req := httptest.NewRequest("GET", "/hit", nil)
		req.Header.Set("X-Warung-ID", id)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, asWarung("wrg-001"))
	assert.Equal(t, http.StatusTooManyRequests, asWarung("wrg-001"))
	assert.Equal(t, http.StatusOK, asWarung("wrg-002"))
}

func TestAuthRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	const addr = "192.168.1.100:12345"

	t.Run("allows requests within auth limit", func(t *testing.T) {
		router := okRouter(AuthRateLimit(NewRateLimiter(5, time.Minute)))
		for i := 0; i < 5; i++ {
			assert.Equal(t, http.StatusOK, hitFrom(router, "POST", "/hit", addr).Code, "request %d should be allowed", i+1)
		}
	})

	t.Run("returns auth-specific error when exceeded", func(t *testing.T) {
		router := okRouter(AuthRateLimit(NewRateLimiter(3, time.Minute)))
		for i := 0; i < 3; i++ {
			assert.Equal(t, http.StatusOK, hitFrom(router, "POST", "/hit", addr).Code)
		}

		w := hitFrom(router, "POST", "/hit", addr)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "AUTH_RATE_LIMIT_EXCEEDED")
		assert.Contains(t, w.Body.String(), "Too many authentication attempts")
	})

	t.Run("includes rate limit headers", func(t *testing.T) {
		router := okRouter(AuthRateLimit(NewRateLimiter(5, time.Minute)))

		w := hitFrom(router, "POST", "/hit", addr)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("includes Retry-After when blocked", func(t *testing.T) {
		router := okRouter(AuthRateLimit(NewRateLimiter(1, time.Minute)))
		hitFrom(router, "POST", "/hit", addr)

		w := hitFrom(router, "POST", "/hit", addr)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "60", w.Header().Get("Retry-After"))
	})

	t.Run("separate limits per IP address", func(t *testing.T) {
		router := okRouter(AuthRateLimit(NewRateLimiter(2, time.Minute)))
		for i := 0; i < 2; i++ {
			assert.Equal(t, http.StatusOK, hitFrom(router, "POST", "/hit", "192.168.1.1:12345").Code)
		}

		assert.Equal(t, http.StatusTooManyRequests, hitFrom(router, "POST", "/hit", "192.168.1.1:12345").Code)
		assert.Equal(t, http.StatusOK, hitFrom(router, "POST", "/hit", "192.168.1.2:12345").Code)
	})

	t.Run("auth key prefix isolates from other limiters", func(t *testing.T) {
		globalLimiter := NewRateLimiter(100, time.Minute)
		authLimiter := NewRateLimiter(2, time.Minute)

		router := gin.New()
		authGroup := router.Group("/auth")
		authGroup.Use(AuthRateLimit(authLimiter))
		authGroup.POST("/login", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		})
		router.Use(RateLimit(globalLimiter))
		router.GET("/api/movements", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"data": "ok"})
		})

		for i := 0; i < 2; i++ {
			assert.Equal(t, http.StatusOK, hitFrom(router, "POST", "/auth/login", addr).Code)
		}

		assert.Equal(t, http.StatusTooManyRequests, hitFrom(router, "POST", "/auth/login", addr).Code)
		assert.Equal(t, http.StatusOK, hitFrom(router, "GET", "/api/movements", addr).Code)
	})
}
