package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/nahashon-source/globalship-backend/internal/ratelimit"
	"github.com/nahashon-source/globalship-backend/internal/service"
)

// The chain prices requests before touching credentials: an over-limit
// request gets a 429 even when its token would not have authenticated.
func TestPipelineOrdering(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := newMemStore()
	resolver := &fakeResolver{err: service.ErrInvalidToken}

	router := gin.New()
	router.Use(RateLimit(ratelimit.NewCounter(store), RateLimitConfig{
		Limit:  2,
		Window: time.Minute,
	}))
	router.GET("/protected", RequireAuth(resolver), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func() int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.RemoteAddr = "10.0.0.1:54321"
		req.Header.Set("Authorization", "Bearer bad-token")
		router.ServeHTTP(w, req)
		return w.Code
	}

	// Under the limit the invalid token is what gets rejected
	assert.Equal(t, http.StatusUnauthorized, send())
	assert.Equal(t, http.StatusUnauthorized, send())

	// Over the limit the counter answers first; the token is never resolved
	assert.Equal(t, http.StatusTooManyRequests, send())
}
