package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)

	ok, _ := limiter.Allow("1.2.3.4")
	assert.True(t, ok)
	ok, _ = limiter.Allow("1.2.3.4")
	assert.True(t, ok)
	ok, _ = limiter.Allow("1.2.3.4")
	assert.False(t, ok)

	// Other clients are tracked independently
	ok, _ = limiter.Allow("5.6.7.8")
	assert.True(t, ok)
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	limiter := NewRateLimiter(1, 50*time.Millisecond)

	ok, _ := limiter.Allow("1.2.3.4")
	assert.True(t, ok)
	ok, _ = limiter.Allow("1.2.3.4")
	assert.False(t, ok)

	time.Sleep(60 * time.Millisecond)

	ok, _ = limiter.Allow("1.2.3.4")
	assert.True(t, ok)
}

func TestRateLimit_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RateLimit(2, time.Minute))
	router.GET("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too many requests")
}
