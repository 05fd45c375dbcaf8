package middleware

import (
	"context"
	"time"

	"github.com/cliptube/backend/internal/constants"
	ctxutil "github.com/cliptube/backend/pkg/context"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestContext seeds the request context with tracking metadata so every
// downstream log line carries the same request ID, client IP and timing.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := c.Request.Context()
		ctx = context.WithValue(ctx, ctxutil.RequestIDKey, requestID)
		ctx = context.WithValue(ctx, ctxutil.ClientIPKey, c.ClientIP())
		ctx = context.WithValue(ctx, ctxutil.UserAgentKey, c.Request.UserAgent())
		ctx = context.WithValue(ctx, ctxutil.StartTimeKey, time.Now())

		c.Header(constants.HeaderXRequestID, requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequestTimeout bounds how long a single request may run
func RequestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
