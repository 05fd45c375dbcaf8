package middleware

import (
	"net/http"
	"strings"

	"github.com/cliptube/backend/internal/constants"
	"github.com/cliptube/backend/internal/errors"
	"github.com/cliptube/backend/internal/service"
	ctxutil "github.com/cliptube/backend/pkg/context"
	"github.com/cliptube/backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Gin context keys set by the auth middleware
const (
	GinKeyUserID   = "user_id"
	GinKeyUsername = "username"
)

type JWTMiddleware struct {
	tokens *service.TokenService
}

func NewJWTMiddleware(tokens *service.TokenService) *JWTMiddleware {
	return &JWTMiddleware{tokens: tokens}
}

// extractToken pulls the access token from the Authorization header or,
// for browser clients, from the accessToken cookie.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader(constants.HeaderAuthorization)
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		// Malformed header; the cookie may still carry a usable token
	}

	if cookie, err := c.Cookie(constants.CookieAccessToken); err == nil {
		return cookie
	}

	return ""
}

// RequireAuth validates the access token and sets user info in context
func (m *JWTMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			logger.GetLogger().Warn("Missing access token",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			abortUnauthorized(c)
			return
		}

		claims, err := m.tokens.VerifyAccessToken(tokenString)
		if err != nil {
			logger.GetLogger().Warn("Invalid or expired access token",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.Error(err))
			abortUnauthorized(c)
			return
		}

		c.Set(GinKeyUserID, claims.UserID)
		c.Set(GinKeyUsername, claims.Username)

		ctx := ctxutil.WithUserID(c.Request.Context(), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// OptionalAuth decodes the token when present but never rejects the request.
// Used on public views that personalize for logged-in viewers.
func (m *JWTMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := m.tokens.VerifyAccessToken(tokenString)
		if err != nil {
			c.Next()
			return
		}

		c.Set(GinKeyUserID, claims.UserID)
		c.Set(GinKeyUsername, claims.Username)

		ctx := ctxutil.WithUserID(c.Request.Context(), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(
		http.StatusUnauthorized,
		errors.ErrUnauthorized.Message,
		nil,
	))
	c.Abort()
}

// AuthenticatedUserID returns the user ID the auth middleware stored
func AuthenticatedUserID(c *gin.Context) (uint, bool) {
	val, exists := c.Get(GinKeyUserID)
	if !exists {
		return 0, false
	}
	id, ok := val.(uint)
	return id, ok
}
