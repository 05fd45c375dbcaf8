package middleware

import (
	"io"
	"net/http"
	"time"

	"github.com/cliptube/backend/internal/constants"
	"github.com/cliptube/backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoggingMiddleware logs HTTP requests and responses
func LoggingMiddleware() gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			logger.LogRequest(
				param.Method,
				param.Path,
				param.StatusCode,
				param.Latency.Milliseconds(),
				param.ClientIP,
				param.Request.UserAgent(),
			)

			if param.ErrorMessage != "" {
				logger.GetLogger().Error("Request error",
					zap.String("error", param.ErrorMessage),
					zap.String("method", param.Method),
					zap.String("path", param.Path),
					zap.String("client_ip", param.ClientIP),
					zap.Int("status_code", param.StatusCode),
					zap.Duration("latency", param.Latency),
				)
			}

			if param.Latency > time.Second*2 {
				logger.GetLogger().Warn("Slow request detected",
					zap.String("method", param.Method),
					zap.String("path", param.Path),
					zap.Duration("latency", param.Latency),
					zap.String("client_ip", param.ClientIP),
				)
			}

			return "" // Zap already wrote the entry
		},
		Output: io.Discard,
	})
}

// RecoveryMiddleware recovers from panics and logs them
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.LogPanic(recovered)

		c.JSON(http.StatusInternalServerError, constants.BuildErrorResponse(
			http.StatusInternalServerError,
			constants.MsgInternalError,
			nil,
		))
	})
}
