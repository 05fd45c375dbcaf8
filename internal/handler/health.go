package handler

import (
	"net/http"
	"time"

	"github.com/cliptube/backend/internal/constants"
	"github.com/cliptube/backend/pkg/redis"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db    *gorm.DB
	cache *redis.Client
}

func NewHealthHandler(db *gorm.DB, cache *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Health reports liveness of the service and its dependencies. Degraded
// dependencies are reported but do not fail the endpoint; the service
// keeps serving what it can.
func (h *HealthHandler) Health(c *gin.Context) {
	checks := gin.H{}
	healthy := true

	if sqlDB, err := h.db.DB(); err == nil {
		if err := sqlDB.PingContext(c.Request.Context()); err == nil {
			checks["database"] = "up"
		} else {
			checks["database"] = "down"
			healthy = false
		}
	} else {
		checks["database"] = "down"
		healthy = false
	}

	if h.cache != nil {
		if err := h.cache.Ping(c.Request.Context()); err == nil {
			checks["cache"] = "up"
		} else {
			checks["cache"] = "degraded"
		}
	}

	status := "healthy"
	if !healthy {
		status = "unhealthy"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"version":   constants.AppVersion,
		"timestamp": time.Now(),
		"checks":    checks,
	})
}
