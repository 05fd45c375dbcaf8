package router

import (
	"github.com/cliptube/backend/config"
	"github.com/cliptube/backend/internal/handler"
	"github.com/cliptube/backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authHandler    *handler.AuthHandler
	userHandler    *handler.UserHandler
	channelHandler *handler.ChannelHandler
	healthHandler  *handler.HealthHandler

	jwtMw  *middleware.JWTMiddleware
	Config *config.Config
}

func NewRouter(
	auth *handler.AuthHandler,
	user *handler.UserHandler,
	channel *handler.ChannelHandler,
	health *handler.HealthHandler,
	jwtMw *middleware.JWTMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:    auth,
		userHandler:    user,
		channelHandler: channel,
		healthHandler:  health,
		jwtMw:          jwtMw,
		Config:         cfg,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestContext())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestTimeout(r.Config.App.Timeout))

	api := router.Group("/api")
	{
		api.GET("/health", r.healthHandler.Health)

		v1 := api.Group("/v1")
		{
			r.userRoutes(v1)
		}
	}

	return router
}
