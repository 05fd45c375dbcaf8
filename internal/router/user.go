package router

import (
	"time"

	"github.com/cliptube/backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// userRoutes mounts the account, session and channel-view endpoints
func (r *Router) userRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		// Auth endpoints are rate limited to slow down brute forcing
		authLimited := users.Group("")
		authLimited.Use(middleware.RateLimit(20, time.Minute))
		{
			authLimited.POST("/register", r.authHandler.Register)
			authLimited.POST("/login", r.authHandler.Login)
			authLimited.POST("/refresh-token", r.authHandler.RefreshToken)
		}

		// Public channel view; personalizes when a token is present
		users.GET("/c/:username", r.jwtMw.OptionalAuth(), r.channelHandler.GetChannelProfile)

		protected := users.Group("")
		protected.Use(r.jwtMw.RequireAuth())
		{
			protected.POST("/logout", r.authHandler.Logout)
			protected.POST("/change-password", r.authHandler.ChangePassword)
			protected.GET("/current-user", r.userHandler.GetCurrentUser)
			protected.PATCH("/update-account", r.userHandler.UpdateAccount)
			protected.PATCH("/avatar", r.userHandler.UpdateAvatar)
			protected.PATCH("/cover-image", r.userHandler.UpdateCoverImage)

			protected.GET("/history", r.channelHandler.GetWatchHistory)
			protected.POST("/history/:videoId", r.channelHandler.RecordWatch)
		}
	}
}
