package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/hoodieacademy/academy-backend/internal/handler"
	"github.com/hoodieacademy/academy-backend/internal/middleware"
	"github.com/hoodieacademy/academy-backend/pkg/jwt"
)

// Setup configures all API routes
func Setup(router *gin.Engine, xpHandler *handler.XPHandler, userHandler *handler.UserHandler, jwtManager *jwt.Manager) {
	api := router.Group("/api/v1")
	auth := middleware.JWTAuth(jwtManager)

	// XP engine
	xp := api.Group("/xp")
	xp.GET("", xpHandler.GetSummary)
	xp.POST("", auth, xpHandler.ManualAward)
	xp.POST("/auto-reward", middleware.OptionalJWTAuth(jwtManager), xpHandler.AutoReward)
	xp.GET("/auto-reward", xpHandler.GetAutoReward)

	// Users
	api.GET("/users/:wallet", userHandler.GetUser)
	api.GET("/leaderboard", userHandler.GetLeaderboard)
}
