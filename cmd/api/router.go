package api

import (
	"net/http"
	"time"

	authDelivery "triago-backend/internal/auth/delivery"
	authUsecasePkg "triago-backend/internal/auth/usecase"
	messageDelivery "triago-backend/internal/message/delivery"
	messageUsecasePkg "triago-backend/internal/message/usecase"
	settingsDelivery "triago-backend/internal/settings/delivery"
	settingsUsecasePkg "triago-backend/internal/settings/usecase"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUsecase authUsecasePkg.AuthUsecase, messageUsecase messageUsecasePkg.MessageUsecase, settingsUsecase settingsUsecasePkg.SettingsUsecase) {
	authHandler := authDelivery.NewAuthHandler(authUsecase)
	messageHandler := messageDelivery.NewMessageHandler(messageUsecase)
	settingsHandler := settingsDelivery.NewSettingsHandler(settingsUsecase)

	startTime := time.Now()

	// Health check (no auth required)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"uptime":    time.Since(startTime).String(),
		})
	})

	// Auth routes
	auth := r.Group("/auth")
	{
		auth.GET("/google", authHandler.GoogleRedirect)
		auth.GET("/google/callback", authHandler.GoogleCallback)
		auth.GET("/me", authDelivery.AuthMiddleware(authUsecase), authHandler.Me)
		auth.PATCH("/me", authDelivery.AuthMiddleware(authUsecase), authHandler.UpdateProfile)
		auth.DELETE("/connections/:provider", authDelivery.AuthMiddleware(authUsecase), authHandler.Disconnect)
	}

	// Message routes (protected)
	messages := r.Group("/messages")
	messages.Use(authDelivery.AuthMiddleware(authUsecase))
	{
		messages.POST("/sync/gmail", messageHandler.SyncGmail)
		messages.GET("", messageHandler.List)
		messages.GET("/stats", messageHandler.Stats)
		messages.GET("/:id", messageHandler.GetByID)
		messages.PATCH("/:id/read", messageHandler.MarkRead)
		messages.POST("/:id/reply", messageHandler.Reply)
	}

	// Settings routes (protected)
	settings := r.Group("/settings")
	settings.Use(authDelivery.AuthMiddleware(authUsecase))
	{
		settings.GET("/auto-reply", settingsHandler.GetAutoReply)
		settings.PATCH("/auto-reply", settingsHandler.UpdateAutoReply)
		settings.POST("/auto-reply/toggle", settingsHandler.ToggleAutoReply)
		settings.GET("/connections", settingsHandler.Connections)
		settings.GET("/message-templates", settingsHandler.Templates)
	}
}
