package api

import (
	authUsecase "triago-backend/internal/auth/usecase"
	messageUsecase "triago-backend/internal/message/usecase"
	settingsUsecase "triago-backend/internal/settings/usecase"
	"triago-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase     authUsecase.AuthUsecase
	messageUsecase  messageUsecase.MessageUsecase
	settingsUsecase settingsUsecase.SettingsUsecase
	config          *config.Config
}

func NewHandler(authUc authUsecase.AuthUsecase, messageUc messageUsecase.MessageUsecase, settingsUc settingsUsecase.SettingsUsecase, cfg *config.Config) *Handler {
	return &Handler{
		authUsecase:     authUc,
		messageUsecase:  messageUc,
		settingsUsecase: settingsUc,
		config:          cfg,
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.authUsecase, h.messageUsecase, h.settingsUsecase)

	return r.Run(addr)
}
