package delivery

import (
	"errors"
	"net/http"

	settingsdomain "triago-backend/internal/settings/domain"
	settingsdto "triago-backend/internal/settings/dto"
	"triago-backend/internal/settings/usecase"

	"github.com/gin-gonic/gin"
)

// SettingsHandler handles settings-related HTTP requests
type SettingsHandler struct {
	settingsUsecase usecase.SettingsUsecase
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsUsecase usecase.SettingsUsecase) *SettingsHandler {
	return &SettingsHandler{settingsUsecase: settingsUsecase}
}

func (h *SettingsHandler) GetAutoReply(c *gin.Context) {
	resp, err := h.settingsUsecase.GetAutoReply(c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load auto-reply settings"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SettingsHandler) UpdateAutoReply(c *gin.Context) {
	var req settingsdto.UpdateAutoReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.settingsUsecase.UpdateAutoReply(c.GetString("userID"), &req)
	if err != nil {
		if errors.Is(err, settingsdomain.ErrInvalidSchedule) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid schedule, expected HH:MM with startTime before endTime"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update auto-reply settings"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SettingsHandler) ToggleAutoReply(c *gin.Context) {
	resp, err := h.settingsUsecase.ToggleAutoReply(c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to toggle auto-reply"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SettingsHandler) Connections(c *gin.Context) {
	resp, err := h.settingsUsecase.Connections(c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load connections"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SettingsHandler) Templates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"templates": h.settingsUsecase.Templates()})
}
