package delivery

import (
	"errors"
	"net/http"

	authdomain "triago-backend/internal/auth/domain"
	messagedomain "triago-backend/internal/message/domain"
	messagedto "triago-backend/internal/message/dto"
	"triago-backend/internal/message/usecase"

	"github.com/gin-gonic/gin"
)

// MessageHandler handles message-related HTTP requests
type MessageHandler struct {
	messageUsecase usecase.MessageUsecase
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messageUsecase usecase.MessageUsecase) *MessageHandler {
	return &MessageHandler{messageUsecase: messageUsecase}
}

// SyncGmail triggers one synchronization pass against the user's Gmail
// connection and returns only the messages created by this pass.
func (h *MessageHandler) SyncGmail(c *gin.Context) {
	processed, err := h.messageUsecase.SyncMessages(c.Request.Context(), c.GetString("userID"), authdomain.ProviderGmail)
	if err != nil {
		switch {
		case errors.Is(err, messagedomain.ErrConnectionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "gmail connection not found"})
		case errors.Is(err, messagedomain.ErrCredentialExpired):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "gmail credentials expired, reconnect your account"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sync messages"})
		}
		return
	}

	c.JSON(http.StatusOK, messagedto.SyncResponse{
		Success:  true,
		Count:    len(processed),
		Messages: processed,
	})
}

func (h *MessageHandler) List(c *gin.Context) {
	var query messagedto.ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.messageUsecase.List(c.GetString("userID"), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list messages"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetByID returns the full message and marks it read as a side effect.
func (h *MessageHandler) GetByID(c *gin.Context) {
	detail, err := h.messageUsecase.GetAndMarkRead(c.GetString("userID"), c.Param("id"))
	if err != nil {
		if errors.Is(err, messagedomain.ErrMessageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load message"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	if err := h.messageUsecase.MarkAsRead(c.GetString("userID"), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark message as read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *MessageHandler) Reply(c *gin.Context) {
	var req messagedto.ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.messageUsecase.SendReply(c.Request.Context(), c.GetString("userID"), c.Param("id"), req.Content)
	if err != nil {
		switch {
		case errors.Is(err, messagedomain.ErrMessageNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
		case errors.Is(err, messagedomain.ErrConnectionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "provider connection not found"})
		case errors.Is(err, messagedomain.ErrCredentialExpired):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "provider credentials expired, reconnect your account"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send reply"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "reply sent"})
}

func (h *MessageHandler) Stats(c *gin.Context) {
	stats, err := h.messageUsecase.Stats(c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
