package delivery

import (
	"net/http"

	authdomain "triago-backend/internal/auth/domain"
	authdto "triago-backend/internal/auth/dto"
	"triago-backend/internal/auth/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthHandler handles auth-related HTTP requests
type AuthHandler struct {
	authUsecase usecase.AuthUsecase
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authUsecase usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase}
}

// GoogleRedirect starts the OAuth flow by redirecting to Google's consent
// screen. The state parameter is a throwaway nonce.
func (h *AuthHandler) GoogleRedirect(c *gin.Context) {
	state := uuid.New().String()
	c.Redirect(http.StatusTemporaryRedirect, h.authUsecase.GoogleAuthURL(state))
}

// GoogleCallback completes the OAuth flow.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if errMsg := c.Query("error"); errMsg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "google authorization denied", "message": errMsg})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing authorization code"})
		return
	}

	resp, err := h.authUsecase.HandleGoogleCallback(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to complete google sign-in"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Me(c *gin.Context) {
	resp, err := h.authUsecase.Me(c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req authdto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authUsecase.UpdateProfile(c.GetString("userID"), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *AuthHandler) Disconnect(c *gin.Context) {
	provider := authdomain.Provider(c.Param("provider"))
	if !provider.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown provider"})
		return
	}

	if err := h.authUsecase.Disconnect(c.GetString("userID"), provider); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to disconnect provider"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
