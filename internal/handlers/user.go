package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/echo-messenger/internal/handlers/dto"
	"github.com/thereayou/echo-messenger/internal/middleware"
	"github.com/thereayou/echo-messenger/internal/services"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// GetMe возвращает текущего пользователя и его беседы
func (h *UserHandler) GetMe(c *gin.Context) {
	profile, err := h.users.Profile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewProfileResponse(profile.User, profile.Conversations))
}

func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	var req dto.AvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.users.UpdateAvatar(c.Request.Context(), middleware.UserID(c), req.Emoji); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Avatar updated successfully."})
}
