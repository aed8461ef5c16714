package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/echo-messenger/internal/handlers/dto"
	"github.com/thereayou/echo-messenger/internal/middleware"
	"github.com/thereayou/echo-messenger/internal/models"
	"github.com/thereayou/echo-messenger/internal/services"
)

type AuthHandler struct {
	auth     *services.AuthService
	messages *services.MessageService
	log      *slog.Logger
}

func NewAuthHandler(auth *services.AuthService, messages *services.MessageService, log *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, messages: messages, log: log}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, err := h.auth.Signup(c.Request.Context(), services.SignupInput{
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.MessageResponse{Message: "User created successfully."})
}

// Login выдаёт JWT
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password."})
		return
	}

	session, err := h.auth.Login(c.Request.Context(), services.LoginInput{Username: req.Username, Password: req.Password})
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Message:   "Logged in successfully.",
		Token:     session.Token,
		ExpiresAt: dto.FormatTime(session.ExpiresAt),
	})
}

// Guest создает гостевой аккаунт и здоровается от его имени в общей комнате
func (h *AuthHandler) Guest(c *gin.Context) {
	account, err := h.auth.Guest(c.Request.Context())
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	_, err = h.messages.Post(c.Request.Context(), services.PostMessageInput{
		ConversationID: models.GlobalConversationID,
		AuthorID:       account.User.ID,
		Content:        services.RandomGreeting(account.User.Username),
	})
	if err != nil {
		// аккаунт уже создан, приветствие не критично
		h.log.Warn("Guest greeting failed", "user_id", account.User.ID, "error", err)
	}

	c.JSON(http.StatusCreated, dto.GuestResponse{
		ID:        account.User.ID,
		Username:  account.User.Username,
		Password:  account.Password,
		Token:     account.Token,
		ExpiresAt: dto.FormatTime(account.ExpiresAt),
	})
}

// Logout ставит токен в черный список до истечения
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), c.GetString(middleware.TokenKey)); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logged out successfully."})
}
