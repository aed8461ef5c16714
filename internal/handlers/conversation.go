package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/echo-messenger/internal/handlers/dto"
	"github.com/thereayou/echo-messenger/internal/middleware"
	"github.com/thereayou/echo-messenger/internal/services"
)

// ConversationHandler маршруты /conversation/:id проходят через
// middleware.ConversationAccess, поэтому членство здесь уже проверено
type ConversationHandler struct {
	directory *services.Directory
	sync      *services.SyncService
}

func NewConversationHandler(directory *services.Directory, sync *services.SyncService) *ConversationHandler {
	return &ConversationHandler{directory: directory, sync: sync}
}

// Create создает беседу или возвращает существующую с тем же составом
func (h *ConversationHandler) Create(c *gin.Context) {
	var req dto.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conversation, created, err := h.directory.Create(c.Request.Context(), services.CreateConversationInput{
		CreatorID: middleware.UserID(c),
		Usernames: req.Names(),
	})
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	if !created {
		c.JSON(http.StatusOK, dto.CreateConversationResponse{
			Message:        "Conversation with these members already exists.",
			ConversationID: conversation.ID,
		})
		return
	}
	c.JSON(http.StatusCreated, dto.CreateConversationResponse{
		Message:        "Conversation created successfully!",
		ConversationID: conversation.ID,
	})
}

// Get участники и история беседы
func (h *ConversationHandler) Get(c *gin.Context) {
	conversation, err := h.directory.Details(c.Request.Context(), middleware.Conversation(c).ID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewConversationResponse(conversation))
}

func (h *ConversationHandler) AddUser(c *gin.Context) {
	var req dto.AddUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.directory.AddMember(c.Request.Context(), middleware.Conversation(c), req.Name()); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "User added successfully."})
}

func (h *ConversationHandler) Leave(c *gin.Context) {
	deleted, err := h.directory.Leave(c.Request.Context(), middleware.Conversation(c), middleware.UserID(c))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	if deleted {
		c.JSON(http.StatusOK, dto.LeaveResponse{Message: "Conversation deleted as you were the last member.", Deleted: true})
		return
	}
	c.JSON(http.StatusOK, dto.LeaveResponse{Message: "You have successfully left the conversation."})
}

// HasUpdates есть ли в беседах пользователя активность после since
func (h *ConversationHandler) HasUpdates(c *gin.Context) {
	since, err := services.ParseSince(c.Query("since"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	updated, err := h.sync.HasUpdates(c.Request.Context(), middleware.UserID(c), since)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.HasUpdatesResponse{HasUpdates: updated})
}
