package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/echo-messenger/internal/handlers/dto"
	"github.com/thereayou/echo-messenger/internal/middleware"
	"github.com/thereayou/echo-messenger/internal/services"
)

type MessageHandler struct {
	messages *services.MessageService
	sync     *services.SyncService
}

func NewMessageHandler(messages *services.MessageService, sync *services.SyncService) *MessageHandler {
	return &MessageHandler{messages: messages, sync: sync}
}

// Post отправляет сообщение в беседу
func (h *MessageHandler) Post(c *gin.Context) {
	var req dto.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.messages.Post(c.Request.Context(), services.PostMessageInput{
		ConversationID: middleware.Conversation(c).ID,
		AuthorID:       middleware.UserID(c),
		Content:        req.Message,
	})
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.PostMessageResponse{
		Message:     "Message posted successfully.",
		SentMessage: dto.NewMessageOutput(*message),
	})
}

// NewMessages сообщения беседы строго после since
func (h *MessageHandler) NewMessages(c *gin.Context) {
	since, err := services.ParseSince(c.Query("since"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	messages, err := h.sync.NewMessages(c.Request.Context(), middleware.Conversation(c).ID, since)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewMessagesResponse{Messages: dto.NewMessageOutputs(messages)})
}
