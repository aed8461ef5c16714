package server

import (
	"github.com/gin-gonic/gin"
	"github.com/thereayou/echo-messenger/internal/handlers"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	User         *handlers.UserHandler
	Conversation *handlers.ConversationHandler
	Message      *handlers.MessageHandler
}

func APIEndpoints(r *gin.Engine, h Handlers, authMW, conversationMW gin.HandlerFunc) {
	api := r.Group("/api")

	// Auth endpoints
	api.POST("/signup", h.Auth.Signup)
	api.POST("/login", h.Auth.Login)
	api.POST("/guest", h.Auth.Guest)

	protected := api.Group("", authMW)
	{
		protected.POST("/logout", h.Auth.Logout)
		protected.GET("/user", h.User.GetMe)
		protected.POST("/user-avatar", h.User.UpdateAvatar)

		protected.POST("/conversation", h.Conversation.Create)
		protected.GET("/conversations/updates", h.Conversation.HasUpdates)
	}

	// Только для участников беседы :id
	conversation := protected.Group("/conversation/:id", conversationMW)
	{
		conversation.GET("", h.Conversation.Get)
		conversation.POST("/users", h.Conversation.AddUser)
		conversation.POST("/leave", h.Conversation.Leave)
		conversation.POST("/messages", h.Message.Post)
		conversation.GET("/messages/new", h.Message.NewMessages)
	}
}
