package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/thereayou/echo-messenger/internal/models"
	"github.com/thereayou/echo-messenger/internal/services"
)

const ConversationKey = "conversation"

// ConversationAccess пускает дальше только участников беседы :id.
// Проверенная беседа кладется в контекст.
func ConversationAccess(directory *services.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		conversation, err := directory.CheckMembership(c.Request.Context(), c.Param("id"), UserID(c))
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(ConversationKey, conversation)
		c.Next()
	}
}

// Conversation беседа, проверенная ConversationAccess
func Conversation(c *gin.Context) *models.Conversation {
	return c.MustGet(ConversationKey).(*models.Conversation)
}
