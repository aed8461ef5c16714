package dto

import (
	"time"

	"github.com/thereayou/echo-messenger/internal/models"
)

type PostMessageRequest struct {
	Message string `json:"message" binding:"max=16000"`
}

// MessageOutput сообщение в ответах. createdAt подходит как since для следующего опроса.
type MessageOutput struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversationId"`
	Content        string `json:"content"`
	CreatedAt      string `json:"createdAt"`
	User           Member `json:"user"`
}

type PostMessageResponse struct {
	Message     string        `json:"message"`
	SentMessage MessageOutput `json:"sentMessage"`
}

type NewMessagesResponse struct {
	Messages []MessageOutput `json:"messages"`
}

// FormatTime RFC 3339 в UTC с дробной частью
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func NewMessageOutput(m models.Message) MessageOutput {
	return MessageOutput{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Content:        m.Content,
		CreatedAt:      FormatTime(m.CreatedAt),
		User:           NewMember(m.User),
	}
}

func NewMessageOutputs(messages []models.Message) []MessageOutput {
	out := make([]MessageOutput, len(messages))
	for i, m := range messages {
		out[i] = NewMessageOutput(m)
	}
	return out
}
