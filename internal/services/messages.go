package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/thereayou/echo-messenger/internal/clock"
	"github.com/thereayou/echo-messenger/internal/database"
	"github.com/thereayou/echo-messenger/internal/models"
	"github.com/thereayou/echo-messenger/internal/moderation"
)

// MaxMessageLength ограничение длины сообщения в символах
const MaxMessageLength = 4000

type MessageService struct {
	messages  MessageStore
	moderator *moderation.Moderator
	clock     clock.Clock
	log       *slog.Logger
}

func NewMessageService(messages MessageStore, moderator *moderation.Moderator, clk clock.Clock, log *slog.Logger) *MessageService {
	return &MessageService{messages: messages, moderator: moderator, clock: clk, log: log}
}

type PostMessageInput struct {
	ConversationID string `validate:"required"`
	AuthorID       string `validate:"required"`
	Content        string `validate:"max=4000"`
}

// Post сохраняет сообщение. Членство автора проверяется вызывающей стороной
// (Directory.CheckMembership), как и для остальных операций с беседой.
func (s *MessageService) Post(ctx context.Context, input PostMessageInput) (*models.Message, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, invalidRequest("Message content cannot be empty.", nil)
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	content, err := s.moderator.ModerateMessage(input.Content)
	if err != nil {
		if errors.Is(err, moderation.ErrZalgo) {
			return nil, invalidRequest("Message contains distorted text.", err)
		}
		return nil, invalidRequest("Message content cannot be empty.", err)
	}
	if content != input.Content {
		s.log.Debug("Message censored", "conversation_id", input.ConversationID, "author_id", input.AuthorID)
	}

	message := &models.Message{
		ConversationID: input.ConversationID,
		UserID:         input.AuthorID,
		Content:        content,
	}
	if err := s.messages.AppendMessage(ctx, message, s.clock.Now()); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, newError(ErrNotFound, "Conversation not found.", err)
		}
		return nil, internalError(err)
	}
	return message, nil
}
