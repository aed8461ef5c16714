package services

import (
	"context"
	"strings"
	"time"

	"github.com/thereayou/echo-messenger/internal/models"
)

// SyncService отвечает на опросы клиентов "что изменилось после since".
// Граница since исключается: клиент запоминает createdAt последнего
// обработанного сообщения и продолжает с него без пропусков и повторов.
type SyncService struct {
	conversations ConversationStore
	messages      MessageStore
}

func NewSyncService(conversations ConversationStore, messages MessageStore) *SyncService {
	return &SyncService{conversations: conversations, messages: messages}
}

// ParseSince разбирает метку RFC 3339 (дробные секунды допускаются)
func ParseSince(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, invalidRequest("A 'since' timestamp is required.", nil)
	}

	since, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		// "+" в смещении пояса приходит из query как пробел
		var retryErr error
		since, retryErr = time.Parse(time.RFC3339Nano, strings.ReplaceAll(raw, " ", "+"))
		if retryErr != nil {
			return time.Time{}, invalidRequest("A 'since' timestamp must be in RFC 3339 format.", err)
		}
	}
	return since, nil
}

// HasUpdates true, если хотя бы одна беседа пользователя обновлялась позже since
func (s *SyncService) HasUpdates(ctx context.Context, userID string, since time.Time) (bool, error) {
	updated, err := s.conversations.HasUpdatesSince(ctx, userID, since)
	if err != nil {
		return false, internalError(err)
	}
	return updated, nil
}

// NewMessages сообщения беседы после since по возрастанию времени.
// Членство проверяется до вызова.
func (s *SyncService) NewMessages(ctx context.Context, conversationID string, since time.Time) ([]models.Message, error) {
	messages, err := s.messages.MessagesSince(ctx, conversationID, since)
	if err != nil {
		return nil, internalError(err)
	}
	return messages, nil
}
