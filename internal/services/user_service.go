package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/thereayou/echo-messenger/internal/database"
	"github.com/thereayou/echo-messenger/internal/models"
	"github.com/thereayou/echo-messenger/internal/moderation"
)

type UserService struct {
	users         UserStore
	conversations ConversationStore
	moderator     *moderation.Moderator
	log           *slog.Logger
}

func NewUserService(users UserStore, conversations ConversationStore, moderator *moderation.Moderator, log *slog.Logger) *UserService {
	return &UserService{users: users, conversations: conversations, moderator: moderator, log: log}
}

// Profile пользователь и его беседы, сначала самые свежие
type Profile struct {
	User          *models.User
	Conversations []models.Conversation
}

func (s *UserService) Profile(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, newError(ErrUnauthenticated, "Unknown user.", err)
		}
		return nil, internalError(err)
	}

	conversations, err := s.conversations.ListUserConversations(ctx, userID)
	if err != nil {
		return nil, internalError(err)
	}
	return &Profile{User: user, Conversations: conversations}, nil
}

// UpdateAvatar аватар должен быть ровно одним эмодзи
func (s *UserService) UpdateAvatar(ctx context.Context, userID, emoji string) error {
	if emoji == "" {
		return invalidRequest("Emoji is required.", nil)
	}

	if err := s.moderator.CheckAvatar(emoji); err != nil {
		switch {
		case errors.Is(err, moderation.ErrZalgo):
			return invalidRequest("Emoji contains distorted text.", err)
		case errors.Is(err, moderation.ErrProfane):
			return invalidRequest("Avatar contains inappropriate language.", err)
		default:
			return invalidRequest("Avatar must be a single emoji.", err)
		}
	}

	if err := s.users.UpdateAvatar(ctx, userID, emoji); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return newError(ErrUnauthenticated, "Unknown user.", err)
		}
		return internalError(err)
	}

	s.log.Debug("Avatar updated", "user_id", userID)
	return nil
}
