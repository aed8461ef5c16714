//go:generate go run go.uber.org/mock/mockgen -source=stores.go -destination=../mocks/mock_stores.go -package=mocks
package services

import (
	"context"
	"time"

	"github.com/thereayou/echo-messenger/internal/database"
	"github.com/thereayou/echo-messenger/internal/models"
)

// UserStore хранилище пользователей (реализует database.Database)
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUsersByUsernames(ctx context.Context, usernames []string) ([]models.User, error)
	UpdateAvatar(ctx context.Context, id, emoji string) error
}

type ConversationStore interface {
	CreateConversation(ctx context.Context, conversation *models.Conversation, memberIDs []string) error
	GetConversation(ctx context.Context, id string) (*models.Conversation, error)
	GetConversationDetails(ctx context.Context, id string) (*models.Conversation, error)
	FindConversationsByMemberKey(ctx context.Context, memberKey string) ([]models.Conversation, error)
	ListUserConversations(ctx context.Context, userID string) ([]models.Conversation, error)
	AddMember(ctx context.Context, conversationID, userID string, joinedAt time.Time) error
	LeaveConversation(ctx context.Context, conversationID, userID string) (bool, error)
	HasUpdatesSince(ctx context.Context, userID string, since time.Time) (bool, error)
}

type MessageStore interface {
	AppendMessage(ctx context.Context, message *models.Message, now time.Time) error
	MessagesSince(ctx context.Context, conversationID string, since time.Time) ([]models.Message, error)
}

// TokenBlacklist отозванные токены (реализует auth.Blacklist)
type TokenBlacklist interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

var (
	_ UserStore         = (*database.Database)(nil)
	_ ConversationStore = (*database.Database)(nil)
	_ MessageStore      = (*database.Database)(nil)
)
