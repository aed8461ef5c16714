package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/samber/lo"
	"github.com/thereayou/echo-messenger/internal/clock"
	"github.com/thereayou/echo-messenger/internal/database"
	"github.com/thereayou/echo-messenger/internal/models"
)

// Directory владеет беседами и их участниками
type Directory struct {
	users         UserStore
	conversations ConversationStore
	clock         clock.Clock
	log           *slog.Logger
}

func NewDirectory(users UserStore, conversations ConversationStore, clk clock.Clock, log *slog.Logger) *Directory {
	return &Directory{users: users, conversations: conversations, clock: clk, log: log}
}

type CreateConversationInput struct {
	CreatorID string   `validate:"required"`
	Usernames []string `validate:"dive,required,max=64"`
}

// Create находит беседу с точно таким же составом или создает новую.
// created = false, если вернулась существующая беседа.
//
// Поиск и создание не атомарны: два параллельных запроса с одинаковым
// составом могут создать две беседы.
func (d *Directory) Create(ctx context.Context, input CreateConversationInput) (*models.Conversation, bool, error) {
	input.Usernames = lo.Map(input.Usernames, func(name string, _ int) string { return strings.TrimSpace(name) })
	if len(input.Usernames) == 0 {
		return nil, false, invalidRequest("Usernames are required to start a conversation.", nil)
	}
	if err := validateInput(input); err != nil {
		return nil, false, err
	}

	creator, err := d.users.GetUser(ctx, input.CreatorID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, false, newError(ErrUnauthenticated, "Unknown user.", err)
		}
		return nil, false, internalError(err)
	}

	names := lo.UniqBy(append([]string{creator.Username}, input.Usernames...), models.LowercaseUsername)
	if len(names) < 2 {
		return nil, false, invalidRequest("You cannot create a conversation with only yourself.", nil)
	}

	found, err := d.users.FindUsersByUsernames(ctx, names)
	if err != nil {
		return nil, false, internalError(err)
	}
	foundNames := lo.Map(found, func(u models.User, _ int) string { return u.UsernameLowercase })
	missing := lo.Reject(names, func(name string, _ int) bool {
		return lo.Contains(foundNames, models.LowercaseUsername(name))
	})
	if len(missing) > 0 {
		return nil, false, &Error{Kind: ErrNotFound, Message: "One or more users were not found.", NotFound: missing}
	}

	memberIDs := models.SortedMemberIDs(lo.Map(found, func(u models.User, _ int) string { return u.ID }))
	memberKey := models.MemberKey(memberIDs)

	candidates, err := d.conversations.FindConversationsByMemberKey(ctx, memberKey)
	if err != nil {
		return nil, false, internalError(err)
	}
	existing, ok := lo.Find(candidates, func(c models.Conversation) bool {
		return models.SameMembers(c.MemberIDs(), memberIDs)
	})
	if ok {
		return &existing, false, nil
	}

	now := d.clock.Now().UTC().Truncate(database.StorePrecision)
	conversation := &models.Conversation{
		CreatorID: &creator.ID,
		MemberKey: memberKey,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := d.conversations.CreateConversation(ctx, conversation, memberIDs); err != nil {
		return nil, false, internalError(err)
	}

	d.log.Debug("Conversation created", "conversation_id", conversation.ID, "members", len(memberIDs))
	return conversation, true, nil
}

// CheckMembership возвращает беседу с участниками, если userID в ней состоит
func (d *Directory) CheckMembership(ctx context.Context, conversationID, userID string) (*models.Conversation, error) {
	if conversationID == "" {
		return nil, invalidRequest("Conversation ID is required.", nil)
	}

	conversation, err := d.conversations.GetConversation(ctx, conversationID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, newError(ErrNotFound, "Conversation not found.", err)
		}
		return nil, internalError(err)
	}

	if !conversation.HasMember(userID) {
		return nil, newError(ErrForbidden, "You are not authorized to access this conversation.", nil)
	}
	return conversation, nil
}

// AddMember добавляет пользователя в беседу, уже прошедшую CheckMembership
func (d *Directory) AddMember(ctx context.Context, conversation *models.Conversation, username string) error {
	if strings.TrimSpace(username) == "" {
		return invalidRequest("Username of user to add is required.", nil)
	}

	user, err := d.users.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return &Error{Kind: ErrNotFound, Message: "User not found.", NotFound: []string{username}, Cause: err}
		}
		return internalError(err)
	}

	if conversation.HasMember(user.ID) {
		return newError(ErrConflict, "User is already in the conversation.", nil)
	}

	err = d.conversations.AddMember(ctx, conversation.ID, user.ID, d.clock.Now().UTC())
	switch {
	case errors.Is(err, database.ErrDuplicate):
		return newError(ErrConflict, "User is already in the conversation.", err)
	case err != nil:
		return internalError(err)
	}
	return nil
}

// Leave выводит пользователя из беседы. Последний участник удаляет беседу.
func (d *Directory) Leave(ctx context.Context, conversation *models.Conversation, userID string) (bool, error) {
	if conversation.IsGlobal() {
		return false, newError(ErrForbidden, "You cannot leave the global chat.", nil)
	}

	deleted, err := d.conversations.LeaveConversation(ctx, conversation.ID, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return false, newError(ErrNotFound, "Conversation not found.", err)
		}
		return false, internalError(err)
	}

	if deleted {
		d.log.Debug("Conversation deleted after last member left", "conversation_id", conversation.ID)
	}
	return deleted, nil
}

// Details участники и вся история беседы
func (d *Directory) Details(ctx context.Context, conversationID string) (*models.Conversation, error) {
	conversation, err := d.conversations.GetConversationDetails(ctx, conversationID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, newError(ErrNotFound, "Conversation not found.", err)
		}
		return nil, internalError(err)
	}
	return conversation, nil
}

// ListForUser беседы пользователя без общей комнаты
func (d *Directory) ListForUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	conversations, err := d.conversations.ListUserConversations(ctx, userID)
	if err != nil {
		return nil, internalError(err)
	}
	return conversations, nil
}
