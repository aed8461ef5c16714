package database

import (
	"context"
	"fmt"
	"time"

	"github.com/thereayou/echo-messenger/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func membersByUsername(db *gorm.DB) *gorm.DB {
	return db.Order("username_lowercase ASC")
}

func messagesChronological(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC, id ASC")
}

// CreateConversation сохраняет беседу вместе с участниками
func (d *Database) CreateConversation(ctx context.Context, conversation *models.Conversation, memberIDs []string) error {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(conversation).Error; err != nil {
			return err
		}

		members := make([]models.ConversationMember, 0, len(memberIDs))
		for _, id := range models.SortedMemberIDs(memberIDs) {
			members = append(members, models.ConversationMember{
				ConversationID: conversation.ID,
				UserID:         id,
				JoinedAt:       conversation.CreatedAt,
			})
		}
		return tx.Create(&members).Error
	})
	if err != nil {
		return fmt.Errorf("create conversation: %w", translate(err))
	}
	return nil
}

// GetConversation загружает беседу со списком участников
func (d *Database) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	var conversation models.Conversation
	err := d.db.WithContext(ctx).
		Preload("Members", membersByUsername).
		First(&conversation, "id = ?", id).Error
	if err != nil {
		return nil, fmt.Errorf("get conversation %s: %w", id, translate(err))
	}
	return &conversation, nil
}

// GetConversationDetails участники и вся история сообщений по возрастанию времени
func (d *Database) GetConversationDetails(ctx context.Context, id string) (*models.Conversation, error) {
	var conversation models.Conversation
	err := d.db.WithContext(ctx).
		Preload("Members", membersByUsername).
		Preload("Messages", messagesChronological).
		Preload("Messages.User").
		First(&conversation, "id = ?", id).Error
	if err != nil {
		return nil, fmt.Errorf("get conversation details %s: %w", id, translate(err))
	}
	return &conversation, nil
}

// FindConversationsByMemberKey кандидаты для дедупликации, общая комната исключена
func (d *Database) FindConversationsByMemberKey(ctx context.Context, memberKey string) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := d.db.WithContext(ctx).
		Preload("Members", membersByUsername).
		Where("member_key = ? AND id <> ?", memberKey, models.GlobalConversationID).
		Order("created_at ASC").
		Find(&conversations).Error
	if err != nil {
		return nil, fmt.Errorf("find conversations by member key: %w", translate(err))
	}
	return conversations, nil
}

// ListUserConversations беседы пользователя кроме общей, свежие первыми
func (d *Database) ListUserConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := d.db.WithContext(ctx).
		Joins("JOIN conversation_members cm ON cm.conversation_id = conversations.id").
		Where("cm.user_id = ? AND conversations.id <> ?", userID, models.GlobalConversationID).
		Preload("Members", membersByUsername).
		Order("conversations.updated_at DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, fmt.Errorf("list conversations of %s: %w", userID, translate(err))
	}
	return conversations, nil
}

// AddMember добавляет участника, updated_at беседы не меняется
func (d *Database) AddMember(ctx context.Context, conversationID, userID string, joinedAt time.Time) error {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockConversation(tx, conversationID); err != nil {
			return err
		}

		err := tx.Create(&models.ConversationMember{
			ConversationID: conversationID,
			UserID:         userID,
			JoinedAt:       joinedAt,
		}).Error
		if err != nil {
			return err
		}
		return refreshMemberKey(tx, conversationID)
	})
	if err != nil {
		return fmt.Errorf("add %s to conversation %s: %w", userID, conversationID, translate(err))
	}
	return nil
}

// LeaveConversation убирает участника. Если он был последним, беседа удаляется
// вместе с сообщениями и deleted = true.
func (d *Database) LeaveConversation(ctx context.Context, conversationID, userID string) (bool, error) {
	deleted := false
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// без блокировки два последних участника, выходя одновременно,
		// видят друг друга и оставляют пустую беседу
		if err := lockConversation(tx, conversationID); err != nil {
			return err
		}

		res := tx.Delete(&models.ConversationMember{}, "conversation_id = ? AND user_id = ?", conversationID, userID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		var remaining int64
		err := tx.Model(&models.ConversationMember{}).
			Where("conversation_id = ?", conversationID).
			Count(&remaining).Error
		if err != nil {
			return err
		}

		if remaining == 0 && conversationID != models.GlobalConversationID {
			deleted = true
			return deleteConversation(tx, conversationID)
		}
		return refreshMemberKey(tx, conversationID)
	})
	if err != nil {
		return false, fmt.Errorf("leave conversation %s: %w", conversationID, translate(err))
	}
	return deleted, nil
}

// HasUpdatesSince есть ли беседа пользователя с updated_at строго позже since
func (d *Database) HasUpdatesSince(ctx context.Context, userID string, since time.Time) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).
		Model(&models.Conversation{}).
		Joins("JOIN conversation_members cm ON cm.conversation_id = conversations.id").
		Where("cm.user_id = ? AND conversations.updated_at > ?", userID, since.UTC()).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count updated conversations of %s: %w", userID, translate(err))
	}
	return count > 0, nil
}

// lockConversation блокирует строку беседы до конца транзакции. Отправка
// сообщений и изменения состава одной беседы выполняются по очереди.
// Пустой UPDATE вместо SELECT ... FOR UPDATE, потому что sqlite не знает FOR UPDATE.
func lockConversation(tx *gorm.DB, id string) error {
	res := tx.Model(&models.Conversation{}).
		Where("id = ?", id).
		UpdateColumn("updated_at", gorm.Expr("updated_at"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func deleteConversation(tx *gorm.DB, id string) error {
	if err := tx.Delete(&models.Message{}, "conversation_id = ?", id).Error; err != nil {
		return err
	}
	if err := tx.Delete(&models.ConversationMember{}, "conversation_id = ?", id).Error; err != nil {
		return err
	}

	res := tx.Delete(&models.Conversation{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// refreshMemberKey пересчитывает отпечаток состава после изменения участников
func refreshMemberKey(tx *gorm.DB, conversationID string) error {
	if conversationID == models.GlobalConversationID {
		return nil
	}

	var memberIDs []string
	err := tx.Model(&models.ConversationMember{}).
		Where("conversation_id = ?", conversationID).
		Pluck("user_id", &memberIDs).Error
	if err != nil {
		return err
	}

	return tx.Model(&models.Conversation{}).
		Where("id = ?", conversationID).
		UpdateColumn("member_key", models.MemberKey(memberIDs)).Error
}
