package database

import (
	"context"
	"fmt"
	"time"

	"github.com/thereayou/echo-messenger/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StorePrecision точность времени в хранилище (timestamp в Postgres)
const StorePrecision = time.Microsecond

// AppendMessage сохраняет сообщение и в той же транзакции сдвигает updated_at беседы
// на created_at сообщения. created_at строго растет внутри беседы: если часы не
// ушли вперед относительно последнего события, берется updated_at + 1µs.
func (d *Database) AppendMessage(ctx context.Context, message *models.Message, now time.Time) error {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockConversation(tx, message.ConversationID); err != nil {
			return err
		}

		var conversation models.Conversation
		err := tx.Select("id", "updated_at").Take(&conversation, "id = ?", message.ConversationID).Error
		if err != nil {
			return err
		}

		createdAt := now.UTC().Truncate(StorePrecision)
		if !createdAt.After(conversation.UpdatedAt) {
			createdAt = conversation.UpdatedAt.UTC().Add(StorePrecision)
		}
		message.CreatedAt = createdAt

		if err := tx.Omit(clause.Associations).Create(message).Error; err != nil {
			return err
		}

		err = tx.Model(&models.Conversation{}).
			Where("id = ?", message.ConversationID).
			UpdateColumn("updated_at", createdAt).Error
		if err != nil {
			return err
		}

		return tx.Preload("User").Take(message, "id = ?", message.ID).Error
	})
	if err != nil {
		return fmt.Errorf("append message to %s: %w", message.ConversationID, translate(err))
	}
	return nil
}

// MessagesSince сообщения беседы с created_at строго позже since, по возрастанию
func (d *Database) MessagesSince(ctx context.Context, conversationID string, since time.Time) ([]models.Message, error) {
	var messages []models.Message
	err := d.db.WithContext(ctx).
		Where("conversation_id = ? AND created_at > ?", conversationID, since.UTC()).
		Scopes(messagesChronological).
		Preload("User").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("messages of %s since %s: %w", conversationID, since, translate(err))
	}
	return messages, nil
}
