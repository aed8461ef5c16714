package database

import (
	"context"
	"fmt"

	"github.com/thereayou/echo-messenger/internal/models"
	"gorm.io/gorm"
)

// CreateUser сохраняет пользователя и в той же транзакции добавляет его в общую комнату
func (d *Database) CreateUser(ctx context.Context, user *models.User) error {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		err := tx.Model(&models.User{}).
			Where("username_lowercase = ?", models.LowercaseUsername(user.Username)).
			Count(&taken).Error
		if err != nil {
			return err
		}
		if taken > 0 {
			return ErrDuplicate
		}

		if err := tx.Create(user).Error; err != nil {
			return err
		}

		return tx.Create(&models.ConversationMember{
			ConversationID: models.GlobalConversationID,
			UserID:         user.ID,
			JoinedAt:       user.CreatedAt,
		}).Error
	})
	if err != nil {
		return fmt.Errorf("create user %q: %w", user.Username, translate(err))
	}
	return nil
}

func (d *Database) GetUser(ctx context.Context, id string) (*models.User, error) {
	user := models.User{}
	if err := d.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, translate(err))
	}
	return &user, nil
}

// FindUserByUsername ищет без учета регистра
func (d *Database) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user := models.User{}
	err := d.db.WithContext(ctx).
		Where("username_lowercase = ?", models.LowercaseUsername(username)).
		First(&user).Error
	if err != nil {
		return nil, fmt.Errorf("find user %q: %w", username, translate(err))
	}
	return &user, nil
}

// FindUsersByUsernames возвращает только найденных пользователей, отсутствующие не считаются ошибкой
func (d *Database) FindUsersByUsernames(ctx context.Context, usernames []string) ([]models.User, error) {
	lowered := make([]string, len(usernames))
	for i, name := range usernames {
		lowered[i] = models.LowercaseUsername(name)
	}

	var users []models.User
	if err := d.db.WithContext(ctx).Where("username_lowercase IN ?", lowered).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	return users, nil
}

func (d *Database) UpdateAvatar(ctx context.Context, id, emoji string) error {
	res := d.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("emoji", emoji)
	if res.Error != nil {
		return fmt.Errorf("update avatar %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update avatar %s: %w", id, ErrNotFound)
	}
	return nil
}
