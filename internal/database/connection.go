package database

import (
	"errors"
	"time"

	"github.com/thereayou/echo-messenger/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

func Connect(dsn string) (*Database, error) {
	if dsn == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	return Open(postgres.Open(dsn))
}

// Open подключается через любой диалект gorm, мигрирует схему и создает общую комнату
func Open(dialector gorm.Dialector) (*Database, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	d := NewDatabase(db)
	if err := d.migrate(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Database) migrate() error {
	err := d.db.SetupJoinTable(&models.Conversation{}, "Members", &models.ConversationMember{})
	if err != nil {
		return err
	}

	err = d.db.AutoMigrate(&models.User{}, &models.Conversation{}, &models.ConversationMember{}, &models.Message{})
	if err != nil {
		return err
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	global := models.Conversation{
		ID:        models.GlobalConversationID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return d.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&global).Error
}
