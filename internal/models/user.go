package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID                string `gorm:"primaryKey"`
	Username          string `gorm:"not null"`
	UsernameLowercase string `gorm:"uniqueIndex;not null"`
	PasswordHash      string `gorm:"not null"`
	Emoji             string
	CreatedAt         time.Time
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.UsernameLowercase = LowercaseUsername(u.Username)
	return nil
}

// LowercaseUsername ключ для поиска без учета регистра
func LowercaseUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
