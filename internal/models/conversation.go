package models

import (
	"encoding/hex"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/zeebo/blake3"
	"gorm.io/gorm"
)

// GlobalConversationID общая комната, в которой состоят все пользователи
const GlobalConversationID = "global"

type Conversation struct {
	ID        string `gorm:"primaryKey"`
	CreatorID *string
	// Отпечаток набора участников (см. MemberKey), у global пустой
	MemberKey string `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time `gorm:"autoUpdateTime:false;index"`

	// Связи
	Members  []User    `gorm:"many2many:conversation_members"`
	Messages []Message `gorm:"foreignKey:ConversationID"`
}

func (c *Conversation) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (c *Conversation) IsGlobal() bool {
	return c.ID == GlobalConversationID
}

func (c *Conversation) HasMember(userID string) bool {
	return lo.ContainsBy(c.Members, func(u User) bool { return u.ID == userID })
}

func (c *Conversation) MemberIDs() []string {
	return lo.Map(c.Members, func(u User, _ int) string { return u.ID })
}

// ConversationMember строка join-таблицы для Conversation.Members
type ConversationMember struct {
	ConversationID string `gorm:"primaryKey"`
	UserID         string `gorm:"primaryKey;index"`
	JoinedAt       time.Time
}

// SortedMemberIDs возвращает id без дублей по возрастанию
func SortedMemberIDs(ids []string) []string {
	out := lo.Uniq(ids)
	slices.Sort(out)
	return out
}

// MemberKey считает blake3-отпечаток набора участников.
// Порядок и дубли не влияют на результат.
func MemberKey(ids []string) string {
	h := blake3.New()
	for _, id := range SortedMemberIDs(ids) {
		_, _ = h.Write([]byte(id))
		_, _ = h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// SameMembers сравнивает наборы как отсортированные последовательности
func SameMembers(a, b []string) bool {
	return slices.Equal(SortedMemberIDs(a), SortedMemberIDs(b))
}
