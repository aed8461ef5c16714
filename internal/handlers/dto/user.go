package dto

import "github.com/thereayou/echo-messenger/internal/models"

type AvatarRequest struct {
	Emoji string `json:"emoji" binding:"max=64"`
}

// Member публичные поля пользователя
type Member struct {
	Username string `json:"username"`
	Emoji    string `json:"emoji"`
}

type ProfileResponse struct {
	ID            string                `json:"id"`
	Username      string                `json:"username"`
	Emoji         string                `json:"emoji"`
	Conversations []ConversationSummary `json:"conversations"`
}

type ConversationSummary struct {
	ID        string   `json:"id"`
	Members   []Member `json:"members"`
	UpdatedAt string   `json:"updatedAt"`
}

func NewMember(u models.User) Member {
	return Member{Username: u.Username, Emoji: u.Emoji}
}

func NewProfileResponse(user *models.User, conversations []models.Conversation) ProfileResponse {
	summaries := make([]ConversationSummary, len(conversations))
	for i, c := range conversations {
		summaries[i] = ConversationSummary{
			ID:        c.ID,
			Members:   newMembers(c.Members),
			UpdatedAt: FormatTime(c.UpdatedAt),
		}
	}
	return ProfileResponse{ID: user.ID, Username: user.Username, Emoji: user.Emoji, Conversations: summaries}
}

func newMembers(users []models.User) []Member {
	members := make([]Member, len(users))
	for i, u := range users {
		members[i] = NewMember(u)
	}
	return members
}
