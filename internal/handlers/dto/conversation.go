package dto

import "github.com/thereayou/echo-messenger/internal/models"

// CreateConversationRequest usernames старое имя поля, принимается наравне с targetUsernames
type CreateConversationRequest struct {
	TargetUsernames []string `json:"targetUsernames" binding:"max=100"`
	Usernames       []string `json:"usernames,omitempty" binding:"max=100"`
}

func (r CreateConversationRequest) Names() []string {
	return append(append([]string{}, r.TargetUsernames...), r.Usernames...)
}

type CreateConversationResponse struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId"`
}

// AddUserRequest addUsername старое имя поля
type AddUserRequest struct {
	UsernameToAdd string `json:"usernameToAdd" binding:"max=64"`
	AddUsername   string `json:"addUsername,omitempty" binding:"max=64"`
}

func (r AddUserRequest) Name() string {
	if r.UsernameToAdd != "" {
		return r.UsernameToAdd
	}
	return r.AddUsername
}

type LeaveResponse struct {
	Message string `json:"message"`
	Deleted bool   `json:"deleted"`
}

type ConversationResponse struct {
	ID        string          `json:"id"`
	Members   []Member        `json:"members"`
	Messages  []MessageOutput `json:"messages"`
	UpdatedAt string          `json:"updatedAt"`
}

type HasUpdatesResponse struct {
	HasUpdates bool `json:"hasUpdates"`
}

func NewConversationResponse(c *models.Conversation) ConversationResponse {
	return ConversationResponse{
		ID:        c.ID,
		Members:   newMembers(c.Members),
		Messages:  NewMessageOutputs(c.Messages),
		UpdatedAt: FormatTime(c.UpdatedAt),
	}
}
