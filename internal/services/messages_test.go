package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/thereayou/echo-messenger/internal/database"
	"github.com/thereayou/echo-messenger/internal/mocks"
	"github.com/thereayou/echo-messenger/internal/models"
	"go.uber.org/mock/gomock"
)

func newTestMessageService(t *testing.T) (*MessageService, *mocks.MockMessageStore) {
	ctrl := gomock.NewController(t)
	messages := mocks.NewMockMessageStore(ctrl)
	return NewMessageService(messages, newTestModerator(t), newTestClock(), newTestLogger()), messages
}

func TestMessageService_Post(t *testing.T) {
	ctx := context.Background()

	t.Run("should store a clean message unchanged", func(t *testing.T) {
		req := require.New(t)
		svc, messages := newTestMessageService(t)
		messages.EXPECT().
			AppendMessage(ctx, gomock.Any(), t0).
			DoAndReturn(func(_ context.Context, m *models.Message, now time.Time) error {
				m.CreatedAt = now
				return nil
			})

		message, err := svc.Post(ctx, PostMessageInput{ConversationID: "conv-1", AuthorID: "u-a", Content: "hello  there"})

		req.NoError(err)
		req.Equal("hello  there", message.Content)
		req.Equal("conv-1", message.ConversationID)
		req.Equal("u-a", message.UserID)
		req.Equal(t0, message.CreatedAt)
	})

	t.Run("should censor profane words", func(t *testing.T) {
		req := require.New(t)
		svc, messages := newTestMessageService(t)
		messages.EXPECT().AppendMessage(ctx, gomock.Any(), t0).Return(nil)

		message, err := svc.Post(ctx, PostMessageInput{ConversationID: "conv-1", AuthorID: "u-a", Content: "what the FuCk"})

		req.NoError(err)
		req.Equal("what the ****", message.Content)
	})

	tests := []struct {
		name    string
		content string
		message string
	}{
		{name: "empty", content: "", message: "Message content cannot be empty."},
		{name: "whitespace only", content: " \n\t ", message: "Message content cannot be empty."},
		{name: "zalgo", content: "he\u0301\u0302\u0303llo", message: "Message contains distorted text."},
		{name: "too long", content: strings.Repeat("a", MaxMessageLength+1)},
	}

	for _, tt := range tests {
		t.Run("should reject "+tt.name+" content", func(t *testing.T) {
			svc, messages := newTestMessageService(t)
			messages.EXPECT().AppendMessage(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

			_, err := svc.Post(ctx, PostMessageInput{ConversationID: "conv-1", AuthorID: "u-a", Content: tt.content})

			svcErr := requireKind(t, err, ErrInvalidRequest)
			if tt.message != "" {
				require.Equal(t, tt.message, svcErr.Message)
			}
		})
	}

	t.Run("should report a conversation deleted in the meantime", func(t *testing.T) {
		svc, messages := newTestMessageService(t)
		messages.EXPECT().AppendMessage(ctx, gomock.Any(), t0).Return(database.ErrNotFound)

		_, err := svc.Post(ctx, PostMessageInput{ConversationID: "conv-1", AuthorID: "u-a", Content: "hi"})

		requireKind(t, err, ErrNotFound)
	})
}
