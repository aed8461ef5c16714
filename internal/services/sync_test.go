package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/thereayou/echo-messenger/internal/mocks"
	"github.com/thereayou/echo-messenger/internal/models"
	"go.uber.org/mock/gomock"
)

func TestParseSince(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    time.Time
		wantErr bool
	}{
		{name: "utc", raw: "2024-05-01T12:00:00Z", want: t0},
		{name: "fractional seconds", raw: "2024-05-01T12:00:00.123456Z", want: t0.Add(123456 * time.Microsecond)},
		{name: "offset", raw: "2024-05-01T14:00:00+02:00", want: t0},
		{name: "offset with plus decoded as space", raw: "2024-05-01T14:00:00 02:00", want: t0},
		{name: "missing", raw: "", wantErr: true},
		{name: "garbage", raw: "yesterday", wantErr: true},
		{name: "date only", raw: "2024-05-01", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSince(tt.raw)
			if tt.wantErr {
				requireKind(t, err, ErrInvalidRequest)
				return
			}
			require.NoError(t, err)
			require.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestSyncService(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	conversations := mocks.NewMockConversationStore(ctrl)
	messages := mocks.NewMockMessageStore(ctrl)
	svc := NewSyncService(conversations, messages)

	t.Run("should report updates from the store", func(t *testing.T) {
		req := require.New(t)
		conversations.EXPECT().HasUpdatesSince(ctx, "u-a", t0).Return(true, nil)

		updated, err := svc.HasUpdates(ctx, "u-a", t0)

		req.NoError(err)
		req.True(updated)
	})

	t.Run("should return new messages in store order", func(t *testing.T) {
		req := require.New(t)
		stored := []models.Message{
			{ID: "m1", CreatedAt: t0.Add(time.Microsecond)},
			{ID: "m2", CreatedAt: t0.Add(2 * time.Microsecond)},
		}
		messages.EXPECT().MessagesSince(ctx, "conv-1", t0).Return(stored, nil)

		got, err := svc.NewMessages(ctx, "conv-1", t0)

		req.NoError(err)
		req.Equal(stored, got)
	})

	t.Run("should hide store failures behind an internal error", func(t *testing.T) {
		conversations.EXPECT().HasUpdatesSince(ctx, "u-a", t0).Return(false, errors.New("connection reset"))

		_, err := svc.HasUpdates(ctx, "u-a", t0)

		requireKind(t, err, ErrInternal)
	})
}
