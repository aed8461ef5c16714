package services

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/echo-messenger/internal/clock"
	"github.com/thereayou/echo-messenger/internal/models"
	"github.com/thereayou/echo-messenger/internal/moderation"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestLogger() *slog.Logger {
	return logs.GetLoggerFromLevel(slog.LevelDebug)
}

func newTestModerator(t *testing.T) *moderation.Moderator {
	t.Helper()
	m, err := moderation.NewModerator(moderation.DefaultBlocklist(), '*')
	require.NoError(t, err)
	return m
}

func newTestClock() *clock.Fake {
	return clock.NewFake(t0)
}

func user(id, username string) models.User {
	return models.User{ID: id, Username: username, UsernameLowercase: models.LowercaseUsername(username)}
}

// requireKind проверяет вид ошибки сервиса и возвращает её
func requireKind(t *testing.T, err error, kind error) *Error {
	t.Helper()
	require.ErrorIs(t, err, kind)
	var svcErr *Error
	require.True(t, errors.As(err, &svcErr))
	return svcErr
}
