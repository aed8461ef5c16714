// Package dbtest временные sqlite базы в памяти для тестов
package dbtest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/echo-messenger/internal/database"
)

// New отдельная мигрированная база на каждый тест, закрывается в Cleanup
func New(t testing.TB) *database.Database {
	t.Helper()

	name := strings.ReplaceAll(uuid.NewString(), "-", "")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)

	db, err := database.Open(sqlite.Open(dsn))
	require.NoError(t, err)
	require.NoError(t, db.SetMaxOpenConns(1))
	t.Cleanup(func() { _ = db.Close() })
	return db
}
