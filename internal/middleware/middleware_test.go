package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/echo-messenger/internal/clock"
	"github.com/thereayou/echo-messenger/internal/database"
	"github.com/thereayou/echo-messenger/internal/mocks"
	"github.com/thereayou/echo-messenger/internal/models"
	"github.com/thereayou/echo-messenger/internal/services"
	"github.com/thereayou/echo-messenger/pkg/auth"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestAuthMiddleware(t *testing.T) {
	mr := miniredis.RunT(t)
	blacklist := auth.NewBlacklist(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	jwt := auth.NewJWTManager("secret", time.Hour, clock.Real())

	r := gin.New()
	r.GET("/me", AuthMiddleware(jwt, blacklist), func(c *gin.Context) {
		c.String(http.StatusOK, "%s/%s", UserID(c), c.GetString(UsernameKey))
	})

	token, _, err := jwt.Generate("u-a", "alice")
	require.NoError(t, err)

	t.Run("should pass a valid token through", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/me", token)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "u-a/alice", w.Body.String())
	})

	t.Run("should reject a missing or invalid token", func(t *testing.T) {
		require.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/me", "").Code)
		require.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/me", "garbage").Code)
	})

	t.Run("should reject a revoked token", func(t *testing.T) {
		require.NoError(t, blacklist.Revoke(context.Background(), token, time.Minute))

		w := serve(r, http.MethodGet, "/me", token)

		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, "token is blacklisted", decodeError(t, w).Error)
	})
}

func TestAbortWithError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{err: services.ErrInvalidRequest, status: http.StatusBadRequest},
		{err: services.ErrUnauthenticated, status: http.StatusUnauthorized},
		{err: services.ErrForbidden, status: http.StatusForbidden},
		{err: services.ErrNotFound, status: http.StatusNotFound},
		{err: services.ErrConflict, status: http.StatusConflict},
		{err: fmt.Errorf("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			r := gin.New()
			r.GET("/", func(c *gin.Context) { AbortWithError(c, tt.err) })

			w := serve(r, http.MethodGet, "/", "")

			require.Equal(t, tt.status, w.Code)
		})
	}

	t.Run("should expose the message and missing names but hide internal causes", func(t *testing.T) {
		req := require.New(t)
		r := gin.New()
		r.GET("/missing", func(c *gin.Context) {
			AbortWithError(c, &services.Error{Kind: services.ErrNotFound, Message: "One or more users were not found.", NotFound: []string{"ghost"}})
		})
		r.GET("/internal", func(c *gin.Context) {
			AbortWithError(c, &services.Error{Kind: services.ErrInternal, Message: "internal error", Cause: fmt.Errorf("dial tcp: refused")})
		})

		resp := decodeError(t, serve(r, http.MethodGet, "/missing", ""))
		req.Equal("One or more users were not found.", resp.Error)
		req.Equal([]string{"ghost"}, resp.NotFound)

		resp = decodeError(t, serve(r, http.MethodGet, "/internal", ""))
		req.NotContains(resp.Error, "dial tcp")
	})
}

func TestConversationAccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	conversations := mocks.NewMockConversationStore(ctrl)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	directory := services.NewDirectory(mocks.NewMockUserStore(ctrl), conversations, clock.Real(), log)

	conversation := &models.Conversation{ID: "conv-1", Members: []models.User{{ID: "u-a"}}}
	conversations.EXPECT().GetConversation(gomock.Any(), "conv-1").Return(conversation, nil).AnyTimes()
	conversations.EXPECT().GetConversation(gomock.Any(), "conv-2").Return(nil, database.ErrNotFound).AnyTimes()

	newRouter := func(userID string) *gin.Engine {
		r := gin.New()
		r.Use(func(c *gin.Context) { c.Set(UserIDKey, userID) })
		r.GET("/conversation/:id", ConversationAccess(directory), func(c *gin.Context) {
			c.String(http.StatusOK, Conversation(c).ID)
		})
		return r
	}

	t.Run("should let a member through with the conversation in context", func(t *testing.T) {
		w := serve(newRouter("u-a"), http.MethodGet, "/conversation/conv-1", "")

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "conv-1", w.Body.String())
	})

	t.Run("should stop a non member", func(t *testing.T) {
		w := serve(newRouter("u-b"), http.MethodGet, "/conversation/conv-1", "")

		require.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("should stop an unknown conversation", func(t *testing.T) {
		w := serve(newRouter("u-a"), http.MethodGet, "/conversation/conv-2", "")

		require.Equal(t, http.StatusNotFound, w.Code)
		require.Equal(t, "Conversation not found.", decodeError(t, w).Error)
	})
}
