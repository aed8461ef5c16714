package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/echo-messenger/pkg/auth"
)

const (
	UserIDKey   = "userID"
	UsernameKey = "username"
	TokenKey    = "token"
)

// RevocationChecker черный список токенов
type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware проверяет JWT токен
func AuthMiddleware(jwtManager *auth.JWTManager, revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractTokenFromHeader(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "missing or invalid token"})
			return
		}

		// Проверяем, не в черном списке ли токен
		isRevoked, err := revoked.IsRevoked(c.Request.Context(), token)
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected error occurred."})
			return
		}
		if isRevoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "token is blacklisted"})
			return
		}

		claims, err := jwtManager.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid token"})
			return
		}

		c.Set(UserIDKey, claims.Subject)
		c.Set(UsernameKey, claims.Username)
		c.Set(TokenKey, token)
		c.Next()
	}
}

// UserID id пользователя, проставленный AuthMiddleware
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
