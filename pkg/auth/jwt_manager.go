package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/thereayou/echo-messenger/internal/clock"
)

const issuer = "echo-messenger"

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrMissingHeader = errors.New("invalid Authorization header")
)

// Claims данные внутри токена. Subject содержит id пользователя.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// JWTManager выпускает и проверяет токены по тем же часам, что и сервисы
type JWTManager struct {
	secretKey     []byte
	tokenDuration time.Duration
	clock         clock.Clock
	parser        *jwt.Parser
}

func NewJWTManager(secret string, duration time.Duration, clk clock.Clock) *JWTManager {
	return &JWTManager{
		secretKey:     []byte(secret),
		tokenDuration: duration,
		clock:         clk,
		parser:        jwt.NewParser(jwt.WithoutClaimsValidation()),
	}
}

// Generate создаёт JWT для пользователя и возвращает момент истечения
func (m *JWTManager) Generate(userID, username string) (string, time.Time, error) {
	issuedAt := m.clock.Now()
	expiresAt := issuedAt.Add(m.tokenDuration)
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify парсит и проверяет JWT. Срок действия сверяется с часами менеджера.
func (m *JWTManager) Verify(accessToken string) (*Claims, error) {
	token, err := m.parser.ParseWithClaims(accessToken, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	if !claims.VerifyExpiresAt(m.clock.Now(), true) {
		return nil, fmt.Errorf("%w: token is expired", ErrInvalidToken)
	}
	return claims, nil
}

// Expiry возвращает время истечения токена
func (m *JWTManager) Expiry(accessToken string) (time.Time, error) {
	claims, err := m.Verify(accessToken)
	if err != nil {
		return time.Time{}, err
	}
	return claims.ExpiresAt.Time, nil
}

// ExtractTokenFromHeader извлекает токен из Authorization header
func ExtractTokenFromHeader(r *http.Request) (string, error) {
	hdr := r.Header.Get("Authorization")
	parts := strings.SplitN(hdr, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", ErrMissingHeader
	}
	return strings.TrimSpace(parts[1]), nil
}
