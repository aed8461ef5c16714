package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/thereayou/echo-messenger/internal/clock"
	"github.com/thereayou/echo-messenger/internal/database"
	"github.com/thereayou/echo-messenger/internal/models"
	"github.com/thereayou/echo-messenger/internal/moderation"
	"github.com/thereayou/echo-messenger/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

const guestAttempts = 5

type AuthService struct {
	users     UserStore
	moderator *moderation.Moderator
	jwt       *auth.JWTManager
	blacklist TokenBlacklist
	clock     clock.Clock
	log       *slog.Logger
}

func NewAuthService(users UserStore, moderator *moderation.Moderator, jwt *auth.JWTManager, blacklist TokenBlacklist, clk clock.Clock, log *slog.Logger) *AuthService {
	return &AuthService{users: users, moderator: moderator, jwt: jwt, blacklist: blacklist, clock: clk, log: log}
}

type SignupInput struct {
	Username        string `validate:"required,max=32"`
	Password        string `validate:"required,min=3,max=72"`
	ConfirmPassword string `validate:"eqfield=Password"`
}

type LoginInput struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// Session выданный токен
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// GuestAccount сгенерированные учетные данные гостя и его сессия
type GuestAccount struct {
	Password string
	Session
}

// Signup создает пользователя и добавляет его в общую комнату
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" {
		return nil, invalidRequest("Username cannot be empty.", nil)
	}
	if input.ConfirmPassword != input.Password {
		return nil, invalidRequest("Passwords do not match.", nil)
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	if err := s.moderator.CheckUsername(input.Username); err != nil {
		switch {
		case errors.Is(err, moderation.ErrProfane):
			return nil, invalidRequest("Username contains inappropriate language.", err)
		case errors.Is(err, moderation.ErrZalgo):
			return nil, invalidRequest("Username contains distorted text.", err)
		default:
			return nil, invalidRequest("Username cannot be empty.", err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, internalError(err)
	}

	user := &models.User{
		Username:     input.Username,
		PasswordHash: string(hash),
		CreatedAt:    s.clock.Now().UTC(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, newError(ErrConflict, "Username already exists.", err)
		}
		return nil, internalError(err)
	}

	s.log.Debug("User signed up", "user_id", user.ID)
	return user, nil
}

// Login проверяет пароль и выдает JWT. Имя ищется без учета регистра.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*Session, error) {
	if err := validateInput(input); err != nil {
		return nil, newError(ErrUnauthenticated, "Invalid username or password.", err)
	}

	user, err := s.users.FindUserByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, newError(ErrUnauthenticated, "Invalid username or password.", err)
		}
		return nil, internalError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, newError(ErrUnauthenticated, "Invalid username or password.", err)
	}

	token, expiresAt, err := s.jwt.Generate(user.ID, user.Username)
	if err != nil {
		return nil, internalError(err)
	}
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Logout ставит токен в черный список до его истечения
func (s *AuthService) Logout(ctx context.Context, token string) error {
	exp, err := s.jwt.Expiry(token)
	if err != nil {
		return newError(ErrUnauthenticated, "Invalid token.", err)
	}

	if err := s.blacklist.Revoke(ctx, token, exp.Sub(s.clock.Now())); err != nil {
		return internalError(err)
	}
	return nil
}

// IsRevoked проверка токена для middleware
func (s *AuthService) IsRevoked(ctx context.Context, token string) (bool, error) {
	return s.blacklist.IsRevoked(ctx, token)
}

// Guest регистрирует пользователя со случайным именем и паролем и сразу входит.
// При совпадении имени пробует еще раз.
func (s *AuthService) Guest(ctx context.Context) (*GuestAccount, error) {
	var lastErr error
	for range guestAttempts {
		password := RandomPassword()
		user, err := s.Signup(ctx, SignupInput{
			Username:        RandomUsername(),
			Password:        password,
			ConfirmPassword: password,
		})
		if err != nil {
			if errors.Is(err, ErrConflict) || errors.Is(err, ErrInvalidRequest) {
				lastErr = err
				continue
			}
			return nil, err
		}

		session, err := s.Login(ctx, LoginInput{Username: user.Username, Password: password})
		if err != nil {
			return nil, err
		}
		return &GuestAccount{Password: password, Session: *session}, nil
	}
	return nil, internalError(lastErr)
}
