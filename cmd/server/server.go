package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/thereayou/echo-messenger/internal/clock"
	"github.com/thereayou/echo-messenger/internal/database"
	"github.com/thereayou/echo-messenger/internal/handlers"
	"github.com/thereayou/echo-messenger/internal/middleware"
	"github.com/thereayou/echo-messenger/internal/moderation"
	"github.com/thereayou/echo-messenger/internal/services"
	"github.com/thereayou/echo-messenger/pkg/auth"
)

type Server struct {
	Router     *gin.Engine
	DB         *database.Database
	Redis      *redis.Client
	JWTManager *auth.JWTManager
	cfg        Config
	log        *slog.Logger
}

// Connect открывает Postgres и Redis по конфигу
func Connect(ctx context.Context, cfg Config) (*database.Database, *redis.Client, error) {
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres connect failed: %w", err)
	}
	if err := db.SetMaxOpenConns(cfg.DBMaxOpenConns); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis connect failed: %w", err)
	}
	return db, rdb, nil
}

// New собирает сервисы, обработчики и маршруты поверх открытых хранилищ
func New(cfg Config, db *database.Database, rdb *redis.Client, clk clock.Clock, log *slog.Logger) (*Server, error) {
	words := moderation.DefaultBlocklist()
	if cfg.BlocklistPath != "" {
		var err error
		if words, err = moderation.LoadBlocklist(cfg.BlocklistPath); err != nil {
			return nil, fmt.Errorf("load blocklist: %w", err)
		}
	}
	moderator, err := moderation.NewModerator(words, '*')
	if err != nil {
		return nil, err
	}

	jwtMgr := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration, clk)
	blacklist := auth.NewBlacklist(rdb)

	authSvc := services.NewAuthService(db, moderator, jwtMgr, blacklist, clk, log)
	userSvc := services.NewUserService(db, db, moderator, log)
	directory := services.NewDirectory(db, db, clk, log)
	messageSvc := services.NewMessageService(db, moderator, clk, log)
	syncSvc := services.NewSyncService(db, db)

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log))

	s := &Server{
		Router:     router,
		DB:         db,
		Redis:      rdb,
		JWTManager: jwtMgr,
		cfg:        cfg,
		log:        log,
	}

	router.GET("/health", s.health)
	APIEndpoints(router, Handlers{
		Auth:         handlers.NewAuthHandler(authSvc, messageSvc, log),
		User:         handlers.NewUserHandler(userSvc),
		Conversation: handlers.NewConversationHandler(directory, syncSvc),
		Message:      handlers.NewMessageHandler(messageSvc, syncSvc),
	}, middleware.AuthMiddleware(jwtMgr, blacklist), middleware.ConversationAccess(directory))

	return s, nil
}

// Run обслуживает HTTP до отмены ctx, затем корректно завершает запросы
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.Address(), Handler: s.Router}

	errChan := make(chan error, 1)
	go func() {
		s.log.Info("Server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server run error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) health(c *gin.Context) {
	ctx := c.Request.Context()
	if err := s.DB.Ping(ctx); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unavailable"})
		return
	}
	if err := s.Redis.Ping(ctx).Err(); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "redis unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
