package server

import (
	"fmt"
	"log/slog"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL     string        `env:"DATABASE_URL,required=true"`
	DBMaxOpenConns  int           `env:"DB_MAX_OPEN_CONNS,default=10"`
	RedisURL        string        `env:"REDIS_URL,required=true"`
	JWTSecret       string        `env:"JWT_SECRET,required=true"`
	TokenDuration   time.Duration `env:"TOKEN_DURATION,default=24h"`
	Host            string        `env:"HOST"`
	Port            int           `env:"PORT,default=8080"`
	LogLevel        string        `env:"LOG_LEVEL,default=INFO"`
	GinMode         string        `env:"GIN_MODE,default=release"`
	BlocklistPath   string        `env:"BLOCKLIST_PATH"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
}

func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadConfig читает .env.local, затем .env, затем окружение.
// Уже заданные переменные окружения не перезаписываются.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			slog.Debug(".env not found, using environment variables")
		}
	}

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	return cfg, nil
}
