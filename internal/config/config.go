package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

const (
	StoreDriverFile   = "file"
	StoreDriverSQLite = "sqlite"
)

type Config struct {
	CocEmail     string `env:"COC_EMAIL"`
	CocPassword  string `env:"COC_PASSWORD"`
	CocKeyName   string `env:"COC_KEY_NAME" envDefault:"clan-dashboard"`
	CocAPIURL    string `env:"COC_API_URL" envDefault:"https://api.clashofclans.com/v1"`
	CocPortalURL string `env:"COC_PORTAL_URL" envDefault:"https://developer.clashofclans.com/api"`

	AdminPassword string `env:"ADMIN_PASSWORD"`

	StoreDriver string `env:"STORE_DRIVER" envDefault:"file"`
	StorePath   string `env:"STORE_PATH" envDefault:"data/clans.json"`
	DBPath      string `env:"DB_PATH" envDefault:"data/clans.db"`

	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
}

// HasCredentials reports whether the developer portal login can be attempted.
func (c *Config) HasCredentials() bool {
	return c.CocEmail != "" && c.CocPassword != ""
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warn().Str("log_level", cfg.LogLevel).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if !cfg.HasCredentials() {
		logger.Warn().Msg("COC_EMAIL and COC_PASSWORD are not set, upstream fetches will fail")
	}
	if cfg.AdminPassword == "" {
		logger.Warn().Msg("ADMIN_PASSWORD is not set, admin writes are disabled")
	}

	logger.Info().
		Str("store_driver", cfg.StoreDriver).
		Str("store_path", cfg.StorePath).
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Msg("configuration loaded")

	return cfg, nil
}

// Parse reads the configuration from the process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.CocEmail == "" {
		cfg.CocEmail = getEnv("COC_API_EMAIL", "")
	}
	if cfg.CocPassword == "" {
		cfg.CocPassword = getEnv("COC_API_PASSWORD", "")
	}
	cfg.AdminPassword = strings.TrimSpace(cfg.AdminPassword)

	switch cfg.StoreDriver {
	case StoreDriverFile, StoreDriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)
