package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	DatabaseURL     string        `mapstructure:"database_url"`
	LogLevel        string        `mapstructure:"log_level"`
	Migrations      bool          `mapstructure:"migrations"`
	ImportTimeout   time.Duration `mapstructure:"import_timeout"`
	ImportRate      float64       `mapstructure:"import_rate"`
	ImportUserAgent string        `mapstructure:"import_user_agent"`
	MediaDir        string        `mapstructure:"media_dir"`
	ShareDir        string        `mapstructure:"share_dir"`
	PhotoMaxEdge    int           `mapstructure:"photo_max_edge"`
	TelegramToken   string        `mapstructure:"telegram_token"`
	TelegramChatID  int64         `mapstructure:"telegram_chat_id"`
}

// TelegramEnabled reports whether the Telegram share target is configured.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

// Load reads a .env file when present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.AutomaticEnv()
	for _, key := range []string{
		"database_url",
		"log_level",
		"migrations",
		"import_timeout",
		"import_rate",
		"import_user_agent",
		"media_dir",
		"share_dir",
		"photo_max_edge",
		"telegram_token",
		"telegram_chat_id",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database_url", "recipebox.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("migrations", true)
	v.SetDefault("import_timeout", "15s")
	v.SetDefault("import_rate", 1.0)
	v.SetDefault("import_user_agent", "")
	v.SetDefault("media_dir", "media")
	v.SetDefault("share_dir", "shared")
	v.SetDefault("photo_max_edge", 1280)
	v.SetDefault("telegram_token", "")
	v.SetDefault("telegram_chat_id", 0)
}

func validate(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.ImportTimeout <= 0 {
		return fmt.Errorf("IMPORT_TIMEOUT must be positive, got %s", cfg.ImportTimeout)
	}
	if cfg.ImportRate <= 0 {
		return fmt.Errorf("IMPORT_RATE must be positive, got %v", cfg.ImportRate)
	}
	if cfg.PhotoMaxEdge <= 0 {
		return fmt.Errorf("PHOTO_MAX_EDGE must be positive, got %d", cfg.PhotoMaxEdge)
	}
	if (cfg.TelegramToken == "") != (cfg.TelegramChatID == 0) {
		return fmt.Errorf("TELEGRAM_TOKEN and TELEGRAM_CHAT_ID must be set together")
	}
	return nil
}
