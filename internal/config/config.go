package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

// List-state storage backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// Config holds the configuration for the application.
type Config struct {
	DatabasePath     string `yaml:"DATABASE_PATH"`
	ListStateBackend string `yaml:"LIST_STATE_BACKEND"`
	ListStatePath    string `yaml:"LIST_STATE_PATH"`
	Port             string `yaml:"PORT"`
	JWTSecret        string `yaml:"JWT_SECRET"`

	// Telegram Config
	TelegramBotToken       string  `yaml:"TELEGRAM_BOT_TOKEN"`
	TelegramWebhookURL     string  `yaml:"TELEGRAM_WEBHOOK_URL"`
	TelegramAllowedUserIDs []int64 `yaml:"TELEGRAM_ALLOWED_USER_IDS"`
	AdminTelegramID        int64   `yaml:"ADMIN_TELEGRAM_ID"`
}

// NewFromEnv creates a new Config object from an optional YAML file named by
// MEAL_PLANNER_CONFIG, overridden by environment variables.
func NewFromEnv() (*Config, error) {
	cfg := &Config{
		DatabasePath:     "data/meal-planner.db",
		ListStateBackend: BackendSQLite,
		ListStatePath:    "data/list-states",
		Port:             "8080",
	}

	if path := os.Getenv("MEAL_PLANNER_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	overrideString(&cfg.DatabasePath, "DATABASE_PATH")
	overrideString(&cfg.ListStateBackend, "LIST_STATE_BACKEND")
	overrideString(&cfg.ListStatePath, "LIST_STATE_PATH")
	overrideString(&cfg.Port, "PORT")
	overrideString(&cfg.JWTSecret, "JWT_SECRET")
	overrideString(&cfg.TelegramBotToken, "TELEGRAM_BOT_TOKEN")
	overrideString(&cfg.TelegramWebhookURL, "TELEGRAM_WEBHOOK_URL")

	if v := os.Getenv("TELEGRAM_ALLOWED_USER_IDS"); v != "" {
		ids, err := parseIDList(v)
		if err != nil {
			return nil, fmt.Errorf("TELEGRAM_ALLOWED_USER_IDS: %w", err)
		}
		cfg.TelegramAllowedUserIDs = ids
	}
	if v := os.Getenv("ADMIN_TELEGRAM_ID"); v != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ADMIN_TELEGRAM_ID: invalid id %q", v)
		}
		cfg.AdminTelegramID = id
	}

	switch cfg.ListStateBackend {
	case BackendSQLite, BackendFile:
	default:
		return nil, fmt.Errorf("LIST_STATE_BACKEND must be %q or %q, got %q", BackendSQLite, BackendFile, cfg.ListStateBackend)
	}

	return cfg, nil
}

// RequireJWTSecret checks the setting needed by the REST API.
func (c *Config) RequireJWTSecret() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable not set")
	}
	return nil
}

// RequireTelegram checks the settings needed by the Telegram bot.
func (c *Config) RequireTelegram() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	return nil
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func parseIDList(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
