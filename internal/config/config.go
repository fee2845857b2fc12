package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"gopkg.in/yaml.v3"

	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/model"
)

const (
	defaultTimezone      = "Europe/Moscow"
	defaultQueueKey      = "notifications"
	defaultDeadLetterKey = "notifications:dead"
	defaultMaxAttempts   = 5
)

// RedisConfig points at the notification queue
type RedisConfig struct {
	Addr          string `yaml:"addr" validate:"required,hostname_port"`
	Password      string `yaml:"password,omitempty"`
	DB            int    `yaml:"db" validate:"min=0,max=15"`
	QueueKey      string `yaml:"queueKey"`
	DeadLetterKey string `yaml:"deadLetterKey"`
	MaxAttempts   int    `yaml:"maxAttempts" validate:"min=1,max=20"`
}

// GmailConfig configures notification emails
type GmailConfig struct {
	UserID string `yaml:"userID"`
	Sender string `yaml:"sender,omitempty" validate:"omitempty,email"`
}

// Config represents the application configuration
type Config struct {
	DatabaseURL         string            `yaml:"databaseURL,omitempty"`
	Timezone            string            `yaml:"timezone"`
	Site                model.SiteContext `yaml:"site"`
	Redis               *RedisConfig      `yaml:"redis,omitempty"`
	Gmail               GmailConfig       `yaml:"gmail"`
	RosterSpreadsheetID string            `yaml:"rosterSpreadsheetID,omitempty"`

	location *time.Location
}

// Location returns the time zone business hours and roster timestamps are evaluated in
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadWithEnv loads volunteers_config.<env>.yaml, or volunteers_config.yaml when env is empty.
// The current directory is searched first, then the user's home directory.
func LoadWithEnv(env string) (*Config, error) {
	name := "volunteers_config.yaml"
	if env != "" {
		name = "volunteers_config." + env + ".yaml"
	}

	path, err := findFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(path)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Timezone == "" {
		cfg.Timezone = defaultTimezone
	}
	if r := cfg.Redis; r != nil {
		if r.QueueKey == "" {
			r.QueueKey = defaultQueueKey
		}
		if r.DeadLetterKey == "" {
			r.DeadLetterKey = defaultDeadLetterKey
		}
		if r.MaxAttempts == 0 {
			r.MaxAttempts = defaultMaxAttempts
		}
	}
	if cfg.Gmail.UserID == "" {
		cfg.Gmail.UserID = "me"
	}
}

// Validate runs the struct tags, then checks the time zone and database URL parse
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	cfg.location = loc

	if cfg.DatabaseURL != "" {
		if _, err := pgxpool.ParseConfig(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("invalid databaseURL: %w", err)
		}
	}

	if r := cfg.Redis; r != nil && r.QueueKey == r.DeadLetterKey {
		return fmt.Errorf("redis queueKey and deadLetterKey must differ")
	}

	return nil
}

// findFile looks for name in the current directory, then in the user's home directory
func findFile(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, name)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", name)
}
