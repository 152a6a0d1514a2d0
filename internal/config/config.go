// Package config provides configuration loading, validation, and defaults
// for the sweepbot application. Values come from config.yaml and from
// SWEEPBOT_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config defines the application configuration parameters.
type Config struct {
	Log        LogConfig        `mapstructure:"log"`
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	Moderation ModerationConfig `mapstructure:"moderation"`
	Database   DatabaseConfig   `mapstructure:"database"`
}

// LogConfig controls log verbosity and output format.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds Telegram connection and authorization settings.
type TelegramConfig struct {
	Token       string `mapstructure:"token"         validate:"required"`
	AdminUserID int64  `mapstructure:"admin_user_id" validate:"required,gt=0"`
}

// GeminiConfig holds the default classification endpoint. The endpoint,
// model, and credential can be overridden at runtime by admin commands;
// these values only seed the persisted settings on first start.
type GeminiConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
	Model   string `mapstructure:"model"    validate:"required"`
}

// ModerationConfig holds the moderation engine defaults.
type ModerationConfig struct {
	// BatchTime seeds the persisted batch run time on first start.
	BatchTime string `mapstructure:"batch_time" validate:"required,datetime=15:04"`
	// Timezone names the civil time zone batch times are interpreted in.
	Timezone string `mapstructure:"timezone" validate:"required"`
	// Prompt seeds the classification prompt; empty disables classification.
	Prompt string `mapstructure:"prompt"`
	// DeleteDelay is the fixed pause between batch deletion attempts.
	DeleteDelay time.Duration `mapstructure:"delete_delay" validate:"min=0,max=10s"`
	// PermissionInterval is the cadence of the permission sweep.
	PermissionInterval time.Duration `mapstructure:"permission_interval" validate:"required,min=1m,max=24h"`
	// CallTimeout bounds individual platform and classification calls.
	CallTimeout time.Duration `mapstructure:"call_timeout" validate:"required,min=1s,max=10m"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// Location resolves the configured time zone name.
func (m ModerationConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(m.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid moderation timezone %q: %w", m.Timezone, err)
	}
	return loc, nil
}

// LoadConfig reads configuration from the given YAML file, overlays
// SWEEPBOT_* environment variables, applies defaults, and validates the
// result. A missing config file is not an error; env vars and defaults
// still apply.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("SWEEPBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if _, err := cfg.Moderation.Location(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", true)

	// Empty defaults register the keys so AutomaticEnv can fill them.
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.admin_user_id", 0)

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.base_url", "")
	v.SetDefault("gemini.model", "gemini-2.0-flash")

	v.SetDefault("moderation.prompt", "")

	v.SetDefault("moderation.batch_time", "03:00")
	v.SetDefault("moderation.timezone", "Local")
	v.SetDefault("moderation.delete_delay", 200*time.Millisecond)
	v.SetDefault("moderation.permission_interval", time.Hour)
	v.SetDefault("moderation.call_timeout", 30*time.Second)

	v.SetDefault("database.path", "sweepbot.db")
}
