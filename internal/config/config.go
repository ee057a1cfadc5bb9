package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Settings
	SettingsPath string `envconfig:"SETTINGS_PATH" default:"popup_settings.json"`

	// Platform
	PlatformBaseURL string `envconfig:"PLATFORM_BASE_URL" required:"true"`
	AccountPath     string `envconfig:"PLATFORM_ACCOUNT_PATH" default:"/account"`
	NewsletterPath  string `envconfig:"PLATFORM_NEWSLETTER_PATH" default:"/contact"`

	// Analytics
	AnalyticsURL    string `envconfig:"ANALYTICS_URL" default:""`
	AnalyticsSecret string `envconfig:"ANALYTICS_SECRET" default:""`

	// Limits
	SubmitRateLimit int `envconfig:"SUBMIT_RATE_LIMIT" default:"10"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
