// Package config loads Presente's settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// LLMProvider names the text-completion backend.
type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

// LLM holds text-completion settings.
type LLM struct {
	Provider         LLMProvider   `env:"PRESENTE_LLM_PROVIDER" envDefault:"openai"`
	APIKey           string        `env:"API_KEY"`
	OpenAIAPIKey     string        `env:"OPENAI_API_KEY"`
	BaseURL          string        `env:"PRESENTE_LLM_BASE_URL"`
	Model            string        `env:"PRESENTE_LLM_MODEL"`
	Timeout          time.Duration `env:"PRESENTE_LLM_TIMEOUT" envDefault:"10s"`
	YandexOAuthToken string        `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string        `env:"YANDEX_FOLDER_ID"`
}

// Key returns the API key for OpenAI-compatible providers. API_KEY wins
// over OPENAI_API_KEY.
func (l LLM) Key() string {
	if l.APIKey != "" {
		return l.APIKey
	}
	return l.OpenAIAPIKey
}

// Config is the full set of settings read by Load.
type Config struct {
	// Storage
	DBPath string `env:"PRESENTE_DB" envDefault:"presente.db"`

	// Civil days for streaks and the daily suggestion. Empty means local time.
	Timezone string `env:"PRESENTE_TIMEZONE"`

	// Reminder schedule (cron spec)
	RemindSchedule string `env:"PRESENTE_REMIND_SCHEDULE" envDefault:"0 9 * * *"`

	LLM LLM
}

// Load reads an optional .env file, then the environment.
// Variables already set in the environment win over .env values.
func Load(dotenvPaths ...string) (*Config, error) {
	if len(dotenvPaths) == 0 {
		dotenvPaths = []string{".env"}
	}
	for _, path := range dotenvPaths {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	return Parse()
}

// Parse reads the environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Location resolves Timezone. Empty means time.Local.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid PRESENTE_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}
