package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	domainErrors "github.com/SolanaRemix/terminal/internal/errors"
)

// DefaultWebhookSecret is the placeholder used when WEBHOOK_SECRET is unset.
// Deliveries signed with it are accepted, so Warnings flags it on startup.
const DefaultWebhookSecret = "change-me"

type Config struct {
	GitHubToken    string        `env:"GITHUB_TOKEN"`
	WebhookSecret  string        `env:"WEBHOOK_SECRET" envDefault:"change-me"`
	Port           int           `env:"PORT" envDefault:"3000"`
	APIBaseURL     string        `env:"GITHUB_API_URL"`
	Language       string        `env:"TERMINAL_LANGUAGE" envDefault:"en"`
	HandlerTimeout time.Duration `env:"TERMINAL_HANDLER_TIMEOUT" envDefault:"10s"`
	DefaultBranch  string        `env:"TERMINAL_DEFAULT_BRANCH" envDefault:"main"`
	LocalesDir     string        `env:"TERMINAL_LOCALES_DIR"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string        `env:"LOG_FORMAT" envDefault:"text"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the optional dotenv files and then the process environment.
// Variables already present in the environment win over dotenv values.
func Load(dotenvFiles ...string) (*Config, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, domainErrors.ErrConfigParse.WithError(err).WithContext("file", f)
		}
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return nil, domainErrors.ErrConfigParse.WithError(err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first hard configuration error.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return domainErrors.ErrInvalidPort.WithContext("port", c.Port)
	}
	if c.HandlerTimeout <= 0 {
		return domainErrors.ErrInvalidTimeout.WithContext("timeout", c.HandlerTimeout.String())
	}
	return nil
}

// applyDefaults restores defaults for variables set to an empty string.
func (c *Config) applyDefaults() {
	if c.DefaultBranch == "" {
		c.DefaultBranch = "main"
	}
	if c.Language == "" {
		c.Language = "en"
	}
}

// Warnings lists soft problems that still allow the server to start.
func (c *Config) Warnings() []*domainErrors.AppError {
	var warnings []*domainErrors.AppError
	if c.GitHubToken == "" {
		warnings = append(warnings, domainErrors.ErrTokenMissing)
	}
	if c.WebhookSecret == "" || c.WebhookSecret == DefaultWebhookSecret {
		warnings = append(warnings, domainErrors.ErrWebhookSecretDefault)
	}
	return warnings
}

// Addr is the listen address for the webhook server.
func (c *Config) Addr() string {
	return net.JoinHostPort("", strconv.Itoa(c.Port))
}
