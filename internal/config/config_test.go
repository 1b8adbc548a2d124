package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/SolanaRemix/terminal/internal/errors"
)

var managedVars = []string{
	"GITHUB_TOKEN", "WEBHOOK_SECRET", "PORT", "GITHUB_API_URL", "TERMINAL_LANGUAGE",
	"TERMINAL_HANDLER_TIMEOUT", "TERMINAL_DEFAULT_BRANCH", "TERMINAL_LOCALES_DIR",
	"LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv unsets every variable Load reads and restores it after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range managedVars {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad(t *testing.T) {
	t.Run("should apply defaults", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))

		require.NoError(t, err)
		assert.Equal(t, 3000, cfg.Port)
		assert.Equal(t, DefaultWebhookSecret, cfg.WebhookSecret)
		assert.Equal(t, "en", cfg.Language)
		assert.Equal(t, "main", cfg.DefaultBranch)
		assert.Equal(t, 10*time.Second, cfg.HandlerTimeout)
		assert.Equal(t, ":3000", cfg.Addr())
	})

	t.Run("should default empty branch and language", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TERMINAL_DEFAULT_BRANCH", "")
		t.Setenv("TERMINAL_LANGUAGE", "")

		cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))

		require.NoError(t, err)
		assert.Equal(t, "main", cfg.DefaultBranch)
		assert.Equal(t, "en", cfg.Language)
	})

	t.Run("should read environment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GITHUB_TOKEN", "ghp_test")
		t.Setenv("WEBHOOK_SECRET", "s3cret")
		t.Setenv("PORT", "8080")
		t.Setenv("TERMINAL_HANDLER_TIMEOUT", "3s")
		t.Setenv("TERMINAL_LANGUAGE", "es")

		cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))

		require.NoError(t, err)
		assert.Equal(t, "ghp_test", cfg.GitHubToken)
		assert.Equal(t, "s3cret", cfg.WebhookSecret)
		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, 3*time.Second, cfg.HandlerTimeout)
		assert.Equal(t, "es", cfg.Language)
		assert.Empty(t, cfg.Warnings())
	})

	t.Run("should load dotenv without overriding the environment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORT", "9000")
		dotenv := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(dotenv, []byte("PORT=4000\nGITHUB_TOKEN=from-file\n"), 0o600))
		t.Cleanup(func() { _ = os.Unsetenv("GITHUB_TOKEN") })

		cfg, err := Load(dotenv)

		require.NoError(t, err)
		assert.Equal(t, 9000, cfg.Port)
		assert.Equal(t, "from-file", cfg.GitHubToken)
	})

	t.Run("should fail on malformed port", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORT", "not-a-number")

		_, err := Load(filepath.Join(t.TempDir(), "missing.env"))

		require.Error(t, err)
		assert.True(t, errors.Is(err, domainErrors.ErrConfigParse))
	})

	t.Run("should fail on out of range port", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORT", "70000")

		_, err := Load(filepath.Join(t.TempDir(), "missing.env"))

		assert.ErrorIs(t, err, domainErrors.ErrInvalidPort)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("should reject non positive timeout", func(t *testing.T) {
		cfg := &Config{Port: 3000}

		assert.ErrorIs(t, cfg.Validate(), domainErrors.ErrInvalidTimeout)
	})

	t.Run("should not modify the configuration", func(t *testing.T) {
		cfg := &Config{Port: 3000, HandlerTimeout: time.Second}

		require.NoError(t, cfg.Validate())
		assert.Equal(t, &Config{Port: 3000, HandlerTimeout: time.Second}, cfg)
	})
}

func TestConfig_Warnings(t *testing.T) {
	cfg := &Config{WebhookSecret: DefaultWebhookSecret}

	warnings := cfg.Warnings()

	require.Len(t, warnings, 2)
	assert.ErrorIs(t, warnings[0], domainErrors.ErrTokenMissing)
	assert.ErrorIs(t, warnings[1], domainErrors.ErrWebhookSecretDefault)
}

type envTestConfig struct {
	Port int `env:"TERMINAL_TEST_PORT" envDefault:"123"`
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("TERMINAL_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}
