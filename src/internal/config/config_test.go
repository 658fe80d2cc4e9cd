// FILE: src/internal/config/config_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := defaults()
	cfg.Webhook.URL = "https://hooks.example.com/T/B/x"
	return cfg
}

func TestValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("MissingWebhookURL", func(t *testing.T) {
		cfg := defaults()
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "webhook url is required")
	})

	t.Run("NonHTTPWebhookURL", func(t *testing.T) {
		cfg := validConfig()
		cfg.Webhook.URL = "ftp://example.com/hook"
		assert.Error(t, cfg.Validate())
	})

	t.Run("InvalidKind", func(t *testing.T) {
		cfg := validConfig()
		cfg.Webhook.Kind = "teams"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid webhook kind")
	})

	t.Run("InvalidFilterPattern", func(t *testing.T) {
		cfg := validConfig()
		cfg.Filters.TargetAdditive = "["
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "target_additive")
	})

	t.Run("InvalidExclusionPattern", func(t *testing.T) {
		cfg := validConfig()
		cfg.Filters.FieldExclusions = []string{"ok", "("}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "field_exclusions[1]")
	})

	t.Run("InvalidLevel", func(t *testing.T) {
		cfg := validConfig()
		cfg.Filters.Level = "loud"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "filters.level")
	})

	t.Run("ZeroTimeout", func(t *testing.T) {
		cfg := validConfig()
		cfg.Webhook.TimeoutSeconds = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("EmptyAppName", func(t *testing.T) {
		cfg := validConfig()
		cfg.AppName = ""
		assert.Error(t, cfg.Validate())
	})
}
