// FILE: src/internal/config/validation.go
package config

import (
	"fmt"
	"regexp"
	"strings"

	"tracehook/src/internal/core"
)

// Validate fails fast on invalid configuration, before any event is
// processed.
func (c *Config) Validate() error {
	if c.AppName == "" {
		return fmt.Errorf("app_name cannot be empty")
	}

	if err := validateWebhook(&c.Webhook); err != nil {
		return err
	}
	if err := validateFilters(&c.Filters); err != nil {
		return err
	}
	if c.Logging != nil {
		if err := validateLogConfig(c.Logging); err != nil {
			return err
		}
	}
	return nil
}

func validateWebhook(cfg *WebhookConfig) error {
	if cfg.URL == "" {
		return fmt.Errorf("webhook url is required (set webhook.url or TRACEHOOK_WEBHOOK_URL)")
	}
	if !strings.HasPrefix(cfg.URL, "http://") && !strings.HasPrefix(cfg.URL, "https://") {
		return fmt.Errorf("webhook url must be http or https: %s", cfg.URL)
	}

	switch cfg.Kind {
	case "webhook", "slack", "":
		// Valid kinds
	default:
		return fmt.Errorf("invalid webhook kind '%s' (must be 'webhook' or 'slack')", cfg.Kind)
	}

	if cfg.TimeoutSeconds <= 0 {
		return fmt.Errorf("webhook timeout_seconds must be positive: %d", cfg.TimeoutSeconds)
	}
	return nil
}

func validateFilters(cfg *FiltersConfig) error {
	patterns := []struct {
		name    string
		pattern string
	}{
		{"target_additive", cfg.TargetAdditive},
		{"target_subtractive", cfg.TargetSubtractive},
		{"message_positive", cfg.MessagePositive},
		{"message_negative", cfg.MessageNegative},
		{"field_positive", cfg.FieldPositive},
		{"field_negative", cfg.FieldNegative},
	}

	for _, p := range patterns {
		if p.pattern == "" {
			continue
		}
		if _, err := regexp.Compile(p.pattern); err != nil {
			return fmt.Errorf("filters.%s '%s': invalid regex: %w", p.name, p.pattern, err)
		}
	}

	for i, pattern := range cfg.FieldExclusions {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("filters.field_exclusions[%d] '%s': invalid regex: %w", i, pattern, err)
		}
	}

	if cfg.Level != "" {
		if _, err := core.ParseLevel(cfg.Level); err != nil {
			return fmt.Errorf("filters.level: %w", err)
		}
	}
	return nil
}
