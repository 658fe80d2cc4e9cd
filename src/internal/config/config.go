// FILE: src/internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lconfig "github.com/lixenwraith/config"
)

type Config struct {
	// Identity string attached to every payload
	AppName string `toml:"app_name"`

	Webhook WebhookConfig `toml:"webhook"`
	Filters FiltersConfig `toml:"filters"`
	Logging *LogConfig    `toml:"logging"`
}

// WebhookConfig is the delivery endpoint and chat-ops identity
type WebhookConfig struct {
	// Destination URL, required
	URL string `toml:"url"`

	// Payload kind: "webhook" or "slack"
	Kind string `toml:"kind"`

	// Chat-ops identity, used by the slack kind
	Channel   string `toml:"channel"`
	Username  string `toml:"username"`
	IconEmoji string `toml:"icon_emoji"`

	// Per-request timeout in seconds
	TimeoutSeconds int64 `toml:"timeout_seconds"`
}

// FiltersConfig holds the regex patterns for every filter role. Empty
// patterns impose no constraint.
type FiltersConfig struct {
	// Target role: additive keeps only matches, subtractive drops matches
	TargetAdditive    string `toml:"target_additive"`
	TargetSubtractive string `toml:"target_subtractive"`

	// Message role: positive drops matches, negative keeps only matches
	MessagePositive string `toml:"message_positive"`
	MessageNegative string `toml:"message_negative"`

	// Field-key role, same polarity as messages
	FieldPositive string `toml:"field_positive"`
	FieldNegative string `toml:"field_negative"`

	// Keys matching any pattern are redacted from payloads
	FieldExclusions []string `toml:"field_exclusions"`

	// Minimum level to forward: "trace".."error", empty disables
	Level string `toml:"level"`
}

func defaults() *Config {
	return &Config{
		AppName: "tracehook",
		Webhook: WebhookConfig{
			Kind:           "webhook",
			Username:       "tracehook",
			TimeoutSeconds: 30,
		},
		Logging: DefaultLogConfig(),
	}
}

// Load resolves configuration from defaults, file, environment and CLI
// arguments, in ascending priority.
func Load(cliArgs []string) (*Config, error) {
	configPath := GetConfigPath()

	cfg, err := lconfig.NewBuilder().
		WithDefaults(defaults()).
		WithEnvPrefix("TRACEHOOK_").
		WithFile(configPath).
		WithArgs(cliArgs).
		WithSources(
			lconfig.SourceCLI,
			lconfig.SourceEnv,
			lconfig.SourceFile,
			lconfig.SourceDefault,
		).
		Build()

	if err != nil {
		if !strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	finalConfig := &Config{}
	if err := cfg.Scan(finalConfig); err != nil {
		return nil, fmt.Errorf("failed to scan config: %w", err)
	}

	return finalConfig, finalConfig.Validate()
}

func GetConfigPath() string {
	if configFile := os.Getenv("TRACEHOOK_CONFIG_FILE"); configFile != "" {
		if filepath.IsAbs(configFile) {
			return configFile
		}
		if configDir := os.Getenv("TRACEHOOK_CONFIG_DIR"); configDir != "" {
			return filepath.Join(configDir, configFile)
		}
		return configFile
	}

	if configDir := os.Getenv("TRACEHOOK_CONFIG_DIR"); configDir != "" {
		return filepath.Join(configDir, "tracehook.toml")
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config", "tracehook.toml")
	}

	return "tracehook.toml"
}
