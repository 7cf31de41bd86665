package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load reads and parses the TOML configuration file, applies defaults and
// expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	expandEnvVars(&cfg)

	return &cfg, nil
}

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() []error {
	var errors []error

	if c.Workspace.Path == "" {
		errors = append(errors, fmt.Errorf("workspace.path is required"))
	} else if err := validatePath(c.Workspace.Path, "workspace.path"); err != nil {
		errors = append(errors, err)
	}

	if c.LLM.Gemini.APIKey == "" {
		errors = append(errors, fmt.Errorf("llm.gemini.api_key is required"))
	} else if err := validateAPIKey(c.LLM.Gemini.APIKey, "llm.gemini.api_key"); err != nil {
		errors = append(errors, err)
	}

	if c.Channels.Telegram.Enabled {
		if c.Channels.Telegram.Token == "" {
			errors = append(errors, fmt.Errorf("channels.telegram.token is required when telegram is enabled"))
		} else if err := validateTelegramToken(c.Channels.Telegram.Token); err != nil {
			errors = append(errors, err)
		}
	}

	if c.Logging.Level == "" {
		errors = append(errors, fmt.Errorf("logging.level is required"))
	} else {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[strings.ToLower(c.Logging.Level)] {
			errors = append(errors, fmt.Errorf("invalid logging.level: %s (expected: debug, info, warn, error)", c.Logging.Level))
		}
	}

	if c.Scheduler.SweepIntervalSeconds < 1 {
		errors = append(errors, fmt.Errorf("scheduler.sweep_interval_seconds must be at least 1"))
	}
	if c.Scheduler.DeliveryTimeoutSeconds < 1 {
		errors = append(errors, fmt.Errorf("scheduler.delivery_timeout_seconds must be at least 1"))
	}

	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		errors = append(errors, fmt.Errorf("metrics.listen is required when metrics are enabled"))
	}

	if c.MessageBus.Capacity < 1 {
		errors = append(errors, fmt.Errorf("message_bus.capacity must be at least 1"))
	}

	return errors
}

func validateAPIKey(key, fieldName string) error {
	if len(key) < 10 {
		return fmt.Errorf("%s is too short (minimum 10 characters, got %d)", fieldName, len(key))
	}
	return nil
}

func validateTelegramToken(token string) error {
	parts := strings.Split(token, ":")
	if len(parts) != 2 {
		return fmt.Errorf("telegram token has invalid format (expected format: <bot_id>:<token>, got: %s)", maskSecret(token))
	}

	botID := parts[0]
	botToken := parts[1]

	if len(botID) < 3 || len(botID) > 15 {
		return fmt.Errorf("telegram token has invalid bot ID length (expected 3-15 digits, got %d digits)", len(botID))
	}
	for _, r := range botID {
		if r < '0' || r > '9' {
			return fmt.Errorf("telegram token has invalid bot ID (expected digits only, got: %s)", botID)
		}
	}
	if len(botToken) < 10 || len(botToken) > 50 {
		return fmt.Errorf("telegram token has invalid token length (expected 10-50 characters, got %d)", len(botToken))
	}

	return nil
}

func validatePath(path, fieldName string) error {
	if strings.HasPrefix(path, "~") {
		return nil
	}
	if strings.Contains(path, "..") {
		return fmt.Errorf("%s contains potentially dangerous path traversal sequence", fieldName)
	}
	return nil
}
