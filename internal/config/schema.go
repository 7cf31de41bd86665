// Package config provides configuration loading and validation for
// Cactusbot. It supports TOML configuration files with environment variable
// expansion, default values, and validation.
//
// Configuration structure:
//   - [workspace]: Workspace directory holding reminders, prefs and personas
//   - [logging]: Logging level, format, and output
//   - [llm.gemini]: Gemini provider configuration
//   - [channels.telegram]: Telegram channel configuration
//   - [scheduler]: Due-entry sweep settings
//   - [housekeeping]: Periodic workspace pruning
//   - [metrics]: Prometheus metrics endpoint
//   - [message_bus]: Message bus capacity settings
//
// Environment variables can be referenced using ${VAR} or ${VAR:default}
// syntax. For example: api_key = "${GEMINI_API_KEY}"
package config

// Config represents the main application configuration.
type Config struct {
	Workspace    WorkspaceConfig    `toml:"workspace"`
	Logging      LoggingConfig      `toml:"logging"`
	LLM          LLMConfig          `toml:"llm"`
	Channels     ChannelsConfig     `toml:"channels"`
	Scheduler    SchedulerConfig    `toml:"scheduler"`
	Housekeeping HousekeepingConfig `toml:"housekeeping"`
	Metrics      MetricsConfig      `toml:"metrics"`
	MessageBus   MessageBusConfig   `toml:"message_bus"`
}

// WorkspaceConfig holds the workspace directory settings.
type WorkspaceConfig struct {
	Path string `toml:"path"`
}

// LoggingConfig holds the logging settings.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Output string `toml:"output"`
}

// LLMConfig holds the LLM provider configuration.
type LLMConfig struct {
	Gemini GeminiConfig `toml:"gemini"`
}

// GeminiConfig holds the Gemini provider settings.
type GeminiConfig struct {
	APIKey         string  `toml:"api_key"`
	Model          string  `toml:"model"`
	BaseURL        string  `toml:"base_url"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	MaxTokens      int     `toml:"max_tokens"`
	Temperature    float64 `toml:"temperature"`
}

// ChannelsConfig holds the channel configurations.
type ChannelsConfig struct {
	Telegram TelegramConfig `toml:"telegram"`
}

// TelegramConfig holds the Telegram channel settings.
type TelegramConfig struct {
	Enabled               bool     `toml:"enabled"`
	Token                 string   `toml:"token"`
	AllowedChats          []string `toml:"allowed_chats"`
	SendTimeoutSeconds    int      `toml:"send_timeout_seconds"`
	AnswerCallbackTimeout int      `toml:"answer_callback_timeout"`
}

// SchedulerConfig holds the due-entry sweep settings.
type SchedulerConfig struct {
	SweepIntervalSeconds   int `toml:"sweep_interval_seconds"`
	DeliveryTimeoutSeconds int `toml:"delivery_timeout_seconds"`
}

// HousekeepingConfig holds the workspace pruning settings.
type HousekeepingConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"` // Cron expression
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Listen  string `toml:"listen"`
}

// MessageBusConfig holds the message bus settings.
type MessageBusConfig struct {
	Capacity int `toml:"capacity"`
}
