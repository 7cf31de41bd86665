package config

import "github.com/lmoroni/cactusbot/internal/constants"

// applyDefaults fills zero-valued fields with sensible defaults.
func applyDefaults(c *Config) {
	if c.Workspace.Path == "" {
		c.Workspace.Path = "~/.cactusbot"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}

	if c.LLM.Gemini.Model == "" {
		c.LLM.Gemini.Model = "gemini-2.0-flash"
	}
	if c.LLM.Gemini.TimeoutSeconds == 0 {
		c.LLM.Gemini.TimeoutSeconds = 60
	}
	if c.LLM.Gemini.MaxTokens == 0 {
		c.LLM.Gemini.MaxTokens = 1024
	}
	if c.LLM.Gemini.Temperature == 0 {
		c.LLM.Gemini.Temperature = 0.7
	}

	if c.Channels.Telegram.SendTimeoutSeconds == 0 {
		c.Channels.Telegram.SendTimeoutSeconds = 10
	}
	if c.Channels.Telegram.AnswerCallbackTimeout == 0 {
		c.Channels.Telegram.AnswerCallbackTimeout = 5
	}

	if c.Scheduler.SweepIntervalSeconds == 0 {
		c.Scheduler.SweepIntervalSeconds = constants.DefaultSweepIntervalSeconds
	}
	if c.Scheduler.DeliveryTimeoutSeconds == 0 {
		c.Scheduler.DeliveryTimeoutSeconds = constants.DefaultDeliveryTimeoutSeconds
	}

	if c.Housekeeping.Schedule == "" {
		c.Housekeeping.Schedule = constants.DefaultHousekeepingSchedule
	}

	if c.Metrics.Listen == "" {
		c.Metrics.Listen = ":9090"
	}

	if c.MessageBus.Capacity == 0 {
		c.MessageBus.Capacity = 100
	}
}
