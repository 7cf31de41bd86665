// Package telegram provides Telegram Bot integration using the Telego
// library. It moves messages between Telegram and the internal message bus:
// user messages and inline keyboard callbacks flow inbound, assistant
// replies and fired reminders flow outbound.
//
// Features:
//   - Long polling for receiving updates
//   - Whitelist-based chat authorization
//   - Inline keyboard support for confirmation and deletion flows
//   - Graceful shutdown handling
package telegram

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/mymmrac/telego"

	"github.com/lmoroni/cactusbot/internal/bus"
	"github.com/lmoroni/cactusbot/internal/config"
	"github.com/lmoroni/cactusbot/internal/constants"
	"github.com/lmoroni/cactusbot/internal/logger"
)

// Connector represents the Telegram bot connector.
type Connector struct {
	cfg    config.TelegramConfig
	logger *logger.Logger
	bus    *bus.MessageBus
	bot    BotInterface
	ctx    context.Context
	cancel context.CancelFunc

	outboundCh      <-chan bus.OutboundMessage
	updateHandler   *UpdateHandler
	messageSender   *MessageSender
	longPollManager *LongPollManager
}

// New creates a new Telegram connector.
func New(cfg config.TelegramConfig, log *logger.Logger, msgBus *bus.MessageBus) *Connector {
	conn := &Connector{
		cfg:    cfg,
		logger: log,
		bus:    msgBus,
	}
	conn.updateHandler = NewUpdateHandler(conn, log, msgBus)
	conn.messageSender = NewMessageSender(conn, log)
	conn.longPollManager = NewLongPollManager(conn, log)
	return conn
}

// Start initializes the Telegram bot and starts listening for updates.
func (c *Connector) Start(ctx context.Context) error {
	c.logger.Info("starting telegram connector",
		logger.Field{Key: "enabled", Value: c.cfg.Enabled})

	if !c.cfg.Enabled {
		c.logger.Info("telegram connector disabled in config")
		return nil
	}

	if c.cfg.Token == "" {
		return fmt.Errorf("invalid config: telegram token is required")
	}

	bot, err := telego.NewBot(c.cfg.Token)
	if err != nil {
		return fmt.Errorf("failed to initialize telegram bot: %w", err)
	}

	c.bot = NewBotAdapter(bot)
	c.ctx, c.cancel = context.WithCancel(ctx)

	botUser, err := c.bot.GetMe(c.ctx)
	if err != nil {
		return fmt.Errorf("failed to get bot info: %w", err)
	}

	c.logger.Info("telegram bot initialized",
		logger.Field{Key: "bot_id", Value: botUser.ID},
		logger.Field{Key: "username", Value: botUser.Username})

	if err := c.registerCommands(); err != nil {
		c.logger.ErrorCtx(c.ctx, "failed to register bot commands", err)
	}

	// Subscribe to outbound messages
	c.outboundCh = c.bus.SubscribeOutbound(c.ctx)
	go c.messageSender.Run(c.ctx, c.outboundCh)

	// Start long polling for updates
	go c.longPollManager.Start(c.ctx)

	return nil
}

// Stop gracefully stops the Telegram connector.
func (c *Connector) Stop() error {
	c.logger.Info("stopping telegram connector")

	if c.cancel != nil {
		c.cancel()
	}

	c.bot = nil
	c.outboundCh = nil

	c.logger.Info("telegram connector stopped gracefully")
	return nil
}

// registerCommands registers the bot command menu with Telegram.
func (c *Connector) registerCommands() error {
	if c.bot == nil {
		return fmt.Errorf("bot is not initialized")
	}

	commands := &telego.SetMyCommandsParams{
		Commands: []telego.BotCommand{
			{Command: constants.CommandStart, Description: "Greet the cactus"},
			{Command: constants.CommandReminders, Description: "List your reminders and timers"},
			{Command: constants.CommandDelete, Description: "Delete a reminder"},
			{Command: constants.CommandUsername, Description: "Set your name"},
			{Command: constants.CommandInitPrompt, Description: "Set an initialization prompt"},
			{Command: constants.CommandShowInit, Description: "Show the current initialization prompt"},
			{Command: constants.CommandVoice, Description: "Set the voice preference"},
		},
	}

	if err := c.bot.SetMyCommands(c.ctx, commands); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	c.logger.Info("bot commands registered successfully")
	return nil
}

// isAllowedChat checks the chat against the whitelist configuration. An
// empty whitelist allows everyone.
func (c *Connector) isAllowedChat(chatID string) bool {
	if len(c.cfg.AllowedChats) == 0 {
		return true
	}
	return slices.Contains(c.cfg.AllowedChats, chatID)
}

// sendTimeout returns a context bounded by the configured send timeout.
func (c *Connector) sendTimeout() (context.Context, context.CancelFunc) {
	timeout := time.Duration(c.cfg.SendTimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = time.Duration(constants.DefaultSendTimeoutSeconds) * time.Second
	}
	return context.WithTimeout(c.ctx, timeout)
}
