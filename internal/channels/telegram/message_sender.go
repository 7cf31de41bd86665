package telegram

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/mymmrac/telego"
	telegoapi "github.com/mymmrac/telego/telegoapi"

	"github.com/lmoroni/cactusbot/internal/bus"
	"github.com/lmoroni/cactusbot/internal/channels"
	"github.com/lmoroni/cactusbot/internal/logger"
)

// MessageSender consumes outbound bus messages and delivers them to
// Telegram.
type MessageSender struct {
	connector *Connector
	logger    *logger.Logger
}

// NewMessageSender creates a new message sender.
func NewMessageSender(connector *Connector, log *logger.Logger) *MessageSender {
	return &MessageSender{
		connector: connector,
		logger:    log,
	}
}

// Run processes outbound messages until the context is cancelled.
func (ms *MessageSender) Run(ctx context.Context, outbound <-chan bus.OutboundMessage) {
	ms.logger.Info("outbound message handler started")

	for {
		select {
		case <-ctx.Done():
			ms.logger.Info("outbound message handler stopped")
			return
		case msg, ok := <-outbound:
			if !ok {
				ms.logger.Info("outbound channel closed")
				return
			}

			if msg.ChannelType != bus.ChannelTypeTelegram {
				continue
			}
			ms.Send(msg)
		}
	}
}

// Send delivers a single outbound message to Telegram.
func (ms *MessageSender) Send(msg bus.OutboundMessage) error {
	chatID, err := strconv.ParseInt(msg.ChatID, 10, 64)
	if err != nil {
		ms.logger.Error("invalid chat id on outbound message", err,
			logger.Field{Key: "chat_id", Value: msg.ChatID},
			logger.Field{Key: "correlation_id", Value: msg.CorrelationID})
		return err
	}

	if ms.connector.bot == nil {
		ms.logger.Warn("bot is nil, skipping message send",
			logger.Field{Key: "chat_id", Value: msg.ChatID})
		return errors.New("bot is not initialized")
	}

	params := telego.SendMessageParams{
		ChatID: telego.ChatID{ID: chatID},
		Text:   msg.Content,
	}
	if msg.InlineKeyboard != nil {
		params.ReplyMarkup = buildInlineKeyboard(msg.InlineKeyboard)
	}

	sendCtx, cancel := ms.connector.sendTimeout()
	defer cancel()

	if _, err := ms.connector.bot.SendMessage(sendCtx, &params); err != nil {
		ms.logSendError(err, msg, chatID)
		return err
	}

	ms.logger.Debug("outbound message sent",
		logger.Field{Key: "chat_id", Value: msg.ChatID},
		logger.Field{Key: "correlation_id", Value: msg.CorrelationID})
	return nil
}

// logSendError logs a delivery failure with structured Telegram error
// details when available.
func (ms *MessageSender) logSendError(err error, msg bus.OutboundMessage, chatID int64) {
	fields := []logger.Field{
		{Key: "chat_id", Value: chatID},
		{Key: "correlation_id", Value: msg.CorrelationID},
	}

	var telErr *telegoapi.Error
	if errors.As(err, &telErr) {
		details := &channels.TelegramErrorDetails{
			ErrorCode:       telErr.ErrorCode,
			Description:     telErr.Description,
			OriginalMessage: msg.Content,
			ChatID:          chatID,
			Timestamp:       time.Now(),
		}
		if telErr.Parameters != nil {
			details.RetryAfterSec = telErr.Parameters.RetryAfter
		}
		fields = append(fields, details.LogFields()...)
	}

	ms.logger.Error("failed to send telegram message", err, fields...)
}

// buildInlineKeyboard converts the channel-agnostic keyboard to Telegram's
// InlineKeyboardMarkup format.
func buildInlineKeyboard(keyboard *bus.InlineKeyboard) *telego.InlineKeyboardMarkup {
	if keyboard == nil {
		return nil
	}

	markup := &telego.InlineKeyboardMarkup{
		InlineKeyboard: make([][]telego.InlineKeyboardButton, len(keyboard.Rows)),
	}

	for i, row := range keyboard.Rows {
		buttons := make([]telego.InlineKeyboardButton, len(row))
		for j, button := range row {
			buttons[j] = telego.InlineKeyboardButton{
				Text:         button.Text,
				CallbackData: button.CallbackData,
			}
		}
		markup.InlineKeyboard[i] = buttons
	}

	return markup
}
