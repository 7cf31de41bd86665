package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/mymmrac/telego"

	"github.com/lmoroni/cactusbot/internal/bus"
	"github.com/lmoroni/cactusbot/internal/constants"
	"github.com/lmoroni/cactusbot/internal/logger"
)

// MetadataKeyCallbackData marks an inbound message as an inline keyboard
// callback and carries the button payload.
const MetadataKeyCallbackData = "callback_data"

// UpdateHandler turns Telegram updates into inbound bus messages.
type UpdateHandler struct {
	connector *Connector
	logger    *logger.Logger
	bus       *bus.MessageBus
}

// NewUpdateHandler creates a new update handler.
func NewUpdateHandler(connector *Connector, log *logger.Logger, msgBus *bus.MessageBus) *UpdateHandler {
	return &UpdateHandler{
		connector: connector,
		logger:    log,
		bus:       msgBus,
	}
}

// Handle processes a single Telegram update.
func (uh *UpdateHandler) Handle(update telego.Update) error {
	if update.CallbackQuery != nil {
		return uh.handleCallback(update.CallbackQuery)
	}
	if update.Message != nil {
		return uh.handleMessage(update.Message)
	}
	return nil
}

// handleMessage publishes a text message to the bus inbound queue.
func (uh *UpdateHandler) handleMessage(msg *telego.Message) error {
	if msg.Text == "" {
		// Skip non-text messages (photos, stickers, voice) for now
		return nil
	}

	chatID := fmt.Sprintf("%d", msg.Chat.ID)

	if !uh.connector.isAllowedChat(chatID) {
		uh.logger.WarnCtx(uh.connector.ctx, "message blocked - chat not in whitelist",
			logger.Field{Key: "chat_id", Value: chatID})
		uh.notifyUnauthorized(msg.Chat.ID)
		return nil
	}

	metadata := map[string]any{
		"message_id": msg.MessageID,
	}
	if msg.From != nil {
		metadata["username"] = msg.From.Username
		metadata["first_name"] = msg.From.FirstName
		metadata["language_code"] = msg.From.LanguageCode
	}

	inboundMsg := bus.NewInboundMessage(bus.ChannelTypeTelegram, chatID, msg.Text, metadata)
	if err := uh.bus.PublishInbound(*inboundMsg); err != nil {
		return fmt.Errorf("failed to publish inbound message: %w", err)
	}

	uh.logger.DebugCtx(uh.connector.ctx, "inbound message published",
		logger.Field{Key: "chat_id", Value: chatID},
		logger.Field{Key: "content", Value: msg.Text})
	return nil
}

// handleCallback answers an inline keyboard callback, removes the keyboard
// so buttons cannot be pressed twice, and publishes the button payload to
// the bus inbound queue.
func (uh *UpdateHandler) handleCallback(query *telego.CallbackQuery) error {
	chatID := ""
	messageID := 0
	if query.Message != nil {
		chatID = fmt.Sprintf("%d", query.Message.GetChat().ID)
		messageID = query.Message.GetMessageID()
	}

	if chatID == "" || !uh.connector.isAllowedChat(chatID) {
		uh.logger.WarnCtx(uh.connector.ctx, "callback query blocked",
			logger.Field{Key: "chat_id", Value: chatID})
		uh.answerCallback(query.ID)
		return nil
	}

	// Answer immediately so the client stops its loading animation
	uh.answerCallback(query.ID)
	uh.removeKeyboard(query.Message.GetChat().ID, messageID)

	metadata := map[string]any{
		MetadataKeyCallbackData: query.Data,
		"callback_query_id":     query.ID,
		"message_id":            messageID,
	}

	inboundMsg := bus.NewInboundMessage(bus.ChannelTypeTelegram, chatID, query.Data, metadata)
	if err := uh.bus.PublishInbound(*inboundMsg); err != nil {
		return fmt.Errorf("failed to publish inbound callback message: %w", err)
	}

	uh.logger.DebugCtx(uh.connector.ctx, "inbound callback published",
		logger.Field{Key: "chat_id", Value: chatID},
		logger.Field{Key: "callback_data", Value: query.Data})
	return nil
}

// answerCallback acknowledges a callback query, with a bounded timeout.
func (uh *UpdateHandler) answerCallback(queryID string) {
	if uh.connector.bot == nil {
		return
	}

	timeout := time.Duration(uh.connector.cfg.AnswerCallbackTimeout) * time.Second
	if timeout == 0 {
		timeout = time.Duration(constants.DefaultAnswerCallbackTimeoutSeconds) * time.Second
	}
	ctx, cancel := context.WithTimeout(uh.connector.ctx, timeout)
	defer cancel()

	if err := uh.connector.bot.AnswerCallbackQuery(ctx, &telego.AnswerCallbackQueryParams{
		CallbackQueryID: queryID,
	}); err != nil {
		uh.logger.ErrorCtx(uh.connector.ctx, "failed to answer callback query", err,
			logger.Field{Key: "callback_query_id", Value: queryID})
	}
}

// removeKeyboard strips the inline keyboard from a sent message.
func (uh *UpdateHandler) removeKeyboard(chatID int64, messageID int) {
	if uh.connector.bot == nil || messageID == 0 {
		return
	}

	ctx, cancel := uh.connector.sendTimeout()
	defer cancel()

	_, err := uh.connector.bot.EditMessageReplyMarkup(ctx, &telego.EditMessageReplyMarkupParams{
		ChatID:    telego.ChatID{ID: chatID},
		MessageID: messageID,
	})
	if err != nil {
		uh.logger.ErrorCtx(uh.connector.ctx, "failed to remove inline keyboard", err,
			logger.Field{Key: "chat_id", Value: chatID},
			logger.Field{Key: "message_id", Value: messageID})
	}
}

// notifyUnauthorized tells an unknown chat it cannot use the bot.
func (uh *UpdateHandler) notifyUnauthorized(chatID int64) {
	if uh.connector.bot == nil {
		return
	}

	ctx, cancel := uh.connector.sendTimeout()
	defer cancel()

	_, err := uh.connector.bot.SendMessage(ctx, &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: chatID},
		Text:   "Sorry, you are not authorized to use this bot.",
	})
	if err != nil {
		uh.logger.ErrorCtx(uh.connector.ctx, "failed to send authorization notice", err)
	}
}
