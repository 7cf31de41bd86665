package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lmoroni/cactusbot/internal/bus"
	"github.com/lmoroni/cactusbot/internal/channels/telegram"
	"github.com/lmoroni/cactusbot/internal/classifier"
	"github.com/lmoroni/cactusbot/internal/commands"
	"github.com/lmoroni/cactusbot/internal/constants"
	"github.com/lmoroni/cactusbot/internal/llm"
	"github.com/lmoroni/cactusbot/internal/logger"
	"github.com/lmoroni/cactusbot/internal/persona"
	"github.com/lmoroni/cactusbot/internal/reminder"
	"github.com/lmoroni/cactusbot/internal/retry"
	"github.com/lmoroni/cactusbot/internal/timeparse"
)

// StartMessageProcessing starts the message processing loop. It subscribes
// to inbound messages and processes them in a goroutine.
func (a *App) StartMessageProcessing(ctx context.Context) error {
	inboundCh := a.messageBus.SubscribeInbound(ctx)
	if inboundCh == nil {
		return fmt.Errorf("failed to subscribe to inbound messages")
	}

	go func() {
		a.logger.Info("message processing started")
		for {
			select {
			case <-ctx.Done():
				a.logger.Info("message processing stopped")
				return
			case msg, ok := <-inboundCh:
				if !ok {
					a.logger.Info("inbound channel closed")
					return
				}
				a.processMessage(ctx, msg)
			}
		}
	}()

	return nil
}

// processMessage routes a single inbound message: keyboard callbacks first,
// then slash commands, then replies the conversation is waiting for, and
// finally the request flow through the classifier.
func (a *App) processMessage(ctx context.Context, msg bus.InboundMessage) {
	a.logger.DebugCtx(ctx, "processing message",
		logger.Field{Key: "chat_id", Value: msg.ChatID})

	if data, ok := callbackData(msg); ok {
		if err := a.commandHandler.HandleCallback(ctx, data, msg); err != nil {
			a.logger.ErrorCtx(ctx, "failed to handle callback", err,
				logger.Field{Key: "chat_id", Value: msg.ChatID})
		}
		return
	}

	if cmd, ok := parseCommand(msg.Content); ok {
		if err := a.commandHandler.HandleCommand(ctx, cmd, msg); err != nil {
			a.logger.ErrorCtx(ctx, "failed to handle command", err,
				logger.Field{Key: "command", Value: cmd},
				logger.Field{Key: "chat_id", Value: msg.ChatID})
		}
		return
	}

	if handled, err := a.commandHandler.ConsumeAwait(ctx, msg); handled {
		if err != nil {
			a.logger.ErrorCtx(ctx, "failed to handle awaited reply", err,
				logger.Field{Key: "chat_id", Value: msg.ChatID})
		}
		return
	}

	a.handleRequest(ctx, msg)
}

// handleRequest classifies a free-text request and either starts the
// reminder/timer flow or falls back to a plain LLM chat reply.
func (a *App) handleRequest(ctx context.Context, msg bus.InboundMessage) {
	action, err := a.classifier.Classify(ctx, msg.Content)
	if err != nil {
		a.logger.ErrorCtx(ctx, "failed to classify request", err,
			logger.Field{Key: "chat_id", Value: msg.ChatID})
		a.reply(msg, constants.MsgLLMUnavailable, nil)
		return
	}

	switch action {
	case classifier.ActionReminder:
		a.handleReminderRequest(ctx, msg)
	case classifier.ActionTimer:
		a.handleTimerRequest(ctx, msg)
	default:
		a.chat(ctx, msg)
	}
}

// handleReminderRequest extracts a reminder proposal and asks the user to
// confirm it. The entry is only persisted after the user taps Yes.
func (a *App) handleReminderRequest(ctx context.Context, msg bus.InboundMessage) {
	proposal, err := a.classifier.ExtractReminder(ctx, msg.Content)
	if err != nil {
		a.logger.WarnCtx(ctx, "failed to extract reminder",
			logger.Field{Key: "chat_id", Value: msg.ChatID},
			logger.Field{Key: "error", Value: err.Error()})
		a.reply(msg, constants.MsgTimeUnclear, nil)
		return
	}

	dueAt, err := timeparse.Resolve(proposal.Descriptor, time.Now())
	if err != nil {
		a.reply(msg, rejectionMessage(err), nil)
		return
	}

	a.sessions.SetPending(msg.ChatID, commands.Pending{Content: proposal.Content, DueAt: dueAt})

	keyboard := &bus.InlineKeyboard{
		Rows: [][]bus.InlineButton{{
			{Text: "Yes", CallbackData: constants.CallbackConfirmYes},
			{Text: "No", CallbackData: constants.CallbackConfirmNo},
		}},
	}
	a.reply(msg, commands.FormatConfirmation(proposal.Content, dueAt), keyboard)
}

// handleTimerRequest extracts a timer proposal and schedules it right away.
// Timers are short countdowns, a confirmation round-trip would defeat them.
func (a *App) handleTimerRequest(ctx context.Context, msg bus.InboundMessage) {
	proposal, err := a.classifier.ExtractTimer(ctx, msg.Content)
	if err != nil {
		a.logger.WarnCtx(ctx, "failed to extract timer",
			logger.Field{Key: "chat_id", Value: msg.ChatID},
			logger.Field{Key: "error", Value: err.Error()})
		a.reply(msg, constants.MsgTimeUnclear, nil)
		return
	}

	if _, err := a.scheduler.Schedule(msg.ChatID, proposal.Descriptor, proposal.Content, reminder.KindTimer); err != nil {
		a.reply(msg, rejectionMessage(err), nil)
		return
	}
	a.reply(msg, constants.MsgTimerSet, nil)
}

// chat answers a request through the LLM with the persona system prompt.
func (a *App) chat(ctx context.Context, msg bus.InboundMessage) {
	prefs, err := a.prefs.Get(msg.ChatID)
	if err != nil {
		a.logger.WarnCtx(ctx, "failed to load preferences",
			logger.Field{Key: "chat_id", Value: msg.ChatID},
			logger.Field{Key: "error", Value: err.Error()})
	}

	p, err := a.personas.Get(persona.DefaultName)
	if err != nil {
		a.logger.ErrorCtx(ctx, "failed to load persona", err)
		a.reply(msg, constants.MsgLLMUnavailable, nil)
		return
	}

	systemPrompt := persona.BuildSystemPrompt(p, persona.PromptContext{
		Username:             prefs.Username,
		InitializationPrompt: prefs.InitializationPrompt,
		Now:                  time.Now(),
	})

	request := llm.ChatRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: msg.Content},
		},
	}

	response, err := retry.DoWithRetry(ctx, func() (string, error) {
		resp, err := a.provider.Chat(ctx, request)
		if err != nil {
			return "", err
		}
		return resp.Content, nil
	}, retry.Config{})
	if err != nil {
		a.logger.ErrorCtx(ctx, "failed to get chat response", err,
			logger.Field{Key: "chat_id", Value: msg.ChatID})
		a.reply(msg, constants.MsgLLMUnavailable, nil)
		return
	}

	a.reply(msg, strings.TrimSpace(response), nil)
}

// reply publishes an outbound message for the conversation.
func (a *App) reply(msg bus.InboundMessage, text string, keyboard *bus.InlineKeyboard) {
	if text == "" {
		return
	}

	outbound := bus.NewOutboundMessage(msg.ChannelType, msg.ChatID, text, uuid.NewString(), nil)
	outbound.InlineKeyboard = keyboard

	if err := a.messageBus.PublishOutbound(*outbound); err != nil {
		a.logger.Error("failed to publish reply", err,
			logger.Field{Key: "chat_id", Value: msg.ChatID})
	}
}

// rejectionMessage maps a scheduling rejection to the user-facing reply.
func rejectionMessage(err error) string {
	switch {
	case errors.Is(err, timeparse.ErrInPast):
		return constants.MsgTimeInPast
	case errors.Is(err, timeparse.ErrNoTimeSpecified),
		errors.Is(err, timeparse.ErrMalformedDescriptor):
		return constants.MsgTimeUnclear
	default:
		return constants.MsgScheduleFailed
	}
}

// callbackData extracts the inline keyboard payload from message metadata.
func callbackData(msg bus.InboundMessage) (string, bool) {
	if msg.Metadata == nil {
		return "", false
	}
	data, ok := msg.Metadata[telegram.MetadataKeyCallbackData].(string)
	return data, ok && data != ""
}

// parseCommand recognizes a "/command" message, tolerating the
// "/command@botname" form Telegram uses in groups.
func parseCommand(content string) (string, bool) {
	if !strings.HasPrefix(content, "/") {
		return "", false
	}

	cmd := strings.TrimPrefix(strings.Fields(content)[0], "/")
	cmd, _, _ = strings.Cut(cmd, "@")
	if cmd == "" {
		return "", false
	}
	return cmd, true
}
