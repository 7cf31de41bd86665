package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lmoroni/cactusbot/internal/bus"
	"github.com/lmoroni/cactusbot/internal/constants"
	"github.com/lmoroni/cactusbot/internal/logger"
	"github.com/lmoroni/cactusbot/internal/reminder"
	"github.com/lmoroni/cactusbot/internal/timeparse"
)

// HandleCallback processes an inline keyboard callback payload.
func (h *Handler) HandleCallback(ctx context.Context, data string, msg bus.InboundMessage) error {
	switch {
	case data == constants.CallbackConfirmYes:
		return h.handleConfirmYes(ctx, msg)

	case data == constants.CallbackConfirmNo:
		h.sessions.TakePending(msg.ChatID)
		return h.reply(msg, constants.MsgReminderCanceled, nil)

	case strings.HasPrefix(data, constants.CallbackDeletePrefix):
		entryID := strings.TrimPrefix(data, constants.CallbackDeletePrefix)
		return h.handleDeleteEntry(ctx, entryID, msg)

	case strings.HasPrefix(data, constants.CallbackVoicePrefix):
		option := strings.TrimPrefix(data, constants.CallbackVoicePrefix)
		return h.handleSetVoice(ctx, option, msg)

	default:
		h.logger.WarnCtx(ctx, "unknown callback payload",
			logger.Field{Key: "data", Value: data},
			logger.Field{Key: "chat_id", Value: msg.ChatID})
		return fmt.Errorf("unknown callback payload: %s", data)
	}
}

// handleConfirmYes persists the pending reminder proposal at the instant
// the confirmation question displayed.
func (h *Handler) handleConfirmYes(ctx context.Context, msg bus.InboundMessage) error {
	pending, ok := h.sessions.TakePending(msg.ChatID)
	if !ok {
		// Stale tap: the proposal was already confirmed or replaced
		h.logger.DebugCtx(ctx, "confirmation without pending proposal",
			logger.Field{Key: "chat_id", Value: msg.ChatID})
		return nil
	}

	_, err := h.scheduler.ScheduleAt(msg.ChatID, pending.DueAt, pending.Content, reminder.KindReminder)
	if err != nil {
		return h.reply(msg, scheduleErrorMessage(err), nil)
	}
	return h.reply(msg, constants.MsgReminderConfirmed, nil)
}

// handleDeleteEntry removes an entry picked from the delete keyboard.
func (h *Handler) handleDeleteEntry(ctx context.Context, entryID string, msg bus.InboundMessage) error {
	if err := h.scheduler.Cancel(msg.ChatID, entryID); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return h.reply(msg, constants.MsgReminderDeleted, nil)
}

// handleSetVoice stores a <language>-<voice> preference pair.
func (h *Handler) handleSetVoice(ctx context.Context, option string, msg bus.InboundMessage) error {
	lang, voice, found := strings.Cut(option, "-")
	if !found {
		return fmt.Errorf("malformed voice preference: %s", option)
	}

	if err := h.prefs.SetLanguage(msg.ChatID, lang); err != nil {
		return fmt.Errorf("failed to store language preference: %w", err)
	}
	if err := h.prefs.SetVoice(msg.ChatID, voice); err != nil {
		return fmt.Errorf("failed to store voice preference: %w", err)
	}
	return h.reply(msg, constants.MsgVoiceSaved, nil)
}

// scheduleErrorMessage maps a scheduling rejection to the user-facing reply.
func scheduleErrorMessage(err error) string {
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
