// Package commands handles the chat commands, the inline keyboard
// callbacks and the "waiting for a reply" dialog states of a conversation.
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lmoroni/cactusbot/internal/bus"
	"github.com/lmoroni/cactusbot/internal/constants"
	"github.com/lmoroni/cactusbot/internal/logger"
	"github.com/lmoroni/cactusbot/internal/reminder"
	"github.com/lmoroni/cactusbot/internal/timeparse"
	"github.com/lmoroni/cactusbot/internal/userprefs"
)

// SchedulerInterface defines the scheduling operations needed by Handler.
type SchedulerInterface interface {
	Schedule(chatID string, d timeparse.Descriptor, content string, kind reminder.Kind) (reminder.Entry, error)
	ScheduleAt(chatID string, dueAt time.Time, content string, kind reminder.Kind) (reminder.Entry, error)
	Cancel(chatID, entryID string) error
	List(chatID string) ([]reminder.Entry, error)
}

// PreferencesInterface defines the user preference operations needed by Handler.
type PreferencesInterface interface {
	Get(chatID string) (userprefs.Preferences, error)
	SetUsername(chatID, username string) error
	SetInitializationPrompt(chatID, prompt string) error
	SetVoice(chatID, voice string) error
	SetLanguage(chatID, lang string) error
}

// MessageBusInterface defines the message bus operations needed by Handler.
type MessageBusInterface interface {
	PublishOutbound(msg bus.OutboundMessage) error
}

// Handler handles chat commands and inline keyboard callbacks.
type Handler struct {
	scheduler  SchedulerInterface
	prefs      PreferencesInterface
	messageBus MessageBusInterface
	sessions   *SessionStore
	logger     *logger.Logger
}

// NewHandler creates a new command handler.
func NewHandler(
	scheduler SchedulerInterface,
	prefs PreferencesInterface,
	messageBus MessageBusInterface,
	sessions *SessionStore,
	log *logger.Logger,
) *Handler {
	return &Handler{
		scheduler:  scheduler,
		prefs:      prefs,
		messageBus: messageBus,
		sessions:   sessions,
		logger:     log,
	}
}

// HandleCommand processes a command based on its name.
func (h *Handler) HandleCommand(ctx context.Context, cmd string, msg bus.InboundMessage) error {
	switch cmd {
	case constants.CommandStart:
		return h.reply(msg, constants.MsgGreeting, nil)
	case constants.CommandReminders:
		return h.handleListReminders(ctx, msg)
	case constants.CommandDelete:
		return h.handleDelete(ctx, msg)
	case constants.CommandUsername:
		h.sessions.SetAwait(msg.ChatID, AwaitUsername)
		return h.reply(msg, constants.MsgAskUsername, nil)
	case constants.CommandInitPrompt:
		h.sessions.SetAwait(msg.ChatID, AwaitInitPrompt)
		return h.reply(msg, constants.MsgAskInitPrompt, nil)
	case constants.CommandShowInit:
		return h.handleShowInit(ctx, msg)
	case constants.CommandVoice:
		return h.handleVoicePreference(msg)
	default:
		h.logger.WarnCtx(ctx, "unknown command",
			logger.Field{Key: "command", Value: cmd},
			logger.Field{Key: "chat_id", Value: msg.ChatID})
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

// ConsumeAwait handles a plain-text message that answers an earlier
// question (/username or /init_prompt). It reports whether the message was
// consumed; unconsumed messages belong to the regular request flow.
func (h *Handler) ConsumeAwait(ctx context.Context, msg bus.InboundMessage) (bool, error) {
	switch h.sessions.Await(msg.ChatID) {
	case AwaitUsername:
		h.sessions.ClearAwait(msg.ChatID)
		if err := h.prefs.SetUsername(msg.ChatID, msg.Content); err != nil {
			return true, fmt.Errorf("failed to store username: %w", err)
		}
		return true, h.reply(msg, fmt.Sprintf(constants.MsgUsernameSavedFormat, msg.Content), nil)

	case AwaitInitPrompt:
		h.sessions.ClearAwait(msg.ChatID)
		if err := h.prefs.SetInitializationPrompt(msg.ChatID, msg.Content); err != nil {
			return true, fmt.Errorf("failed to store initialization prompt: %w", err)
		}
		return true, h.reply(msg, constants.MsgInitPromptSaved, nil)

	default:
		return false, nil
	}
}

// handleListReminders renders the conversation's pending entries.
func (h *Handler) handleListReminders(ctx context.Context, msg bus.InboundMessage) error {
	entries, err := h.scheduler.List(msg.ChatID)
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}

	if len(entries) == 0 {
		return h.reply(msg, constants.MsgNoReminders, nil)
	}

	text := constants.MsgRemindersHeader
	for _, entry := range entries {
		text += entryLine(entry)
	}
	return h.reply(msg, text, nil)
}

// handleDelete offers one delete button per pending entry.
func (h *Handler) handleDelete(ctx context.Context, msg bus.InboundMessage) error {
	entries, err := h.scheduler.List(msg.ChatID)
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}

	if len(entries) == 0 {
		return h.reply(msg, constants.MsgNoReminders, nil)
	}

	keyboard := &bus.InlineKeyboard{}
	for _, entry := range entries {
		keyboard.Rows = append(keyboard.Rows, []bus.InlineButton{{
			Text:         entryButtonText(entry),
			CallbackData: constants.CallbackDeletePrefix + entry.ID,
		}})
	}
	return h.reply(msg, constants.MsgWhichDelete, keyboard)
}

// handleShowInit shows the stored initialization prompt.
func (h *Handler) handleShowInit(ctx context.Context, msg bus.InboundMessage) error {
	prefs, err := h.prefs.Get(msg.ChatID)
	if err != nil {
		return fmt.Errorf("failed to load preferences: %w", err)
	}

	if prefs.InitializationPrompt == "" {
		return h.reply(msg, constants.MsgNoInitPrompt, nil)
	}
	return h.reply(msg, fmt.Sprintf(constants.MsgShowInitFormat, prefs.InitializationPrompt), nil)
}

// handleVoicePreference offers the language/voice options.
func (h *Handler) handleVoicePreference(msg bus.InboundMessage) error {
	options := []string{"english-male", "english-female", "italian-male", "italian-female"}

	keyboard := &bus.InlineKeyboard{}
	for _, option := range options {
		keyboard.Rows = append(keyboard.Rows, []bus.InlineButton{{
			Text:         option,
			CallbackData: constants.CallbackVoicePrefix + option,
		}})
	}
	return h.reply(msg, constants.MsgWhichVoice, keyboard)
}

// reply publishes an outbound message for the conversation, optionally with
// an inline keyboard.
func (h *Handler) reply(msg bus.InboundMessage, text string, keyboard *bus.InlineKeyboard) error {
	outbound := bus.NewOutboundMessage(msg.ChannelType, msg.ChatID, text, uuid.NewString(), nil)
	outbound.InlineKeyboard = keyboard

	if err := h.messageBus.PublishOutbound(*outbound); err != nil {
		return fmt.Errorf("failed to publish reply: %w", err)
	}
	return nil
}
