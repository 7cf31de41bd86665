package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmoroni/cactusbot/internal/bus"
	"github.com/lmoroni/cactusbot/internal/constants"
	"github.com/lmoroni/cactusbot/internal/logger"
	"github.com/lmoroni/cactusbot/internal/reminder"
	"github.com/lmoroni/cactusbot/internal/timeparse"
	"github.com/lmoroni/cactusbot/internal/userprefs"
)

type mockScheduler struct {
	entries     []reminder.Entry
	listErr     error
	scheduleErr error

	scheduled []reminder.Entry
	canceled  []string
}

func (m *mockScheduler) Schedule(chatID string, d timeparse.Descriptor, content string, kind reminder.Kind) (reminder.Entry, error) {
	if m.scheduleErr != nil {
		return reminder.Entry{}, m.scheduleErr
	}
	entry := reminder.Entry{ID: "scheduled-1", Kind: kind, Content: content}
	m.scheduled = append(m.scheduled, entry)
	return entry, nil
}

func (m *mockScheduler) ScheduleAt(chatID string, dueAt time.Time, content string, kind reminder.Kind) (reminder.Entry, error) {
	if m.scheduleErr != nil {
		return reminder.Entry{}, m.scheduleErr
	}
	entry := reminder.Entry{ID: "scheduled-1", Kind: kind, Content: content, DueAt: dueAt}
	m.scheduled = append(m.scheduled, entry)
	return entry, nil
}

func (m *mockScheduler) Cancel(chatID, entryID string) error {
	m.canceled = append(m.canceled, entryID)
	return nil
}

func (m *mockScheduler) List(chatID string) ([]reminder.Entry, error) {
	return m.entries, m.listErr
}

type mockPrefs struct {
	prefs  userprefs.Preferences
	getErr error

	username   string
	initPrompt string
	voice      string
	language   string
}

func (m *mockPrefs) Get(chatID string) (userprefs.Preferences, error) {
	return m.prefs, m.getErr
}

func (m *mockPrefs) SetUsername(chatID, username string) error {
	m.username = username
	return nil
}

func (m *mockPrefs) SetInitializationPrompt(chatID, prompt string) error {
	m.initPrompt = prompt
	return nil
}

func (m *mockPrefs) SetVoice(chatID, voice string) error {
	m.voice = voice
	return nil
}

func (m *mockPrefs) SetLanguage(chatID, lang string) error {
	m.language = lang
	return nil
}

type mockBus struct {
	published []bus.OutboundMessage
	pubErr    error
}

func (m *mockBus) PublishOutbound(msg bus.OutboundMessage) error {
	if m.pubErr != nil {
		return m.pubErr
	}
	m.published = append(m.published, msg)
	return nil
}

func (m *mockBus) last(t *testing.T) bus.OutboundMessage {
	t.Helper()
	require.NotEmpty(t, m.published)
	return m.published[len(m.published)-1]
}

func newTestHandler(t *testing.T) (*Handler, *mockScheduler, *mockPrefs, *mockBus) {
	t.Helper()

	log, err := logger.New(logger.Config{Level: "error", Format: "text", Output: "stderr"})
	require.NoError(t, err)

	scheduler := &mockScheduler{}
	prefs := &mockPrefs{}
	msgBus := &mockBus{}
	handler := NewHandler(scheduler, prefs, msgBus, NewSessionStore(), log)
	return handler, scheduler, prefs, msgBus
}

func inbound(content string) bus.InboundMessage {
	return bus.InboundMessage{
		ChannelType: bus.ChannelTypeTelegram,
		ChatID:      "123",
		Content:     content,
	}
}

func TestHandleCommand_Start(t *testing.T) {
	handler, _, _, msgBus := newTestHandler(t)

	require.NoError(t, handler.HandleCommand(context.Background(), constants.CommandStart, inbound("/start")))
	assert.Equal(t, constants.MsgGreeting, msgBus.last(t).Content)
}

func TestHandleCommand_RemindersEmpty(t *testing.T) {
	handler, _, _, msgBus := newTestHandler(t)

	require.NoError(t, handler.HandleCommand(context.Background(), constants.CommandReminders, inbound("/reminders")))
	assert.Equal(t, constants.MsgNoReminders, msgBus.last(t).Content)
}

func TestHandleCommand_RemindersListing(t *testing.T) {
	handler, scheduler, _, msgBus := newTestHandler(t)
	scheduler.entries = []reminder.Entry{
		{
			ID:      "r1",
			Kind:    reminder.KindReminder,
			Content: "water the plants",
			DueAt:   time.Date(2025, 1, 15, 18, 0, 0, 0, time.Local),
		},
		{
			ID:    "t1",
			Kind:  reminder.KindTimer,
			DueAt: time.Date(2025, 1, 1, 10, 25, 0, 0, time.Local),
		},
	}

	require.NoError(t, handler.HandleCommand(context.Background(), constants.CommandReminders, inbound("/reminders")))

	text := msgBus.last(t).Content
	assert.Contains(t, text, "Here are your reminders:")
	assert.Contains(t, text, "- water the plants - 15/01/2025 18:00")
	assert.Contains(t, text, "- Timer - 01/01/2025 10:25")
}

func TestHandleCommand_DeleteKeyboard(t *testing.T) {
	handler, scheduler, _, msgBus := newTestHandler(t)
	scheduler.entries = []reminder.Entry{
		{
			ID:      "r1",
			Kind:    reminder.KindReminder,
			Content: "call mom",
			DueAt:   time.Date(2025, 1, 15, 18, 0, 0, 0, time.Local),
		},
	}

	require.NoError(t, handler.HandleCommand(context.Background(), constants.CommandDelete, inbound("/delete")))

	sent := msgBus.last(t)
	assert.Equal(t, constants.MsgWhichDelete, sent.Content)
	require.NotNil(t, sent.InlineKeyboard)
	require.Len(t, sent.InlineKeyboard.Rows, 1)
	button := sent.InlineKeyboard.Rows[0][0]
	assert.Equal(t, "call mom 15/01/2025 18:00", button.Text)
	assert.Equal(t, "delete_reminder_r1", button.CallbackData)
}

func TestHandleCommand_DeleteEmpty(t *testing.T) {
	handler, _, _, msgBus := newTestHandler(t)

	require.NoError(t, handler.HandleCommand(context.Background(), constants.CommandDelete, inbound("/delete")))
	assert.Equal(t, constants.MsgNoReminders, msgBus.last(t).Content)
}

func TestHandleCommand_UsernameFlow(t *testing.T) {
	handler, _, prefs, msgBus := newTestHandler(t)
	ctx := context.Background()

	require.NoError(t, handler.HandleCommand(ctx, constants.CommandUsername, inbound("/username")))
	assert.Equal(t, constants.MsgAskUsername, msgBus.last(t).Content)

	// The next plain message is the name
	handled, err := handler.ConsumeAwait(ctx, inbound("Lorenzo"))
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, "Lorenzo", prefs.username)
	assert.Contains(t, msgBus.last(t).Content, "Thanks Lorenzo!")

	// The one after that is a regular request again
	handled, err = handler.ConsumeAwait(ctx, inbound("remind me to sleep"))
	require.NoError(t, err)
	assert.False(t, handled)
}

func TestHandleCommand_InitPromptFlow(t *testing.T) {
	handler, _, prefs, msgBus := newTestHandler(t)
	ctx := context.Background()

	require.NoError(t, handler.HandleCommand(ctx, constants.CommandInitPrompt, inbound("/init_prompt")))
	assert.Equal(t, constants.MsgAskInitPrompt, msgBus.last(t).Content)

	handled, err := handler.ConsumeAwait(ctx, inbound("Always answer in rhymes"))
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, "Always answer in rhymes", prefs.initPrompt)
	assert.Equal(t, constants.MsgInitPromptSaved, msgBus.last(t).Content)
}

func TestHandleCommand_ShowInit(t *testing.T) {
	handler, _, prefs, msgBus := newTestHandler(t)
	prefs.prefs.InitializationPrompt = "Always answer in rhymes"

	require.NoError(t, handler.HandleCommand(context.Background(), constants.CommandShowInit, inbound("/show_init")))
	assert.Contains(t, msgBus.last(t).Content, "Always answer in rhymes")
}

func TestHandleCommand_ShowInitUnset(t *testing.T) {
	handler, _, _, msgBus := newTestHandler(t)

	require.NoError(t, handler.HandleCommand(context.Background(), constants.CommandShowInit, inbound("/show_init")))
	assert.Equal(t, constants.MsgNoInitPrompt, msgBus.last(t).Content)
}

func TestHandleCommand_VoicePreferenceKeyboard(t *testing.T) {
	handler, _, _, msgBus := newTestHandler(t)

	require.NoError(t, handler.HandleCommand(context.Background(), constants.CommandVoice, inbound("/voice_preference")))

	sent := msgBus.last(t)
	assert.Equal(t, constants.MsgWhichVoice, sent.Content)
	require.NotNil(t, sent.InlineKeyboard)
	require.Len(t, sent.InlineKeyboard.Rows, 4)
	assert.Equal(t, "english-male", sent.InlineKeyboard.Rows[0][0].Text)
	assert.Equal(t, "set_voice_preference_english-male", sent.InlineKeyboard.Rows[0][0].CallbackData)
	assert.Equal(t, "set_voice_preference_italian-female", sent.InlineKeyboard.Rows[3][0].CallbackData)
}

func TestHandleCommand_Unknown(t *testing.T) {
	handler, _, _, _ := newTestHandler(t)

	err := handler.HandleCommand(context.Background(), "frobnicate", inbound("/frobnicate"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestHandleCommand_ListError(t *testing.T) {
	handler, scheduler, _, _ := newTestHandler(t)
	scheduler.listErr = errors.New("disk gone")

	err := handler.HandleCommand(context.Background(), constants.CommandReminders, inbound("/reminders"))
	require.Error(t, err)
}
