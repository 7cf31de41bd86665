package telegram

import (
	"context"
	"sync"

	"github.com/mymmrac/telego"
)

// MockBot is a test double for BotInterface recording every call.
type MockBot struct {
	mu sync.Mutex

	SentMessages    []telego.SendMessageParams
	AnsweredQueries []telego.AnswerCallbackQueryParams
	EditedMarkups   []telego.EditMessageReplyMarkupParams
	Commands        *telego.SetMyCommandsParams

	SendErr    error
	UpdatesCh  chan telego.Update
	BotUser    telego.User
	GetMeErr   error
	UpdatesErr error
}

func NewMockBot() *MockBot {
	return &MockBot{
		UpdatesCh: make(chan telego.Update, 16),
		BotUser:   telego.User{ID: 42, Username: "cactusbot_test"},
	}
}

func (m *MockBot) GetMe(ctx context.Context) (*telego.User, error) {
	if m.GetMeErr != nil {
		return nil, m.GetMeErr
	}
	return &m.BotUser, nil
}

func (m *MockBot) SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendErr != nil {
		return nil, m.SendErr
	}
	m.SentMessages = append(m.SentMessages, *params)
	return &telego.Message{MessageID: len(m.SentMessages)}, nil
}

func (m *MockBot) SetMyCommands(ctx context.Context, params *telego.SetMyCommandsParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Commands = params
	return nil
}

func (m *MockBot) UpdatesViaLongPolling(ctx context.Context, params *telego.GetUpdatesParams, opts ...telego.LongPollingOption) (<-chan telego.Update, error) {
	if m.UpdatesErr != nil {
		return nil, m.UpdatesErr
	}
	return m.UpdatesCh, nil
}

func (m *MockBot) AnswerCallbackQuery(ctx context.Context, params *telego.AnswerCallbackQueryParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AnsweredQueries = append(m.AnsweredQueries, *params)
	return nil
}

func (m *MockBot) EditMessageReplyMarkup(ctx context.Context, params *telego.EditMessageReplyMarkupParams) (*telego.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EditedMarkups = append(m.EditedMarkups, *params)
	return &telego.Message{}, nil
}

// LastSent returns the most recently sent message, or nil.
func (m *MockBot) LastSent() *telego.SendMessageParams {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.SentMessages) == 0 {
		return nil
	}
	return &m.SentMessages[len(m.SentMessages)-1]
}
