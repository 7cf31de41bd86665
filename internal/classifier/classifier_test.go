package classifier

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmoroni/cactusbot/internal/llm"
	"github.com/lmoroni/cactusbot/internal/logger"
	"github.com/lmoroni/cactusbot/internal/timeparse"
)

func newTestClassifier(t *testing.T, provider llm.Provider) *Classifier {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "error", Format: "text", Output: "stderr"})
	require.NoError(t, err)

	c := New(provider, log)
	c.now = func() time.Time {
		return time.Date(2025, 1, 1, 10, 0, 0, 0, time.Local)
	}
	return c
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   Action
	}{
		{"reminder", "<<reminder>>", ActionReminder},
		{"timer", "<<timer>>", ActionTimer},
		{"system info", "<<system_info>>", ActionSystemInfo},
		{"plain chat", "<<llm_answer>>", ActionNone},
		{"tag inside prose", "The answer is <<reminder>>.", ActionReminder},
		{"unrecognized falls back to chat", "I have no idea", ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClassifier(t, llm.NewFixedProvider(tt.answer))

			got, err := c.Classify(context.Background(), "some message")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_ProviderError(t *testing.T) {
	c := newTestClassifier(t, llm.NewErrorProvider())

	_, err := c.Classify(context.Background(), "some message")
	require.Error(t, err)
}

func TestExtractReminder(t *testing.T) {
	answer := `{
  "content": "Check the oven",
  "time_type": "delay",
  "time_value": "0y0m0d0h25m0s"
}`
	provider := llm.NewFixedProvider(answer)
	c := newTestClassifier(t, provider)

	proposal, err := c.ExtractReminder(context.Background(), "remind me to check the oven in 25 minutes")
	require.NoError(t, err)

	assert.Equal(t, "Check the oven", proposal.Content)
	assert.Equal(t, timeparse.KindDelay, proposal.Descriptor.Kind)
	assert.Equal(t, "0y0m0d0h25m0s", proposal.Descriptor.Value)

	// The prompt must carry the reference date so relative requests resolve consistently
	last := provider.LastRequest()
	require.NotNil(t, last)
	assert.Contains(t, last.Messages[0].Content, "2025-01-01")
	assert.Contains(t, last.Messages[0].Content, "check the oven")
}

func TestExtractReminder_ProseAroundJSON(t *testing.T) {
	answer := "Sure! Here is the JSON:\n```json\n{\"content\": \"Call John\", \"time_type\": \"time\", \"time_value\": \"2025-03-10 09:00\"}\n```"
	c := newTestClassifier(t, llm.NewFixedProvider(answer))

	proposal, err := c.ExtractReminder(context.Background(), "call john march 10 at 9")
	require.NoError(t, err)

	assert.Equal(t, "Call John", proposal.Content)
	assert.Equal(t, timeparse.KindAbsolute, proposal.Descriptor.Kind)
	assert.Equal(t, "2025-03-10 09:00", proposal.Descriptor.Value)
}

func TestExtractReminder_RelativePrefixStripped(t *testing.T) {
	answer := `{"content": "Wake up", "time_type": "relative", "time_value": "RELATIVE:WEEKDAY_AND_TIME:Wednesday:07:00"}`
	c := newTestClassifier(t, llm.NewFixedProvider(answer))

	proposal, err := c.ExtractReminder(context.Background(), "wednesday at 7, wake me up")
	require.NoError(t, err)

	assert.Equal(t, timeparse.KindRelative, proposal.Descriptor.Kind)
	assert.Equal(t, "WEEKDAY_AND_TIME:Wednesday:07:00", proposal.Descriptor.Value)
}

func TestExtractReminder_Undefined(t *testing.T) {
	answer := `{"content": "Meeting", "time_type": "delay", "time_value": "undefined"}`
	c := newTestClassifier(t, llm.NewFixedProvider(answer))

	proposal, err := c.ExtractReminder(context.Background(), "let me know about the meeting later")
	require.NoError(t, err)

	assert.True(t, proposal.Descriptor.Undefined())
	assert.Equal(t, "Meeting", proposal.Content)
}

func TestExtractReminder_NoJSON(t *testing.T) {
	c := newTestClassifier(t, llm.NewFixedProvider("I cannot help with that"))

	_, err := c.ExtractReminder(context.Background(), "remind me")
	require.ErrorIs(t, err, ErrUnparsableOutput)
}

func TestExtractReminder_InvalidJSON(t *testing.T) {
	c := newTestClassifier(t, llm.NewFixedProvider(`{"content": broken`))

	_, err := c.ExtractReminder(context.Background(), "remind me")
	require.ErrorIs(t, err, ErrUnparsableOutput)
}

func TestExtractReminder_UnknownTimeType(t *testing.T) {
	answer := `{"content": "x", "time_type": "cron", "time_value": "* * * * *"}`
	c := newTestClassifier(t, llm.NewFixedProvider(answer))

	_, err := c.ExtractReminder(context.Background(), "remind me")
	require.ErrorIs(t, err, timeparse.ErrMalformedDescriptor)
}

func TestExtractTimer(t *testing.T) {
	answer := `{"time_type": "delay", "time_value": "0y0m0d0h10m0s"}`
	c := newTestClassifier(t, llm.NewFixedProvider(answer))

	proposal, err := c.ExtractTimer(context.Background(), "set a timer for 10 minutes")
	require.NoError(t, err)

	assert.Empty(t, proposal.Content)
	assert.Equal(t, timeparse.KindDelay, proposal.Descriptor.Kind)
	assert.Equal(t, "0y0m0d0h10m0s", proposal.Descriptor.Value)
}

func TestExtractBetweenBraces(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, true},
		{"surrounded by prose", `before {"a":1} after`, `{"a":1}`, true},
		{"nested braces", `{"a":{"b":2}}`, `{"a":{"b":2}}`, true},
		{"no braces", "nothing here", "", false},
		{"only open brace", "{oops", "", false},
		{"reversed braces", "} {", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractBetweenBraces(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
