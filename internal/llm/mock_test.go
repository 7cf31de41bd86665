package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_Echo(t *testing.T) {
	provider := NewEchoProvider()

	resp, err := provider.Chat(context.Background(), ChatRequest{
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Echo: hello", resp.Content)
	assert.Equal(t, FinishReasonStop, resp.FinishReason)
}

func TestMockProvider_Fixed(t *testing.T) {
	provider := NewFixedProvider("always this")

	for i := 0; i < 3; i++ {
		resp, err := provider.Chat(context.Background(), ChatRequest{
			Messages: []Message{{Role: RoleUser, Content: "anything"}},
		})
		require.NoError(t, err)
		assert.Equal(t, "always this", resp.Content)
	}
	assert.Equal(t, 3, provider.GetCallCount())
}

func TestMockProvider_Fixtures(t *testing.T) {
	provider := NewFixturesProvider([]string{"one", "two"})

	got := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := provider.Chat(context.Background(), ChatRequest{})
		require.NoError(t, err)
		got = append(got, resp.Content)
	}
	assert.Equal(t, []string{"one", "two", "one"}, got)
}

func TestMockProvider_Error(t *testing.T) {
	provider := NewErrorProvider()

	_, err := provider.Chat(context.Background(), ChatRequest{})
	require.Error(t, err)
}

func TestMockProvider_LastRequest(t *testing.T) {
	provider := NewFixedProvider("ok")
	assert.Nil(t, provider.LastRequest())

	_, err := provider.Chat(context.Background(), ChatRequest{
		Messages: []Message{{Role: RoleUser, Content: "remember me"}},
	})
	require.NoError(t, err)

	last := provider.LastRequest()
	require.NotNil(t, last)
	assert.Equal(t, "remember me", last.Messages[0].Content)
}
