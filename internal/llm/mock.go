package llm

import (
	"context"
	"fmt"
)

// MockProvider is a mock implementation of the Provider interface for testing
// and graceful degradation scenarios.
type MockProvider struct {
	responses     []string // Pre-defined responses (rotates through them)
	responseIndex int      // Current index in responses
	mode          MockMode // Mode of operation (echo, fixed, fixtures)
	callCount     int      // Number of Chat() calls made
	requests      []ChatRequest
}

// MockMode defines the operation mode of the mock provider.
type MockMode int

const (
	// MockModeEcho returns the user's message (echo mode)
	MockModeEcho MockMode = iota

	// MockModeFixed returns a fixed response
	MockModeFixed

	// MockModeFixtures returns pre-defined responses in rotation
	MockModeFixtures

	// MockModeError always returns an error
	MockModeError
)

// NewEchoProvider creates a mock provider that echoes user messages.
func NewEchoProvider() *MockProvider {
	return &MockProvider{mode: MockModeEcho}
}

// NewFixedProvider creates a mock provider that always returns a fixed response.
func NewFixedProvider(response string) *MockProvider {
	return &MockProvider{mode: MockModeFixed, responses: []string{response}}
}

// NewFixturesProvider creates a mock provider that cycles through pre-defined responses.
func NewFixturesProvider(responses []string) *MockProvider {
	return &MockProvider{mode: MockModeFixtures, responses: responses}
}

// NewErrorProvider creates a mock provider that always returns errors.
func NewErrorProvider() *MockProvider {
	return &MockProvider{mode: MockModeError}
}

// Chat implements the Provider interface.
func (m *MockProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	m.callCount++
	m.requests = append(m.requests, req)

	if m.mode == MockModeError {
		return nil, fmt.Errorf("mock provider error")
	}

	// Get the user message (last message if available)
	var userMessage string
	if len(req.Messages) > 0 {
		lastMsg := req.Messages[len(req.Messages)-1]
		if lastMsg.Role == RoleUser {
			userMessage = lastMsg.Content
		}
	}

	var response string
	switch m.mode {
	case MockModeEcho:
		if userMessage != "" {
			response = fmt.Sprintf("Echo: %s", userMessage)
		} else {
			response = "Echo: (no user message)"
		}
	case MockModeFixed:
		if len(m.responses) > 0 {
			response = m.responses[0]
		} else {
			response = "Fixed response: no responses configured"
		}
	case MockModeFixtures:
		if len(m.responses) > 0 {
			response = m.responses[m.responseIndex]
			m.responseIndex = (m.responseIndex + 1) % len(m.responses)
		} else {
			response = "Fixtures: no responses configured"
		}
	default:
		response = "Unknown mock mode"
	}

	return &ChatResponse{
		Content:      response,
		Model:        req.Model,
		FinishReason: FinishReasonStop,
		Usage: Usage{
			PromptTokens:     len(userMessage),
			CompletionTokens: len(response),
			TotalTokens:      len(userMessage) + len(response),
		},
	}, nil
}

// GetDefaultModel implements the Provider interface.
func (m *MockProvider) GetDefaultModel() string {
	return "mock-model"
}

// GetCallCount returns the number of Chat() calls made to this provider.
// Useful for testing.
func (m *MockProvider) GetCallCount() int {
	return m.callCount
}

// LastRequest returns the most recent ChatRequest, or nil if none were made.
// Useful for asserting on prompts in tests.
func (m *MockProvider) LastRequest() *ChatRequest {
	if len(m.requests) == 0 {
		return nil
	}
	return &m.requests[len(m.requests)-1]
}

// SetResponses sets the list of responses.
func (m *MockProvider) SetResponses(responses []string) {
	m.responses = responses
	m.responseIndex = 0
}
