package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmoroni/cactusbot/internal/logger"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "error", Format: "text", Output: "stderr"})
	require.NoError(t, err)
	return log
}

func newTestProvider(t *testing.T, handler http.HandlerFunc) (*GeminiProvider, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	provider := NewGeminiProvider(GeminiConfig{
		APIKey:  "test-key",
		Model:   "gemini-2.0-flash",
		BaseURL: server.URL,
	}, newTestLogger(t))

	return provider, server
}

func TestGeminiProvider_Chat(t *testing.T) {
	var captured geminiRequest

	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		resp := geminiResponse{
			Candidates: []geminiCandidate{
				{
					Content: geminiContent{
						Role:  "model",
						Parts: []geminiPart{{Text: "Hello "}, {Text: "there"}},
					},
					FinishReason: "STOP",
				},
			},
			UsageMetadata: geminiUsage{
				PromptTokenCount:     12,
				CandidatesTokenCount: 3,
				TotalTokenCount:      15,
			},
			ModelVersion: "gemini-2.0-flash-001",
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	resp, err := provider.Chat(context.Background(), ChatRequest{
		Messages: []Message{
			{Role: RoleSystem, Content: "You are a cactus."},
			{Role: RoleUser, Content: "hi"},
			{Role: RoleAssistant, Content: "hello"},
			{Role: RoleUser, Content: "how are you"},
		},
		Temperature: 0.5,
		MaxTokens:   64,
	})
	require.NoError(t, err)

	assert.Equal(t, "Hello there", resp.Content)
	assert.Equal(t, FinishReasonStop, resp.FinishReason)
	assert.Equal(t, "gemini-2.0-flash-001", resp.Model)
	assert.Equal(t, 15, resp.Usage.TotalTokens)

	// System message moves to the system instruction, assistant turns map to "model"
	require.NotNil(t, captured.SystemInstruction)
	assert.Equal(t, "You are a cactus.", captured.SystemInstruction.Parts[0].Text)
	require.Len(t, captured.Contents, 3)
	assert.Equal(t, "user", captured.Contents[0].Role)
	assert.Equal(t, "model", captured.Contents[1].Role)
	assert.Equal(t, "user", captured.Contents[2].Role)
	assert.Equal(t, 0.5, captured.GenerationConfig.Temperature)
	assert.Equal(t, 64, captured.GenerationConfig.MaxOutputTokens)
}

func TestGeminiProvider_ChatUsesConfigDefaults(t *testing.T) {
	var captured geminiRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		require.NoError(t, json.NewEncoder(w).Encode(geminiResponse{
			Candidates: []geminiCandidate{
				{Content: geminiContent{Parts: []geminiPart{{Text: "ok"}}}, FinishReason: "STOP"},
			},
		}))
	}))
	t.Cleanup(server.Close)

	provider := NewGeminiProvider(GeminiConfig{
		APIKey:      "test-key",
		Model:       "gemini-2.0-flash",
		BaseURL:     server.URL,
		MaxTokens:   1024,
		Temperature: 0.7,
	}, newTestLogger(t))

	_, err := provider.Chat(context.Background(), ChatRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)

	assert.Equal(t, 0.7, captured.GenerationConfig.Temperature)
	assert.Equal(t, 1024, captured.GenerationConfig.MaxOutputTokens)
}

func TestGeminiProvider_ChatHTTPError(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"forbidden","status":"PERMISSION_DENIED"}}`, http.StatusForbidden)
	})

	_, err := provider.Chat(context.Background(), ChatRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	require.Error(t, err)

	var httpErr *geminiHTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.StatusCode)
}

func TestGeminiProvider_ChatNoCandidates(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(geminiResponse{
			UsageMetadata: geminiUsage{PromptTokenCount: 4, TotalTokenCount: 4},
		}))
	})

	resp, err := provider.Chat(context.Background(), ChatRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)

	assert.Empty(t, resp.Content)
	assert.Equal(t, FinishReasonError, resp.FinishReason)
	assert.Equal(t, 4, resp.Usage.TotalTokens)
}

func TestGeminiProvider_ChatMalformedJSON(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})

	_, err := provider.Chat(context.Background(), ChatRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
}

func TestGeminiProvider_Defaults(t *testing.T) {
	provider := NewGeminiProvider(GeminiConfig{APIKey: "test-key"}, newTestLogger(t))

	assert.Equal(t, GeminiDefaultModel, provider.GetDefaultModel())
	assert.Equal(t, GeminiEndpoint, provider.baseURL)
}

func TestMapFinishReason(t *testing.T) {
	assert.Equal(t, FinishReasonStop, mapFinishReason("STOP"))
	assert.Equal(t, FinishReasonLength, mapFinishReason("MAX_TOKENS"))
	assert.Equal(t, FinishReasonError, mapFinishReason("SAFETY"))
	assert.Equal(t, FinishReasonError, mapFinishReason(""))
}
