package llm

import (
	"bytes"
	stdcontext "context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lmoroni/cactusbot/internal/logger"
)

const (
	// GeminiEndpoint is the base URL for the Gemini API
	GeminiEndpoint = "https://generativelanguage.googleapis.com"
	// GeminiDefaultModel is used when no model is configured
	GeminiDefaultModel = "gemini-2.0-flash"
	// GeminiRequestTimeout is the default timeout for API requests
	GeminiRequestTimeout = 60 * time.Second
)

// GeminiConfig contains configuration for the Gemini provider.
type GeminiConfig struct {
	APIKey         string  `json:"api_key"`         // API key for authentication
	Model          string  `json:"model"`           // Default model to use
	BaseURL        string  `json:"base_url"`        // API base URL (optional, for proxies)
	TimeoutSeconds int     `json:"timeout_seconds"` // Timeout for HTTP requests in seconds
	MaxTokens      int     `json:"max_tokens"`      // Default max tokens per completion
	Temperature    float64 `json:"temperature"`     // Default sampling temperature
}

// GeminiProvider implements the Provider interface for the Gemini API.
type GeminiProvider struct {
	client  *http.Client // HTTP client for API requests
	config  GeminiConfig // Provider configuration
	baseURL string       // API base URL
	limiter *TokenBucketRateLimiter
	logger  *logger.Logger
}

// geminiRequest represents the request format for the Gemini generateContent API.
type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"` // System prompt
	Contents          []geminiContent `json:"contents"`                     // Conversation turns
	GenerationConfig  geminiGenConfig `json:"generationConfig"`             // Sampling parameters
}

// geminiContent represents one conversation turn in Gemini API format.
type geminiContent struct {
	Role  string       `json:"role,omitempty"` // "user" or "model"
	Parts []geminiPart `json:"parts"`          // Content parts
}

// geminiPart represents a content part (text only).
type geminiPart struct {
	Text string `json:"text"`
}

// geminiGenConfig represents generation parameters.
type geminiGenConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

// geminiResponse represents the response format from the Gemini API.
type geminiResponse struct {
	Candidates    []geminiCandidate `json:"candidates"`      // Response candidates
	UsageMetadata geminiUsage       `json:"usageMetadata"`   // Token usage
	ModelVersion  string            `json:"modelVersion"`    // Model actually used
	Error         *geminiAPIError   `json:"error,omitempty"` // API error if present
}

// geminiCandidate represents one candidate in the response.
type geminiCandidate struct {
	Content      geminiContent `json:"content"`                // The generated content
	FinishReason string        `json:"finishReason,omitempty"` // Reason generation stopped
}

// geminiUsage represents token usage information.
type geminiUsage struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// geminiAPIError represents an error response from the API.
type geminiAPIError struct {
	Code    int    `json:"code"`    // HTTP-style error code
	Message string `json:"message"` // Error message
	Status  string `json:"status"`  // Error status string
}

// NewGeminiProvider creates a new GeminiProvider instance.
func NewGeminiProvider(cfg GeminiConfig, log *logger.Logger) *GeminiProvider {
	if cfg.Model == "" {
		cfg.Model = GeminiDefaultModel
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = GeminiEndpoint
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = GeminiRequestTimeout
	}

	return &GeminiProvider{
		client: &http.Client{
			Timeout: timeout,
		},
		config:  cfg,
		baseURL: strings.TrimRight(baseURL, "/"),
		limiter: NewTokenBucketRateLimiter(10, time.Second, 1),
		logger:  log,
	}
}

// geminiHTTPError represents an HTTP error from the API.
type geminiHTTPError struct {
	StatusCode int    // HTTP status code
	Body       string // Response body
}

func (e *geminiHTTPError) Error() string {
	return fmt.Sprintf("HTTP error: status=%d, body=%s", e.StatusCode, e.Body)
}

// doRequest executes a single HTTP request to the Gemini API.
func (p *GeminiProvider) doRequest(ctx stdcontext.Context, model string, reqBody []byte) (*geminiResponse, error) {
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", p.baseURL, model)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", p.config.APIKey)

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		p.logger.ErrorCtx(ctx, "Failed to execute request to Gemini API", err)
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		p.logger.ErrorCtx(ctx, "Failed to read response body", err)
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		p.logger.ErrorCtx(ctx, "Gemini API returned error status", nil,
			logger.Field{Key: "status_code", Value: httpResp.StatusCode},
			logger.Field{Key: "response_body", Value: string(respBody)})

		return nil, &geminiHTTPError{
			StatusCode: httpResp.StatusCode,
			Body:       string(respBody),
		}
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(respBody, &geminiResp); err != nil {
		p.logger.ErrorCtx(ctx, "Failed to unmarshal Gemini response", err,
			logger.Field{Key: "response_body", Value: string(respBody)})
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if geminiResp.Error != nil {
		p.logger.ErrorCtx(ctx, "Gemini API returned error", nil,
			logger.Field{Key: "error_code", Value: geminiResp.Error.Code},
			logger.Field{Key: "error_status", Value: geminiResp.Error.Status},
			logger.Field{Key: "error_message", Value: geminiResp.Error.Message})
		return nil, fmt.Errorf("API error: %s (code: %d): %s",
			geminiResp.Error.Status, geminiResp.Error.Code, geminiResp.Error.Message)
	}

	return &geminiResp, nil
}

// mapChatRequest maps internal ChatRequest to Gemini API format.
// System messages become the system instruction; assistant turns map to the "model" role.
func (p *GeminiProvider) mapChatRequest(req ChatRequest) geminiRequest {
	var system *geminiContent
	contents := make([]geminiContent, 0, len(req.Messages))

	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleSystem:
			if system == nil {
				system = &geminiContent{Parts: []geminiPart{{Text: msg.Content}}}
			} else {
				system.Parts = append(system.Parts, geminiPart{Text: msg.Content})
			}
		case RoleAssistant:
			contents = append(contents, geminiContent{
				Role:  "model",
				Parts: []geminiPart{{Text: msg.Content}},
			})
		default:
			contents = append(contents, geminiContent{
				Role:  "user",
				Parts: []geminiPart{{Text: msg.Content}},
			})
		}
	}

	temperature := req.Temperature
	if temperature == 0 {
		temperature = p.config.Temperature
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}

	return geminiRequest{
		SystemInstruction: system,
		Contents:          contents,
		GenerationConfig: geminiGenConfig{
			Temperature:     temperature,
			MaxOutputTokens: maxTokens,
		},
	}
}

// mapChatResponse maps a Gemini API response to internal ChatResponse format.
func (p *GeminiProvider) mapChatResponse(geminiResp *geminiResponse, model string) *ChatResponse {
	usage := Usage{
		PromptTokens:     geminiResp.UsageMetadata.PromptTokenCount,
		CompletionTokens: geminiResp.UsageMetadata.CandidatesTokenCount,
		TotalTokens:      geminiResp.UsageMetadata.TotalTokenCount,
	}

	responseModel := geminiResp.ModelVersion
	if responseModel == "" {
		responseModel = model
	}

	if len(geminiResp.Candidates) == 0 {
		p.logger.Debug("LLM response: no candidates",
			logger.Field{Key: "model", Value: responseModel})
		return &ChatResponse{
			Content:      "",
			FinishReason: FinishReasonError,
			Usage:        usage,
			Model:        responseModel,
		}
	}

	candidate := geminiResp.Candidates[0]

	var content strings.Builder
	for _, part := range candidate.Content.Parts {
		content.WriteString(part.Text)
	}

	return &ChatResponse{
		Content:      content.String(),
		FinishReason: mapFinishReason(candidate.FinishReason),
		Usage:        usage,
		Model:        responseModel,
	}
}

// mapFinishReason maps a Gemini finish reason to the internal representation.
func mapFinishReason(reason string) FinishReason {
	switch reason {
	case "STOP":
		return FinishReasonStop
	case "MAX_TOKENS":
		return FinishReasonLength
	default:
		return FinishReasonError
	}
}

// Chat sends a chat completion request to the Gemini API.
func (p *GeminiProvider) Chat(ctx stdcontext.Context, req ChatRequest) (*ChatResponse, error) {
	if allowed, wait := p.limiter.TryAcquire(); !allowed {
		return nil, &RateLimitExceededError{RetryAfter: wait}
	}

	model := req.Model
	if model == "" {
		model = p.config.Model
	}

	p.logger.DebugCtx(ctx, "Sending chat request to Gemini API",
		logger.Field{Key: "model", Value: model},
		logger.Field{Key: "messages_count", Value: len(req.Messages)})

	reqBody := p.mapChatRequest(req)
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		p.logger.ErrorCtx(ctx, "Failed to marshal request", err)
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	geminiResp, err := p.doRequest(ctx, model, jsonBody)
	if err != nil {
		return nil, err
	}

	return p.mapChatResponse(geminiResp, model), nil
}

// GetDefaultModel returns the configured default model.
func (p *GeminiProvider) GetDefaultModel() string {
	return p.config.Model
}
