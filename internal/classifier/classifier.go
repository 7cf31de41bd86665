package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lmoroni/cactusbot/internal/llm"
	"github.com/lmoroni/cactusbot/internal/logger"
	"github.com/lmoroni/cactusbot/internal/timeparse"
)

// ErrUnparsableOutput is returned when the model's answer carries no usable
// JSON object. Callers should treat it like a request missing its time.
var ErrUnparsableOutput = errors.New("unparsable model output")

// Action identifies what a user message asks the assistant to do.
type Action string

const (
	ActionReminder   Action = "reminder"    // Schedule a reminder
	ActionTimer      Action = "timer"       // Start a timer
	ActionSystemInfo Action = "system_info" // Question about stored state
	ActionNone       Action = "none"        // Plain conversation, answer with the LLM
)

// Proposal is a scheduling request extracted from a user message. The
// descriptor is untrusted model output and still has to pass resolution.
type Proposal struct {
	Content    string
	Descriptor timeparse.Descriptor
}

// extraction mirrors the JSON object the model is instructed to return.
type extraction struct {
	Content   string `json:"content"`
	TimeType  string `json:"time_type"`
	TimeValue string `json:"time_value"`
}

// Classifier routes user messages to actions and extracts scheduling
// proposals from them, using an LLM provider for the language work.
type Classifier struct {
	provider llm.Provider
	logger   *logger.Logger
	now      func() time.Time
}

// New creates a Classifier backed by the given provider.
func New(provider llm.Provider, log *logger.Logger) *Classifier {
	return &Classifier{
		provider: provider,
		logger:   log,
		now:      time.Now,
	}
}

// Classify determines what action, if any, the user message requires.
// Unrecognized model output falls back to ActionNone so the conversation
// can still proceed as plain chat.
func (c *Classifier) Classify(ctx context.Context, text string) (Action, error) {
	resp, err := c.ask(ctx, classifyPrompt()+"\n---\nUser request is:\n"+text)
	if err != nil {
		return ActionNone, err
	}

	answer := strings.TrimSpace(resp)
	switch {
	case strings.Contains(answer, tagReminder):
		return ActionReminder, nil
	case strings.Contains(answer, tagTimer):
		return ActionTimer, nil
	case strings.Contains(answer, tagSystemInfo):
		return ActionSystemInfo, nil
	case strings.Contains(answer, tagLLMAnswer):
		return ActionNone, nil
	default:
		c.logger.DebugCtx(ctx, "Unrecognized classification tag, falling back to chat",
			logger.Field{Key: "answer", Value: answer})
		return ActionNone, nil
	}
}

// ExtractReminder asks the model to turn a reminder request into a scheduling
// proposal.
func (c *Classifier) ExtractReminder(ctx context.Context, text string) (Proposal, error) {
	resp, err := c.ask(ctx, reminderPrompt(c.now(), text))
	if err != nil {
		return Proposal{}, err
	}
	return c.decodeProposal(ctx, resp)
}

// ExtractTimer asks the model to turn a timer request into a scheduling
// proposal. Timers are delay-only and carry no content of their own.
func (c *Classifier) ExtractTimer(ctx context.Context, text string) (Proposal, error) {
	resp, err := c.ask(ctx, timerPrompt(text))
	if err != nil {
		return Proposal{}, err
	}
	return c.decodeProposal(ctx, resp)
}

// ask sends a single-turn prompt to the provider, without any persona or
// conversation history.
func (c *Classifier) ask(ctx context.Context, prompt string) (string, error) {
	resp, err := c.provider.Chat(ctx, llm.ChatRequest{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("classification request failed: %w", err)
	}
	return resp.Content, nil
}

// decodeProposal pulls the JSON object out of free-form model output and
// decodes it into a descriptor. The model often wraps its answer in prose or
// code fences, so everything outside the outermost braces is discarded.
func (c *Classifier) decodeProposal(ctx context.Context, output string) (Proposal, error) {
	raw, ok := extractBetweenBraces(output)
	if !ok {
		c.logger.WarnCtx(ctx, "Model output carries no JSON object",
			logger.Field{Key: "output", Value: output})
		return Proposal{}, ErrUnparsableOutput
	}

	var ext extraction
	if err := json.Unmarshal([]byte(raw), &ext); err != nil {
		c.logger.WarnCtx(ctx, "Failed to decode model output", logger.Field{Key: "error", Value: err.Error()},
			logger.Field{Key: "output", Value: raw})
		return Proposal{}, ErrUnparsableOutput
	}

	// The model is prompted to tag relative values with a RELATIVE: prefix;
	// the descriptor grammar takes the bare expression.
	value := ext.TimeValue
	if timeparse.Kind(ext.TimeType) == timeparse.KindRelative {
		value = strings.TrimPrefix(value, "RELATIVE:")
	}

	descriptor, err := timeparse.Decode(ext.TimeType, value)
	if err != nil {
		return Proposal{}, err
	}

	return Proposal{
		Content:    strings.TrimSpace(ext.Content),
		Descriptor: descriptor,
	}, nil
}

// extractBetweenBraces returns the substring from the first '{' to the last
// '}' inclusive.
func extractBetweenBraces(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return text[start : end+1], true
}
