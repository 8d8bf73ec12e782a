// Package ai provides a provider-agnostic gateway to generative text models.
// Generators depend only on Completer; the Router fans requests across the
// configured providers with fallback, rate limiting, and a bounded timeout.
package ai

import (
	"context"
	"errors"
)

// TaskType identifies what a completion is for. It drives routing logs,
// usage accounting, and cache keys.
type TaskType int

const (
	TaskQuestions TaskType = iota
	TaskLessonPlan
	TaskEstimate
	TaskMaterial
)

func (t TaskType) String() string {
	switch t {
	case TaskQuestions:
		return "questions"
	case TaskLessonPlan:
		return "lesson_plan"
	case TaskEstimate:
		return "estimate"
	case TaskMaterial:
		return "material"
	default:
		return "unknown"
	}
}

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var (
	// ErrNoProvider is returned when no provider has been registered.
	ErrNoProvider = errors.New("no AI provider configured")
	// ErrUnavailable wraps the failures of every provider in the chain.
	ErrUnavailable = errors.New("all AI providers failed")
	// ErrBudgetExceeded is returned once the configured token budget is spent.
	ErrBudgetExceeded = errors.New("AI token budget exceeded")
)

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is the input to an AI completion.
type CompletionRequest struct {
	Messages    []Message `json:"messages"`
	Model       string    `json:"model,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
	Task        TaskType  `json:"task"`
}

// CompletionResponse is the output from an AI completion.
type CompletionResponse struct {
	Content      string `json:"content"`
	Model        string `json:"model"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
}

// TotalTokens returns the sum of input and output tokens.
func (r CompletionResponse) TotalTokens() int {
	return r.InputTokens + r.OutputTokens
}

// Provider is the interface all AI providers must implement.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)
}

// Completer is what generators depend on. Router and every Provider satisfy it.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)
}

// Prompt builds a request with an optional system message and one user turn.
func Prompt(task TaskType, system, user string) CompletionRequest {
	var msgs []Message
	if system != "" {
		msgs = append(msgs, Message{Role: RoleSystem, Content: system})
	}
	msgs = append(msgs, Message{Role: RoleUser, Content: user})
	return CompletionRequest{Messages: msgs, Task: task}
}

// splitSystem separates system messages from the conversation for providers
// that take the system prompt out of band.
func splitSystem(msgs []Message) (string, []Message) {
	var system string
	rest := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Role == RoleSystem {
			if system != "" {
				system += "\n\n"
			}
			system += m.Content
			continue
		}
		rest = append(rest, m)
	}
	return system, rest
}
