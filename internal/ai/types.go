package ai

import (
	"context"
	"errors"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var (
	ErrMissingAPIKey = errors.New("ai: api key is missing")
	ErrNoChoices     = errors.New("ai: completion returned no choices")
	ErrNoImage       = errors.New("ai: image response contained no url")
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Function describes a single callable function offered to the model.
// Parameters is a JSON schema object.
type Function struct {
	Name        string
	Description string
	Parameters  map[string]any
}

type FunctionCall struct {
	Name      string
	Arguments string
}

type Completion struct {
	Content      string
	FunctionCall *FunctionCall
}

type ModerationResult struct {
	Flagged        bool               `json:"flagged"`
	Categories     map[string]bool    `json:"categories"`
	CategoryScores map[string]float64 `json:"category_scores"`
}

type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}

// Completer is a Provider that also supports JSON mode and forced function calls.
type Completer interface {
	Provider
	ChatJSON(ctx context.Context, messages []Message) (string, error)
	CallFunction(ctx context.Context, messages []Message, fn Function) (*Completion, error)
}

type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

type Moderator interface {
	Moderate(ctx context.Context, input string) (*ModerationResult, error)
}

// Prepend returns a new slice with a system message in front of messages.
func Prepend(system string, messages []Message) []Message {
	out := make([]Message, 0, len(messages)+1)
	out = append(out, Message{Role: RoleSystem, Content: system})
	return append(out, messages...)
}
