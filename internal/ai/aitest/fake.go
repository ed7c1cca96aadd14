// Package aitest provides a scripted ai.Client for tests.
package aitest

import (
	"context"
	"sync"

	"github.com/suPer8Hu/dxcases/internal/ai"
)

type FunctionReply struct {
	Content   string
	Arguments string
	// NoCall makes the model answer without calling the function.
	NoCall bool
	Err    error
}

type Call struct {
	Op       string
	Function string
	Messages []ai.Message
	Input    string
}

type Fake struct {
	mu sync.Mutex

	ChatReply string
	ChatErr   error

	JSONReply string
	JSONErr   error

	Functions map[string]FunctionReply

	ImageURL string
	ImageErr error

	Moderation    *ai.ModerationResult
	ModerationErr error

	Calls []Call
}

var _ ai.Client = (*Fake)(nil)

func (f *Fake) record(c Call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.Messages = append([]ai.Message(nil), c.Messages...)
	f.Calls = append(f.Calls, c)
}

// Count returns how many calls matched op (and fn, when fn is not empty).
func (f *Fake) Count(op, fn string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if c.Op == op && (fn == "" || c.Function == fn) {
			n++
		}
	}
	return n
}

func (f *Fake) Chat(ctx context.Context, messages []ai.Message) (string, error) {
	_ = ctx
	f.record(Call{Op: "chat", Messages: messages})
	return f.ChatReply, f.ChatErr
}

func (f *Fake) ChatJSON(ctx context.Context, messages []ai.Message) (string, error) {
	_ = ctx
	f.record(Call{Op: "chat_json", Messages: messages})
	return f.JSONReply, f.JSONErr
}

func (f *Fake) CallFunction(ctx context.Context, messages []ai.Message, fn ai.Function) (*ai.Completion, error) {
	_ = ctx
	f.record(Call{Op: "function", Function: fn.Name, Messages: messages})
	r, ok := f.Functions[fn.Name]
	if !ok {
		return &ai.Completion{}, nil
	}
	if r.Err != nil {
		return nil, r.Err
	}
	out := &ai.Completion{Content: r.Content}
	if !r.NoCall {
		out.FunctionCall = &ai.FunctionCall{Name: fn.Name, Arguments: r.Arguments}
	}
	return out, nil
}

func (f *Fake) GenerateImage(ctx context.Context, prompt string) (string, error) {
	_ = ctx
	f.record(Call{Op: "image", Input: prompt})
	return f.ImageURL, f.ImageErr
}

func (f *Fake) Moderate(ctx context.Context, input string) (*ai.ModerationResult, error) {
	_ = ctx
	f.record(Call{Op: "moderation", Input: input})
	if f.ModerationErr != nil {
		return nil, f.ModerationErr
	}
	if f.Moderation == nil {
		return &ai.ModerationResult{Categories: map[string]bool{}, CategoryScores: map[string]float64{}}, nil
	}
	return f.Moderation, nil
}
