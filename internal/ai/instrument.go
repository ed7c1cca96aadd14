package ai

import (
	"context"
	"time"

	"github.com/suPer8Hu/dxcases/internal/metrics"
)

type instrumented struct {
	next Client
}

// Instrument records call counts and latency for every operation of c.
func Instrument(c Client) Client {
	if _, ok := c.(*instrumented); ok {
		return c
	}
	return &instrumented{next: c}
}

func observe(op string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.AIRequests.WithLabelValues(op, outcome).Inc()
	metrics.AIRequestSeconds.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (i *instrumented) Chat(ctx context.Context, messages []Message) (out string, err error) {
	defer func(start time.Time) { observe("chat", start, err) }(time.Now())
	return i.next.Chat(ctx, messages)
}

func (i *instrumented) ChatJSON(ctx context.Context, messages []Message) (out string, err error) {
	defer func(start time.Time) { observe("chat_json", start, err) }(time.Now())
	return i.next.ChatJSON(ctx, messages)
}

func (i *instrumented) CallFunction(ctx context.Context, messages []Message, fn Function) (out *Completion, err error) {
	defer func(start time.Time) { observe("function:"+fn.Name, start, err) }(time.Now())
	return i.next.CallFunction(ctx, messages, fn)
}

func (i *instrumented) GenerateImage(ctx context.Context, prompt string) (out string, err error) {
	defer func(start time.Time) { observe("image", start, err) }(time.Now())
	return i.next.GenerateImage(ctx, prompt)
}

func (i *instrumented) Moderate(ctx context.Context, input string) (out *ModerationResult, err error) {
	defer func(start time.Time) { observe("moderation", start, err) }(time.Now())
	return i.next.Moderate(ctx, input)
}
