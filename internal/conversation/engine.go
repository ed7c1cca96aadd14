// Package conversation drives the multi-turn submission interview: it decides
// when enough has been gathered and what the assistant says next.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/suPer8Hu/dxcases/internal/ai"
	"github.com/suPer8Hu/dxcases/internal/metrics"
)

var (
	ErrNoMessages      = errors.New("messages array is required")
	ErrLastNotFromUser = errors.New("last message must be from user")
)

// Session is the whole client-held conversation. The server keeps nothing
// between turns; every request carries the session and gets the next one back.
type Session struct {
	Messages []ai.Message `json:"messages"`
	Data     Data         `json:"conversationData"`
	State    State        `json:"conversationState"`
}

type TurnResult struct {
	Message  string `json:"message"`
	Data     Data   `json:"conversationData"`
	State    State  `json:"conversationState"`
	Next     State  `json:"nextState"`
	Complete bool   `json:"complete"`
}

// Summarizer produces the one-shot completion material.
type Summarizer interface {
	ParagraphSummary(ctx context.Context, transcript []ai.Message) (string, error)
	TagsAndTitle(ctx context.Context, paragraph string) ([]string, string, error)
}

type Engine struct {
	completer  ai.Completer
	summarizer Summarizer
	policy     Policy
}

func NewEngine(completer ai.Completer, summarizer Summarizer, policy Policy) *Engine {
	if policy.DetailTurns <= 0 {
		policy.DetailTurns = DefaultPolicy().DetailTurns
	}
	if policy.MaxUserTurns < 0 {
		policy.MaxUserTurns = 0
	}
	return &Engine{completer: completer, summarizer: summarizer, policy: policy}
}

// IsValidation reports whether err is a malformed-session error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrNoMessages) || errors.Is(err, ErrLastNotFromUser)
}

// Validate checks the shape of the session. An unrecognised state is not an
// error; the policy treats it as still gathering details.
func (s Session) Validate() error {
	if len(s.Messages) == 0 {
		return ErrNoMessages
	}
	if s.Messages[len(s.Messages)-1].Role != ai.RoleUser {
		return ErrLastNotFromUser
	}
	return nil
}

// Transcript returns the user and assistant messages. Any other role sent by
// the client is dropped so it never reaches the model as a system prompt.
func (s Session) Transcript() []ai.Message {
	out := make([]ai.Message, 0, len(s.Messages))
	for _, m := range s.Messages {
		if m.Role == ai.RoleUser || m.Role == ai.RoleAssistant {
			out = append(out, m)
		}
	}
	return out
}

// Turn advances the session by one user message.
func (e *Engine) Turn(ctx context.Context, s Session) (*TurnResult, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	current := s.State
	if current == "" {
		current = StateWaitingForInitialSubmission
	}
	if !current.Valid() {
		log.WithField("state", current).Info("unrecognised conversationState, continuing with details")
	}
	transcript := s.Transcript()

	next, complete := e.policy.Next(current, transcript)
	metrics.ConversationTurns.WithLabelValues(string(next)).Inc()

	data := s.Data
	reply := ""

	// Terminal sessions are not re-extracted.
	if !current.Terminal() {
		c, err := e.completer.CallFunction(ctx, ai.Prepend(systemPrompt(next, transcript), transcript), extractFunction)
		if err != nil {
			return nil, fmt.Errorf("extract conversation data: %w", err)
		}
		data = data.Merge(parseExtraction(c))
		reply = c.Content
	}

	if complete {
		final, err := e.finish(ctx, transcript, data)
		if err != nil {
			return nil, err
		}
		return &TurnResult{
			Message:  confirmationPrefix + final.ParagraphSummary,
			Data:     final,
			State:    next,
			Next:     next,
			Complete: true,
		}, nil
	}

	// A forced function call usually comes back without any text.
	if reply == "" {
		reply = e.followUp(ctx, next, transcript)
	}
	if reply == "" {
		reply = fallbackReply
	}
	return &TurnResult{Message: reply, Data: data, State: next, Next: next}, nil
}

// finish fills in paragraph summary, tags and title, each at most once.
func (e *Engine) finish(ctx context.Context, transcript []ai.Message, data Data) (Data, error) {
	if data.ParagraphSummary == "" {
		p, err := e.summarizer.ParagraphSummary(ctx, transcript)
		if err != nil {
			return data, err
		}
		data.ParagraphSummary = p
	}

	if len(data.Tags) == 0 {
		tags, title, err := e.summarizer.TagsAndTitle(ctx, data.ParagraphSummary)
		if err != nil {
			log.WithError(err).Warn("tag and title generation failed, continuing without tags")
			return data, nil
		}
		data = data.Merge(Data{Tags: tags, Title: title})
	}
	return data, nil
}

// followUp asks for the assistant's next line as plain text. Extraction has
// already succeeded, so a failure here only costs the tailored question.
func (e *Engine) followUp(ctx context.Context, next State, transcript []ai.Message) string {
	out, err := e.completer.Chat(ctx, ai.Prepend(replyPrompt(next, transcript), transcript))
	if err != nil {
		log.WithError(err).WithField("state", next).Warn("follow-up reply failed, using fallback")
		return ""
	}
	return strings.TrimSpace(out)
}

var extractedFields = []string{"when", "location", "who", "summary", "impact", "cause", "suggestions"}

// parseExtraction keeps every interview field that arrived as a string.
// A field of the wrong type is skipped without losing the others.
func parseExtraction(c *ai.Completion) Data {
	var out Data
	if c == nil || c.FunctionCall == nil || c.FunctionCall.Name != extractFunction.Name {
		return out
	}
	args := c.FunctionCall.Arguments
	if !gjson.Valid(args) {
		log.WithField("arguments", args).Warn("could not parse extract_conversation_data arguments")
		return out
	}

	doc := gjson.Parse(args)
	values := make(map[string]string, len(extractedFields))
	for _, f := range extractedFields {
		v := doc.Get(f)
		if !v.Exists() || v.Type == gjson.Null {
			continue
		}
		if v.Type != gjson.String {
			log.WithField("field", f).Warn("ignoring non-string extracted field")
			continue
		}
		values[f] = v.Str
	}
	return Data{
		When:        values["when"],
		Location:    values["location"],
		Who:         values["who"],
		Summary:     values["summary"],
		Impact:      values["impact"],
		Cause:       values["cause"],
		Suggestions: values["suggestions"],
	}
}
