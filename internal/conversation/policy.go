package conversation

import (
	"strings"

	"github.com/suPer8Hu/dxcases/internal/ai"
)

var adviceKeywords = []string{
	"すればよかった", "しておけば", "べきだった", "した方が", "するべき",
	"してほしい", "してくれたら", "してほしかった", "すれば", "するといい",
	"改善", "アドバイス", "提案", "次回は", "今後は",
}

// matched case-insensitively
var adviceKeywordsEN = []string{
	"should have", "next time", "suggest", "advice", "improve",
}

// HasAdvice reports whether text phrases an improvement or a piece of advice.
func HasAdvice(text string) bool {
	for _, k := range adviceKeywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	lower := strings.ToLower(text)
	for _, k := range adviceKeywordsEN {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

type Policy struct {
	// DetailTurns is the number of user messages after which the
	// conversation moves on to asking for suggestions.
	DetailTurns int
	// MaxUserTurns completes the conversation once reached, even without
	// advice. Zero means no cap.
	MaxUserTurns int
}

func DefaultPolicy() Policy {
	return Policy{DetailTurns: 3, MaxUserTurns: 6}
}

func userTurns(messages []ai.Message) int {
	n := 0
	for _, m := range messages {
		if m.Role == ai.RoleUser {
			n++
		}
	}
	return n
}

func lastUserMessage(messages []ai.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == ai.RoleUser {
			return messages[i].Content
		}
	}
	return ""
}

// Next decides the state that follows current given the transcript so far.
func (p Policy) Next(current State, messages []ai.Message) (next State, complete bool) {
	turns := userTurns(messages)
	capped := p.MaxUserTurns > 0 && turns >= p.MaxUserTurns
	advice := HasAdvice(lastUserMessage(messages))

	switch current {
	case StateWaitingForInitialSubmission:
		return StateAskingForAdditionalDetails, false

	case StateAskingForAdditionalDetails:
		if advice || capped {
			return StateCompleted, true
		}
		if turns >= p.DetailTurns {
			return StateAskingForSuggestions, false
		}
		return StateAskingForAdditionalDetails, false

	case StateAskingForSuggestions:
		if advice || capped {
			return StateCompleted, true
		}
		return StateAskingForSuggestions, false

	case StateCompleted:
		return StateCompleted, true

	default:
		return StateAskingForAdditionalDetails, false
	}
}
