// Package moderation screens case content before it is stored.
package moderation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/suPer8Hu/dxcases/internal/ai"
	"github.com/suPer8Hu/dxcases/internal/metrics"
)

var ErrEmptyContent = errors.New("content is required")

// RejectionMessage is shown to the submitter when content is flagged.
const RejectionMessage = "申し訳ありませんが、投稿内容がガイドラインに違反している可能性があります。内容を見直して再度お試しください。"

type Verdict struct {
	Flagged        bool               `json:"flagged"`
	Categories     map[string]bool    `json:"categories"`
	CategoryScores map[string]float64 `json:"category_scores"`
}

// FlaggedCategories lists the categories that tripped, in no particular order.
func (v *Verdict) FlaggedCategories() []string {
	var out []string
	for k, on := range v.Categories {
		if on {
			out = append(out, k)
		}
	}
	return out
}

// JSON is the audit form stored in moderation_logs.
func (v *Verdict) JSON() string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

type Gate struct {
	moderator ai.Moderator
}

func NewGate(m ai.Moderator) *Gate {
	return &Gate{moderator: m}
}

func (g *Gate) Review(ctx context.Context, content string) (*Verdict, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	res, err := g.moderator.Moderate(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("moderation: %w", err)
	}

	v := &Verdict{
		Flagged:        res.Flagged,
		Categories:     res.Categories,
		CategoryScores: res.CategoryScores,
	}
	if v.Categories == nil {
		v.Categories = map[string]bool{}
	}
	if v.CategoryScores == nil {
		v.CategoryScores = map[string]float64{}
	}
	if v.Flagged {
		metrics.ModerationFlagged.Inc()
	}
	return v, nil
}
