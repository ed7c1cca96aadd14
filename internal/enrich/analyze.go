package enrich

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/suPer8Hu/dxcases/internal/ai"
)

var ErrEmptyAnalysis = errors.New("enrich: empty analysis response")

// Analysis is the single-shot result of the legacy free-text submission flow.
type Analysis struct {
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Tags    []string `json:"tags"`
}

// Analyze derives a title, summary and tags from one free-text description.
func (e *Enricher) Analyze(ctx context.Context, input string) (*Analysis, error) {
	out, err := e.completer.ChatJSON(ctx, []ai.Message{
		{Role: ai.RoleSystem, Content: "You are a helpful assistant that analyzes DX (Developer Experience) failure scenarios and generates structured information about them."},
		{Role: ai.RoleUser, Content: "Analyze this DX failure scenario and generate a JSON response with a title, summary, and relevant tags: " + input},
	})
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	if strings.TrimSpace(out) == "" {
		return nil, ErrEmptyAnalysis
	}
	if !gjson.Valid(out) {
		return nil, fmt.Errorf("analyze: response is not valid json")
	}
	return parseAnalysis(out), nil
}

// Models disagree on key casing and on whether tags is a list or a string.
func parseAnalysis(raw string) *Analysis {
	doc := gjson.Parse(raw)
	first := func(paths ...string) gjson.Result {
		for _, p := range paths {
			if r := doc.Get(p); r.Exists() {
				return r
			}
		}
		return gjson.Result{}
	}

	a := &Analysis{
		Title:   strings.TrimSpace(first("title", "Title").String()),
		Summary: strings.TrimSpace(first("summary", "Summary").String()),
	}

	tags := first("tags", "Tags")
	var list []string
	if tags.IsArray() {
		for _, t := range tags.Array() {
			list = append(list, t.String())
		}
	} else if tags.Type == gjson.String {
		list = strings.Split(tags.String(), ",")
	}
	a.Tags = NormalizeTags(list)
	return a
}
