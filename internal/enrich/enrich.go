// Package enrich turns a finished conversation into publishable material:
// a paragraph summary, tags and a title, and an illustration.
package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/suPer8Hu/dxcases/internal/ai"
)

const (
	MaxTags = 5

	fallbackSummary = "要約を生成できませんでした。"
)

var ErrNoFunctionCall = errors.New("enrich: model did not call the requested function")

type Enricher struct {
	completer ai.Completer
	images    ai.ImageGenerator
}

func New(completer ai.Completer, images ai.ImageGenerator) *Enricher {
	return &Enricher{completer: completer, images: images}
}

const paragraphSummaryPrompt = `あなたはDX（開発者体験）の失敗事例を自然な文章にまとめるアシスタントです。
会話の内容から、以下の情報を含む自然な段落を作成してください：
- 失敗の概要
- いつ、どこで、誰が関わったか（もし言及されていれば）
- どのような影響があったか
- 原因や理由
- 改善方法や提案

自然で読みやすい日本語の段落として、これらの情報を有機的につなげてください。
箇条書きではなく、流れるような文章にしてください。

重要：情報が不足している場合でも、無理に推測せず、会話から得られた情報のみを使用してください。`

// ParagraphSummary writes one flowing paragraph over the whole transcript.
func (e *Enricher) ParagraphSummary(ctx context.Context, transcript []ai.Message) (string, error) {
	out, err := e.completer.Chat(ctx, ai.Prepend(paragraphSummaryPrompt, transcript))
	if err != nil {
		return "", fmt.Errorf("paragraph summary: %w", err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return fallbackSummary, nil
	}
	return out, nil
}

const tagsAndTitlePrompt = "あなたはDX（開発者体験）の失敗事例からタグと簡潔なタイトルを生成するアシスタントです。" +
	"以下の情報から、関連するタグ（5つまで）と簡潔なタイトルを生成してください。" +
	"タグは「ネットワーク」「端末管理」「セキュリティ」「開発環境」「コミュニケーション」「ツール」「プロセス」などの分類を使用してください。"

var tagsAndTitleFunction = ai.Function{
	Name:        "generate_tags_and_title",
	Description: "Generate tags and title for the DX failure case",
	Parameters: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tags": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Tags related to the DX failure case (max 5)",
			},
			"title": map[string]any{
				"type":        "string",
				"description": "A concise title for the DX failure case",
			},
		},
		"required": []string{"tags", "title"},
	},
}

// TagsAndTitle classifies a paragraph summary.
func (e *Enricher) TagsAndTitle(ctx context.Context, paragraph string) ([]string, string, error) {
	c, err := e.completer.CallFunction(ctx, []ai.Message{
		{Role: ai.RoleSystem, Content: tagsAndTitlePrompt},
		{Role: ai.RoleUser, Content: "以下のDX失敗事例からタグとタイトルを生成してください：\n\n" + paragraph},
	}, tagsAndTitleFunction)
	if err != nil {
		return nil, "", fmt.Errorf("tags and title: %w", err)
	}
	if c.FunctionCall == nil {
		return nil, "", ErrNoFunctionCall
	}

	var args struct {
		Tags  []string `json:"tags"`
		Title string   `json:"title"`
	}
	if err := json.Unmarshal([]byte(c.FunctionCall.Arguments), &args); err != nil {
		return nil, "", fmt.Errorf("tags and title: parse arguments: %w", err)
	}
	return NormalizeTags(args.Tags), strings.TrimSpace(args.Title), nil
}

// NormalizeTags trims, drops empties and duplicates, and keeps at most MaxTags.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
		if len(out) == MaxTags {
			break
		}
	}
	return out
}
