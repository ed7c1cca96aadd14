package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/suPer8Hu/dxcases/internal/ai"
)

var ErrNoImageGenerator = errors.New("enrich: no image generator configured")

type Illustration struct {
	URL    string `json:"imageUrl"`
	Prompt string `json:"prompt"`
}

const imagePromptSystem = "あなたはDX（開発者体験）の失敗事例から画像生成プロンプトを作成するアシスタントです。" +
	"以下の情報から、DALL-Eで生成するための適切な画像プロンプトを作成してください。" +
	"プロンプトは英語で、詳細かつ視覚的な要素を含み、プロフェッショナルな雰囲気のイラストになるようにしてください。"

var imagePromptFunction = ai.Function{
	Name:        "generate_image_prompt",
	Description: "Generate a detailed image prompt for DALL-E based on the DX failure case",
	Parameters: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"prompt": map[string]any{
				"type":        "string",
				"description": "A detailed image prompt in English for DALL-E to generate an illustration",
			},
		},
		"required": []string{"prompt"},
	},
}

func fallbackImagePrompt(summary, title string) string {
	subject := title
	if strings.TrimSpace(subject) == "" {
		subject = summary
	}
	return fmt.Sprintf("Create a professional illustration representing this developer experience failure: %s. The image should be suitable for a technical audience.", subject)
}

// IllustrationPrompt asks the model for an English image prompt. A missing or
// unparsable function call falls back to a generic prompt; a failed request
// is returned as an error.
func (e *Enricher) IllustrationPrompt(ctx context.Context, summary, title string) (string, error) {
	c, err := e.completer.CallFunction(ctx, []ai.Message{
		{Role: ai.RoleSystem, Content: imagePromptSystem},
		{Role: ai.RoleUser, Content: fmt.Sprintf("以下のDX失敗事例から画像生成プロンプトを作成してください：\nタイトル: %s\n概要: %s", title, summary)},
	}, imagePromptFunction)
	if err != nil {
		return "", fmt.Errorf("image prompt: %w", err)
	}
	if c.FunctionCall == nil {
		return fallbackImagePrompt(summary, title), nil
	}

	var args struct {
		Prompt string `json:"prompt"`
	}
	if err := json.Unmarshal([]byte(c.FunctionCall.Arguments), &args); err != nil {
		log.WithError(err).Warn("could not parse image prompt arguments, using fallback prompt")
		return fallbackImagePrompt(summary, title), nil
	}
	if strings.TrimSpace(args.Prompt) == "" {
		return fallbackImagePrompt(summary, title), nil
	}
	return args.Prompt, nil
}

func (e *Enricher) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if e.images == nil {
		return "", ErrNoImageGenerator
	}
	return e.images.GenerateImage(ctx, prompt)
}

// Illustrate builds a prompt from the case summary and renders it.
func (e *Enricher) Illustrate(ctx context.Context, summary, title string) (*Illustration, error) {
	prompt, err := e.IllustrationPrompt(ctx, summary, title)
	if err != nil {
		return nil, err
	}
	url, err := e.GenerateImage(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("image generation failed: %w", err)
	}
	return &Illustration{URL: url, Prompt: prompt}, nil
}
