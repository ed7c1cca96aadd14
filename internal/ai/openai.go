package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// OpenAIProvider talks to any OpenAI-compatible endpoint (OpenAI itself,
// OpenRouter, Ollama's /v1 API).
type OpenAIProvider struct {
	Name            string
	Model           string
	ImageModel      string
	ModerationModel string

	apiKey string
	client openai.Client
}

type OpenAIOptions struct {
	Name            string
	BaseURL         string
	APIKey          string
	Model           string
	ImageModel      string
	ModerationModel string
	Headers         map[string]string
	Timeout         time.Duration
}

func NewOpenAIProvider(o OpenAIOptions) *OpenAIProvider {
	if o.Timeout <= 0 {
		o.Timeout = 90 * time.Second
	}
	if o.Model == "" {
		o.Model = "gpt-4o"
	}
	if o.ImageModel == "" {
		o.ImageModel = "dall-e-3"
	}
	if o.ModerationModel == "" {
		o.ModerationModel = "omni-moderation-latest"
	}
	if o.Name == "" {
		o.Name = "openai"
	}

	// no retries: a failed call ends the turn
	opts := []option.RequestOption{
		option.WithMaxRetries(0),
		option.WithRequestTimeout(o.Timeout),
	}
	if o.APIKey != "" {
		opts = append(opts, option.WithAPIKey(o.APIKey))
	}
	if o.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(o.BaseURL))
	}
	for k, v := range o.Headers {
		if v != "" {
			opts = append(opts, option.WithHeader(k, v))
		}
	}

	return &OpenAIProvider{
		Name:            o.Name,
		Model:           o.Model,
		ImageModel:      o.ImageModel,
		ModerationModel: o.ModerationModel,
		apiKey:          strings.TrimSpace(o.APIKey),
		client:          openai.NewClient(opts...),
	}
}

func (p *OpenAIProvider) ready() error {
	if p.apiKey == "" {
		return fmt.Errorf("%s: %w", p.Name, ErrMissingAPIKey)
	}
	return nil
}

func toParams(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

func (p *OpenAIProvider) complete(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletionMessage, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%s: chat completion: %w", p.Name, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%s: %w", p.Name, ErrNoChoices)
	}
	return &resp.Choices[0].Message, nil
}

func (p *OpenAIProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	msg, err := p.complete(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(p.Model),
		Messages: toParams(messages),
	})
	if err != nil {
		return "", err
	}
	return msg.Content, nil
}

func (p *OpenAIProvider) ChatJSON(ctx context.Context, messages []Message) (string, error) {
	msg, err := p.complete(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(p.Model),
		Messages: toParams(messages),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return "", err
	}
	return msg.Content, nil
}

// CallFunction forces the model to call fn and returns its arguments verbatim.
// FunctionCall is nil when the model answered without calling it.
func (p *OpenAIProvider) CallFunction(ctx context.Context, messages []Message, fn Function) (*Completion, error) {
	msg, err := p.complete(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(p.Model),
		Messages: toParams(messages),
		Tools: []openai.ChatCompletionToolParam{{
			Function: shared.FunctionDefinitionParam{
				Name:        fn.Name,
				Description: openai.String(fn.Description),
				Parameters:  shared.FunctionParameters(fn.Parameters),
			},
		}},
		ToolChoice: openai.ChatCompletionToolChoiceOptionUnionParam{
			OfChatCompletionNamedToolChoice: &openai.ChatCompletionNamedToolChoiceParam{
				Function: openai.ChatCompletionNamedToolChoiceFunctionParam{Name: fn.Name},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	out := &Completion{Content: msg.Content}
	for _, tc := range msg.ToolCalls {
		if tc.Function.Name == fn.Name {
			out.FunctionCall = &FunctionCall{Name: tc.Function.Name, Arguments: tc.Function.Arguments}
			break
		}
	}
	return out, nil
}

func (p *OpenAIProvider) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if err := p.ready(); err != nil {
		return "", err
	}
	resp, err := p.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:  prompt,
		Model:   openai.ImageModel(p.ImageModel),
		N:       openai.Int(1),
		Size:    openai.ImageGenerateParamsSize1024x1024,
		Quality: openai.ImageGenerateParamsQualityStandard,
	})
	if err != nil {
		return "", fmt.Errorf("%s: image generation: %w", p.Name, err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", fmt.Errorf("%s: %w", p.Name, ErrNoImage)
	}
	return resp.Data[0].URL, nil
}

func (p *OpenAIProvider) Moderate(ctx context.Context, input string) (*ModerationResult, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	resp, err := p.client.Moderations.New(ctx, openai.ModerationNewParams{
		Input: openai.ModerationNewParamsInputUnion{OfString: openai.String(input)},
		Model: openai.ModerationModel(p.ModerationModel),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: moderation: %w", p.Name, err)
	}
	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("%s: moderation returned no results", p.Name)
	}

	r := resp.Results[0]
	out := &ModerationResult{
		Flagged:        r.Flagged,
		Categories:     map[string]bool{},
		CategoryScores: map[string]float64{},
	}
	if raw := r.Categories.RawJSON(); raw != "" {
		if err := json.Unmarshal([]byte(raw), &out.Categories); err != nil {
			return nil, fmt.Errorf("%s: decode moderation categories: %w", p.Name, err)
		}
	}
	if raw := r.CategoryScores.RawJSON(); raw != "" {
		if err := json.Unmarshal([]byte(raw), &out.CategoryScores); err != nil {
			return nil, fmt.Errorf("%s: decode moderation scores: %w", p.Name, err)
		}
	}
	return out, nil
}
