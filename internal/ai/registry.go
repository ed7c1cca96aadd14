package ai

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/suPer8Hu/dxcases/internal/config"
)

// Client is everything the case pipeline needs from one backend.
type Client interface {
	Completer
	ImageGenerator
	Moderator
}

type ProviderFactory func(ctx context.Context, model string) (Client, error)

type Registry struct {
	mu        sync.RWMutex
	factories map[string]ProviderFactory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]ProviderFactory)}
}

func (r *Registry) Register(name string, f ProviderFactory) {
	name = strings.ToLower(strings.TrimSpace(name))
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

func (r *Registry) Get(ctx context.Context, name string, model string) (Client, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown ai provider: %s", name)
	}
	return f(ctx, model)
}

// RegisterDefaults registers the OpenAI-compatible backends named by AI_PROVIDER.
func RegisterDefaults(reg *Registry, cfg config.Config) {
	reg.Register("openai", func(ctx context.Context, model string) (Client, error) {
		_ = ctx
		return NewOpenAIProvider(OpenAIOptions{
			Name:            "openai",
			BaseURL:         cfg.OpenAIBaseURL,
			APIKey:          cfg.OpenAIAPIKey,
			Model:           pick(model, cfg.ChatModel),
			ImageModel:      cfg.ImageModel,
			ModerationModel: cfg.ModerationModel,
		}), nil
	})

	reg.Register("openrouter", func(ctx context.Context, model string) (Client, error) {
		_ = ctx
		return NewOpenAIProvider(OpenAIOptions{
			Name:            "openrouter",
			BaseURL:         cfg.OpenRouterBaseURL,
			APIKey:          cfg.OpenRouterAPIKey,
			Model:           pick(model, cfg.OpenRouterModel),
			ImageModel:      cfg.ImageModel,
			ModerationModel: cfg.ModerationModel,
			Headers: map[string]string{
				"HTTP-Referer": cfg.OpenRouterSiteURL,
				"X-Title":      cfg.OpenRouterAppName,
			},
		}), nil
	})

	// Ollama ignores the key but the client requires one.
	reg.Register("ollama", func(ctx context.Context, model string) (Client, error) {
		_ = ctx
		return NewOpenAIProvider(OpenAIOptions{
			Name:    "ollama",
			BaseURL: cfg.OllamaBaseURL,
			APIKey:  "ollama",
			Model:   pick(model, cfg.OllamaModel),
		}), nil
	})
}

// FromConfig resolves the configured provider and wraps it with metrics.
func FromConfig(ctx context.Context, cfg config.Config) (Client, error) {
	reg := NewRegistry()
	RegisterDefaults(reg, cfg)
	c, err := reg.Get(ctx, cfg.AIProvider, "")
	if err != nil {
		return nil, err
	}
	return Instrument(c), nil
}

func pick(v, def string) string {
	if m := strings.TrimSpace(v); m != "" {
		return m
	}
	return def
}
