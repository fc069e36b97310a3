package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"volume-chat/internal/interfaces"
	"volume-chat/internal/llm/noop"
	"volume-chat/internal/store"
)

// NewChatModel builds the eino chat model for cfg.LLM.Provider.
// Gemini is reached through its OpenAI-compatible endpoint.
func NewChatModel(ctx context.Context, cfg *store.Config) (model.BaseChatModel, error) {
	apiKey := cfg.APIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("%s missing", cfg.LLM.APIKeyEnv)
	}

	switch cfg.LLM.Provider {
	case store.ProviderGemini, store.ProviderOpenAI:
		cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL: cfg.LLM.BaseURL,
			APIKey:  apiKey,
			Model:   cfg.LLM.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create %s model: %w", cfg.LLM.Provider, err)
		}
		return cm, nil
	case store.ProviderDeepSeek:
		cm, err := deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			BaseURL: cfg.LLM.BaseURL,
			APIKey:  apiKey,
			Model:   cfg.LLM.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create DeepSeek model: %w", err)
		}
		return cm, nil
	default:
		return nil, fmt.Errorf("no chat model for provider %q", cfg.LLM.Provider)
	}
}

// NewStreamer returns the configured streamer. NOOP needs no credentials.
func NewStreamer(ctx context.Context, cfg *store.Config) (interfaces.ChatStreamer, error) {
	if cfg.LLM.Provider == store.ProviderNoop {
		return noop.NewEchoStreamer(), nil
	}

	m, err := NewChatModel(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewEinoStreamer(m,
		WithSystemPrompt(cfg.LLM.System),
		WithTemperature(cfg.LLM.Temperature),
		WithMaxTokens(cfg.LLM.MaxTokens),
	), nil
}
