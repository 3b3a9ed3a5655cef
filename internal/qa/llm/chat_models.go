package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"

	"github.com/expert-qa/server/internal/core"
	qamodel "github.com/expert-qa/server/internal/qa/model"
	logx "github.com/expert-qa/server/pkg/logger"
)

// ChatModelConfig holds what is needed to build the configured provider.
type ChatModelConfig struct {
	Model  qamodel.ChatModelConfig
	OpenAI qamodel.OpenAIConfig
	Gemini qamodel.GeminiConfig
}

// NewChatModel creates the chat model for the configured provider.
func NewChatModel(ctx context.Context, cfg ChatModelConfig) (model.BaseChatModel, error) {
	modelName := cfg.Model.ResolvedModel()

	switch provider := core.NormalizeProvider(cfg.Model.Provider); provider {
	case core.ProviderOpenAI:
		client := NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL)
		return NewOpenAIChatModel(client, modelName, cfg.Model.Temperature, cfg.Model.MaxTokens), nil

	case core.ProviderGemini:
		clientCfg := &genai.ClientConfig{
			APIKey:  cfg.Gemini.APIKey,
			Backend: genai.BackendGeminiAPI,
		}
		if cfg.Gemini.BaseURL != "" {
			clientCfg.HTTPOptions.BaseURL = cfg.Gemini.BaseURL
		}

		client, err := genai.NewClient(ctx, clientCfg)
		if err != nil {
			logx.Error().Err(err).Msg("Error creating Gemini client")
			return nil, fmt.Errorf("error creating Gemini client: %w", err)
		}

		gcfg := &gemini.Config{
			Client:      client,
			Model:       modelName,
			Temperature: &cfg.Model.Temperature,
		}
		if cfg.Model.MaxTokens > 0 {
			gcfg.MaxTokens = &cfg.Model.MaxTokens
		}
		cm, err := gemini.NewChatModel(ctx, gcfg)
		if err != nil {
			logx.Error().Err(err).Msg("Error creating Gemini chat model")
			return nil, fmt.Errorf("error creating Gemini chat model: %w", err)
		}
		return cm, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider %q", provider)
	}
}
