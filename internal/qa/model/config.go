package model

import "github.com/expert-qa/server/internal/core"

// ================ Config ================
type ChatModelConfig struct {
	Provider    string  `envconfig:"LLM_PROVIDER" default:"openai"`
	Model       string  `envconfig:"LLM_MODEL"`
	Temperature float32 `envconfig:"LLM_TEMPERATURE" default:"0.5"`
	MaxTokens   int     `envconfig:"LLM_MAX_TOKENS" default:"0"`
}

type OpenAIConfig struct {
	APIKey  string `envconfig:"OPENAI_API_KEY"`
	BaseURL string `envconfig:"OPENAI_BASE_URL"`
}

type GeminiConfig struct {
	APIKey  string `envconfig:"GEMINI_API_KEY"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`
}

type LedgerConfig struct {
	TTL        string `envconfig:"LEDGER_TTL" default:"168h"`
	MaxEntries int    `envconfig:"LEDGER_MAX_ENTRIES" default:"1000"`
}

// ResolvedModel returns the configured model or the provider default.
func (c ChatModelConfig) ResolvedModel() string {
	if c.Model != "" {
		return c.Model
	}
	if core.NormalizeProvider(c.Provider) == core.ProviderGemini {
		return "gemini-2.5-flash"
	}
	return "gpt-4o-mini"
}

// ProviderLabel names the provider on the page ("OpenAI APIに接続中...").
func (c ChatModelConfig) ProviderLabel() string {
	if core.NormalizeProvider(c.Provider) == core.ProviderGemini {
		return "Gemini"
	}
	return "OpenAI"
}
