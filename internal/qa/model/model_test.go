package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePersona(t *testing.T) {
	p, ok := ParsePersona("web-dev-expert")
	require.True(t, ok)
	assert.Equal(t, WebDevExpert, p)

	p, ok = ParsePersona("hr-recruiting-expert")
	require.True(t, ok)
	assert.Equal(t, HRRecruitingExpert, p)

	_, ok = ParsePersona("WEB開発の専門家")
	assert.False(t, ok)
	_, ok = ParsePersona("")
	assert.False(t, ok)
}

func TestPersonaCopy(t *testing.T) {
	assert.Equal(t, "WEB開発の専門家", WebDevExpert.Label())
	assert.Equal(t, "人事・採用の専門家", HRRecruitingExpert.Label())
	assert.Equal(t, "WEB開発について質問したい内容を入力してから「質問する」ボタンを押してください。", WebDevExpert.ValidationMessage())
	assert.Equal(t, "人事・採用について質問したい内容を入力してから「質問する」ボタンを押してください。", HRRecruitingExpert.ValidationMessage())
	assert.NotEqual(t, WebDevExpert.SystemPrompt(), HRRecruitingExpert.SystemPrompt())
	assert.Equal(t, []Persona{WebDevExpert, HRRecruitingExpert}, Personas())
}

func TestNewConversationKeepsQuestionVerbatim(t *testing.T) {
	q := "  CSSとは何ですか？\n"
	conv := NewConversation(HRRecruitingExpert, q)
	assert.Equal(t, q, conv.Question)
	assert.Equal(t, HRRecruitingExpert.SystemPrompt(), conv.System)
	assert.Equal(t, HRRecruitingExpert, conv.Persona)
}

func TestComputeCost(t *testing.T) {
	in, out, total := ComputeCost(1_000_000, 500_000, ResolvePricing("gpt-4o-mini"))
	assert.InDelta(t, 0.15, in, 1e-12)
	assert.InDelta(t, 0.30, out, 1e-12)
	assert.InDelta(t, 0.45, total, 1e-12)

	_, _, total = ComputeCost(100, 100, ResolvePricing("unknown-model"))
	assert.Zero(t, total)
}

func TestResolvedModel(t *testing.T) {
	assert.Equal(t, "gpt-4o-mini", ChatModelConfig{Provider: "openai"}.ResolvedModel())
	assert.Equal(t, "gemini-2.5-flash", ChatModelConfig{Provider: "gemini"}.ResolvedModel())
	assert.Equal(t, "gpt-4o", ChatModelConfig{Provider: "openai", Model: "gpt-4o"}.ResolvedModel())
	assert.Equal(t, "Gemini", ChatModelConfig{Provider: "GEMINI"}.ProviderLabel())
	assert.Equal(t, "OpenAI", ChatModelConfig{}.ProviderLabel())
}
