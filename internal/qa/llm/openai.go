package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient is the subset of openai.Client the adapter uses.
type OpenAIClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIChatModel adapts go-openai chat completions to eino's BaseChatModel.
type OpenAIChatModel struct {
	client      OpenAIClient
	model       string
	temperature float32
	maxTokens   int
}

// NewOpenAIChatModel wraps client. model and temperature are used unless
// overridden per call through eino model options.
func NewOpenAIChatModel(client OpenAIClient, modelName string, temperature float32, maxTokens int) *OpenAIChatModel {
	return &OpenAIChatModel{
		client:      client,
		model:       modelName,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

// NewOpenAIClient builds a go-openai client, honouring an optional base URL.
func NewOpenAIClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

func (m *OpenAIChatModel) GetType() string { return "OpenAI" }

// Generate issues one blocking chat completion.
func (m *OpenAIChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	options := model.GetCommonOptions(&model.Options{
		Model:       &m.model,
		Temperature: &m.temperature,
		MaxTokens:   &m.maxTokens,
	}, opts...)

	req := openai.ChatCompletionRequest{
		Model:    derefString(options.Model),
		Messages: toOpenAIMessages(input),
	}
	if options.Temperature != nil {
		req.Temperature = *options.Temperature
	}
	if options.MaxTokens != nil && *options.MaxTokens > 0 {
		req.MaxTokens = *options.MaxTokens
	}

	resp, err := m.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("no choices returned by model")
	}

	choice := resp.Choices[0]
	out := schema.AssistantMessage(choice.Message.Content, nil)
	out.ResponseMeta = &schema.ResponseMeta{
		FinishReason: string(choice.FinishReason),
		Usage: &schema.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}
	if resp.Model != "" {
		out.Extra = map[string]any{"model": resp.Model, "id": resp.ID}
	}
	return out, nil
}

// Stream is served from Generate as a single-chunk stream.
func (m *OpenAIChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func toOpenAIMessages(in []*schema.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(in))
	for _, msg := range in {
		if msg == nil {
			continue
		}
		role := openai.ChatMessageRoleUser
		switch msg.Role {
		case schema.System:
			role = openai.ChatMessageRoleSystem
		case schema.Assistant:
			role = openai.ChatMessageRoleAssistant
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: msg.Content})
	}
	return out
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ model.BaseChatModel = (*OpenAIChatModel)(nil)
