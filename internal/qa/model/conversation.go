package model

import "context"

// Conversation is the two-message exchange sent to the chat model.
// Question is the user's raw input and is never trimmed.
type Conversation struct {
	Persona  Persona
	System   string
	Question string
}

// NewConversation picks the system instruction for p.
func NewConversation(p Persona, question string) Conversation {
	return Conversation{
		Persona:  p,
		System:   p.SystemPrompt(),
		Question: question,
	}
}

// Usage is the token and cost accounting of a single call.
type Usage struct {
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	CostUSD          float64 `json:"total_cost"`
}

// Answer is the result of one successful call. It lives for one render.
type Answer struct {
	Content string `json:"content"`
	Model   string `json:"model"`
	Usage   Usage  `json:"usage"`
}

// Asker issues one chat-completion call for a conversation.
type Asker interface {
	Ask(ctx context.Context, conv Conversation) (*Answer, error)
}

// UsageRecorder persists usage of successful calls. Implementations are
// best-effort and must not alter the answer.
type UsageRecorder interface {
	Record(ctx context.Context, conv Conversation, answer *Answer) error
}
