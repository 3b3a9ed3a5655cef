package observers

import (
	"context"
	"sync"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"

	qamodel "github.com/expert-qa/server/internal/qa/model"
)

// UsageTracker collects token usage from chat model callbacks for the span of
// one invocation. Create a new tracker per call.
type UsageTracker struct {
	mu    sync.Mutex
	usage qamodel.Usage
	calls int
}

// NewUsageTracker returns an empty tracker.
func NewUsageTracker() *UsageTracker {
	return &UsageTracker{}
}

// Handler exposes the tracker as an eino callbacks.Handler.
func (t *UsageTracker) Handler() einocb.Handler {
	return callbackHelper.NewHandlerHelper().
		ChatModel(&callbackHelper.ModelCallbackHandler{
			OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *model.CallbackOutput) context.Context {
				t.add(output)
				return ctx
			},
		}).
		Handler()
}

func (t *UsageTracker) add(output *model.CallbackOutput) {
	prompt, completion, total, ok := usageOf(output)
	if !ok {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls++
	t.usage.PromptTokens += prompt
	t.usage.CompletionTokens += completion
	t.usage.TotalTokens += total
}

// usageOf reads token counts from a model callback. Components without their
// own callbacks only carry the usage on the message's ResponseMeta.
func usageOf(output *model.CallbackOutput) (prompt, completion, total int, ok bool) {
	switch {
	case output == nil:
		return 0, 0, 0, false
	case output.TokenUsage != nil:
		u := output.TokenUsage
		return u.PromptTokens, u.CompletionTokens, u.TotalTokens, true
	case output.Message != nil && output.Message.ResponseMeta != nil && output.Message.ResponseMeta.Usage != nil:
		u := output.Message.ResponseMeta.Usage
		return u.PromptTokens, u.CompletionTokens, u.TotalTokens, true
	default:
		return 0, 0, 0, false
	}
}

// Calls is the number of model completions that reported usage.
func (t *UsageTracker) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

// Usage returns the accumulated counters priced for modelName. A provider
// that omits the total gets prompt + completion.
func (t *UsageTracker) Usage(modelName string) qamodel.Usage {
	t.mu.Lock()
	u := t.usage
	t.mu.Unlock()

	if u.TotalTokens == 0 {
		u.TotalTokens = u.PromptTokens + u.CompletionTokens
	}
	_, _, u.CostUSD = qamodel.ComputeCost(u.PromptTokens, u.CompletionTokens, qamodel.ResolvePricing(modelName))
	return u
}
