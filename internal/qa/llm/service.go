package llm

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	qamodel "github.com/expert-qa/server/internal/qa/model"
	"github.com/expert-qa/server/internal/qa/observers"
	logx "github.com/expert-qa/server/pkg/logger"
)

const (
	varSystem   = "system"
	varQuestion = "question"
)

// Service answers a Conversation with a single chat model call and reports
// its usage.
type Service struct {
	runnable  compose.Runnable[map[string]any, *schema.Message]
	modelName string
	handlers  []einocb.Handler
}

// NewService compiles the prompt -> chat model chain. Extra handlers are
// attached to every call alongside the usage tracker.
func NewService(ctx context.Context, cm model.BaseChatModel, modelName string, handlers ...einocb.Handler) (*Service, error) {
	if cm == nil {
		return nil, errors.New("chat model is nil")
	}

	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage("{{.system}}"),
		schema.UserMessage("{{.question}}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.
		AppendChatTemplate(tpl, compose.WithNodeName("PersonaPrompt")).
		AppendChatModel(cm, compose.WithNodeName("ChatModel"))

	runnable, err := chain.Compile(ctx)
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling chain")
		return nil, fmt.Errorf("error compiling chain: %w", err)
	}

	return &Service{runnable: runnable, modelName: modelName, handlers: handlers}, nil
}

// Ask issues one blocking call. No retry.
func (s *Service) Ask(ctx context.Context, conv qamodel.Conversation) (*qamodel.Answer, error) {
	tracker := observers.NewUsageTracker()
	opts := []compose.Option{compose.WithCallbacks(tracker.Handler())}
	for _, h := range s.handlers {
		opts = append(opts, compose.WithCallbacks(h))
	}

	out, err := s.runnable.Invoke(ctx, map[string]any{
		varSystem:   conv.System,
		varQuestion: conv.Question,
	}, opts...)
	if err != nil {
		return nil, causeOf(err)
	}
	if out == nil {
		return nil, errors.New("model returned no message")
	}

	return &qamodel.Answer{
		Content: out.Content,
		Model:   s.modelName,
		Usage:   tracker.Usage(s.modelName),
	}, nil
}

// ModelName is the model identifier every call uses.
func (s *Service) ModelName() string {
	return s.modelName
}

var _ qamodel.Asker = (*Service)(nil)

// causeOf strips eino's node-run framing so callers see the component's own error.
func causeOf(err error) error {
	for err != nil && isEinoError(err) {
		next := errors.Unwrap(err)
		if next == nil {
			break
		}
		err = next
	}
	return err
}

func isEinoError(err error) bool {
	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return strings.HasPrefix(t.PkgPath(), "github.com/cloudwego/eino")
}
