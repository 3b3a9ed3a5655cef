// Package qa holds the question-answer form controller.
package qa

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	errx "github.com/expert-qa/server/internal/core/error"
	qamodel "github.com/expert-qa/server/internal/qa/model"
	logx "github.com/expert-qa/server/pkg/logger"
)

// Phase is the visible state of the form.
type Phase int

const (
	Idle Phase = iota
	Processing
)

func (p Phase) String() string {
	if p == Processing {
		return "processing"
	}
	return "idle"
}

// FormState is the input of a single submit event.
type FormState struct {
	Persona  qamodel.Persona
	Question string
}

// View is what the page renders after a submit. Exactly one of Answer and Err is set.
type View struct {
	Form   FormState
	Answer *qamodel.Answer
	Err    *errx.AppError
}

// Controller handles submit events.
type Controller struct {
	asker    qamodel.Asker
	recorder qamodel.UsageRecorder
	inflight atomic.Int64
}

// NewController wires the chat capability. recorder may be nil.
func NewController(asker qamodel.Asker, recorder qamodel.UsageRecorder) *Controller {
	return &Controller{asker: asker, recorder: recorder}
}

// Phase reports Processing while any call is outstanding.
func (c *Controller) Phase() Phase {
	if c.inflight.Load() > 0 {
		return Processing
	}
	return Idle
}

// Submit validates the form, issues at most one call and returns the view to render.
func (c *Controller) Submit(ctx context.Context, form FormState) View {
	if !form.Persona.Valid() {
		form.Persona = qamodel.DefaultPersona
	}
	view := View{Form: form}

	if form.Question == "" {
		view.Err = errx.Validation(form.Persona.ValidationMessage())
		return view
	}

	conv := qamodel.NewConversation(form.Persona, form.Question)
	answer, err := c.ask(ctx, conv)
	if err != nil {
		view.Err = errx.ExternalCall(err)
		logx.Error().Err(err).Str("persona", form.Persona.String()).Msg("エラー: " + view.Err.Display())
		return view
	}

	logx.Debug().
		Str("persona", form.Persona.String()).
		Str("model", answer.Model).
		Str("content", answer.Content).
		Int("prompt_tokens", answer.Usage.PromptTokens).
		Int("completion_tokens", answer.Usage.CompletionTokens).
		Int("total_tokens", answer.Usage.TotalTokens).
		Float64("total_cost_usd", answer.Usage.CostUSD).
		Msg("raw response")

	if c.recorder != nil {
		if err := c.recorder.Record(ctx, conv, answer); err != nil {
			logx.Warn().Err(err).Msg("failed to record usage")
		}
	}

	view.Answer = answer
	return view
}

func (c *Controller) ask(ctx context.Context, conv qamodel.Conversation) (answer *qamodel.Answer, err error) {
	c.inflight.Add(1)
	logx.Debug().Str("phase", Processing.String()).Msg("phase change")
	defer func() {
		if r := recover(); r != nil {
			answer, err = nil, fmt.Errorf("%v", r)
		}
		c.inflight.Add(-1)
		logx.Debug().Str("phase", Idle.String()).Msg("phase change")
	}()

	answer, err = c.asker.Ask(ctx, conv)
	if err == nil && answer == nil {
		err = errNoAnswer
	}
	return answer, err
}

var errNoAnswer = errors.New("model returned no answer")
