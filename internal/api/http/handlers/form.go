package handlers

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/expert-qa/server/internal/api/http/presenter"
	"github.com/expert-qa/server/internal/qa"
	qamodel "github.com/expert-qa/server/internal/qa/model"
	logx "github.com/expert-qa/server/pkg/logger"
)

//go:embed templates/page.html
var pageHTML string

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

// PageTitle is the heading of the form page.
const PageTitle = "LLM機能を搭載したWebアプリ"

// Submitter handles one submit event.
type Submitter interface {
	Submit(ctx context.Context, form qa.FormState) qa.View
}

// FormHandler serves the question form and its submissions.
type FormHandler struct {
	ctrl          Submitter
	providerLabel string
}

// NewFormHandler builds the handler. providerLabel names the API in the
// spinner text, e.g. "OpenAI".
func NewFormHandler(ctrl Submitter, providerLabel string) *FormHandler {
	return &FormHandler{ctrl: ctrl, providerLabel: providerLabel}
}

type personaOption struct {
	Value       string
	Label       string
	Instruction string
	Checked     bool
}

type answerView struct {
	Content          string
	Model            string
	TotalTokens      int
	PromptTokens     int
	CompletionTokens int
	Cost             string
}

type pageData struct {
	Title    string
	Personas []personaOption
	Question string
	Spinner  string
	Error    string
	Answer   *answerView
}

// Show renders the empty form.
func (h *FormHandler) Show(c *fiber.Ctx) error {
	return h.render(c, h.page(qamodel.DefaultPersona, ""))
}

// Submit handles the 質問する button.
func (h *FormHandler) Submit(c *fiber.Ctx) error {
	persona, ok := qamodel.ParsePersona(c.FormValue("persona"))
	if !ok {
		persona = qamodel.DefaultPersona
	}
	form := qa.FormState{
		Persona:  persona,
		Question: utils.CopyString(c.FormValue("question")),
	}

	view := h.ctrl.Submit(c.UserContext(), form)

	data := h.page(view.Form.Persona, view.Form.Question)
	if view.Err != nil {
		data.Error = view.Err.Display()
	}
	if view.Answer != nil {
		data.Answer = &answerView{
			Content:          view.Answer.Content,
			Model:            view.Answer.Model,
			TotalTokens:      view.Answer.Usage.TotalTokens,
			PromptTokens:     view.Answer.Usage.PromptTokens,
			CompletionTokens: view.Answer.Usage.CompletionTokens,
			Cost:             FormatCost(view.Answer.Usage.CostUSD),
		}
	}
	return h.render(c, data)
}

func (h *FormHandler) page(selected qamodel.Persona, question string) pageData {
	opts := make([]personaOption, 0, 2)
	for _, p := range qamodel.Personas() {
		opts = append(opts, personaOption{
			Value:       p.String(),
			Label:       p.Label(),
			Instruction: p.ValidationMessage(),
			Checked:     p == selected,
		})
	}
	return pageData{
		Title:    PageTitle,
		Personas: opts,
		Question: question,
		Spinner:  h.providerLabel + " APIに接続中...",
	}
}

func (h *FormHandler) render(c *fiber.Ctx, data pageData) error {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		logx.Error().Err(err).Msg("failed to render page")
		return presenter.Error(c, fiber.StatusInternalServerError, "internal server error")
	}
	return presenter.HTML(c, fiber.StatusOK, buf.Bytes())
}

// FormatCost renders a USD cost with six decimals.
func FormatCost(cost float64) string {
	return fmt.Sprintf("%.6f", cost)
}
