package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/expert-qa/server/internal/api/http/presenter"
	"github.com/expert-qa/server/internal/qa"
	qamodel "github.com/expert-qa/server/internal/qa/model"
)

// AskHandler is the JSON variant of the form submit.
type AskHandler struct {
	ctrl Submitter
}

func NewAskHandler(ctrl Submitter) *AskHandler { return &AskHandler{ctrl: ctrl} }

type askRequest struct {
	Persona  string `json:"persona"`
	Question string `json:"question"`
}

type askResponse struct {
	Persona string        `json:"persona"`
	Answer  string        `json:"answer"`
	Model   string        `json:"model"`
	Usage   qamodel.Usage `json:"usage"`
}

// Ask answers {persona, question}. 400 on validation, 502 when the model call fails.
func (h *AskHandler) Ask(c *fiber.Ctx) error {
	var req askRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON")
	}
	persona, ok := qamodel.ParsePersona(req.Persona)
	if !ok {
		return presenter.Error(c, http.StatusBadRequest, "unknown persona")
	}

	view := h.ctrl.Submit(c.UserContext(), qa.FormState{Persona: persona, Question: req.Question})
	if view.Err != nil {
		return presenter.KindError(c, view.Err.Status, view.Err.Kind.String(), view.Err.Display())
	}
	return presenter.JSON(c, http.StatusOK, askResponse{
		Persona: persona.String(),
		Answer:  view.Answer.Content,
		Model:   view.Answer.Model,
		Usage:   view.Answer.Usage,
	})
}
