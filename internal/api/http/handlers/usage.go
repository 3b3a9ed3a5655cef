package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/expert-qa/server/internal/api/http/presenter"
	errx "github.com/expert-qa/server/internal/core/error"
	"github.com/expert-qa/server/internal/qa/repo"
)

// UsageReader lists recorded usage, newest first.
type UsageReader interface {
	Recent(ctx context.Context, n int) ([]repo.LedgerEntry, error)
}

// UsageHandler exposes the usage ledger.
type UsageHandler struct {
	ledger UsageReader
}

func NewUsageHandler(ledger UsageReader) *UsageHandler { return &UsageHandler{ledger: ledger} }

// List returns up to ?limit= entries (default 50, max 200).
func (h *UsageHandler) List(c *fiber.Ctx) error {
	limit := parseLimit(c, 50)
	items, err := h.ledger.Recent(c.UserContext(), limit)
	if err != nil {
		var appErr *errx.AppError
		if errors.As(err, &appErr) {
			return presenter.Error(c, appErr.Status, appErr.Message)
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to read usage ledger")
	}
	return presenter.JSON(c, http.StatusOK, items)
}

func parseLimit(c *fiber.Ctx, defLimit int) int {
	if v := strings.TrimSpace(c.Query("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			return n
		}
	}
	return defLimit
}
