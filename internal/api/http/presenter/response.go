package presenter

import "github.com/gofiber/fiber/v2"

type ErrorResponse struct {
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func Error(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, ErrorResponse{Message: message})
}

// KindError reports an error together with its kind ("validation_error", ...).
func KindError(c *fiber.Ctx, status int, kind, message string) error {
	return JSON(c, status, ErrorResponse{Kind: kind, Message: message})
}

// HTML writes an already rendered page.
func HTML(c *fiber.Ctx, status int, body []byte) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(body)
}
