package utils

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/maps-proxy/internal/pkg/errors"
)

type ErrorResponse struct {
	Error *errors.AppError `json:"error"`
}

// SendRaw relays an already encoded JSON document unchanged.
func SendRaw(c *fiber.Ctx, body json.RawMessage) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(fiber.StatusOK).Send(body)
}

// SendError is the single translation point from errors to HTTP responses.
func SendError(c *fiber.Ctx, err error) error {
	appErr := errors.From(err)
	return c.Status(appErr.StatusCode).JSON(ErrorResponse{
		Error: appErr,
	})
}
