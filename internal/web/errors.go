package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ClubAdmin/ClubAdmin/internal/access"
	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
)

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// ErrorHandler translates an error into its status and body and logs it.
// Internal errors are answered with a generic message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var (
		status int
		body   ErrorBody
		fe     *fiber.Error
	)

	if errors.As(err, &fe) {
		status = fe.Code
		body.Error = fe.Message
	} else {
		status = apperr.HTTPStatus(apperr.KindOf(err))
		body.Error, body.Fields = apperr.Public(err)
	}

	event := logEvent(status).Err(err).
		Int("status", status).
		Str("method", c.Method()).
		Str("path", c.Path())

	if id, ok := c.Locals("requestid").(string); ok {
		event.Str("requestId", id)
	}

	if clubID := access.ClubID(c); clubID != uuid.Nil {
		event.Str("clubId", clubID.String())
	}

	if caller, ok := access.CallerFrom(c); ok {
		event.Str("caller", caller.String())
	}

	event.Msg("request failed")

	return c.Status(status).JSON(body)
}

func logEvent(status int) *zerolog.Event {
	switch {
	case status >= fiber.StatusInternalServerError:
		return log.Error()
	case status == fiber.StatusNotFound, status == fiber.StatusUnauthorized:
		return log.Debug()
	default:
		return log.Warn()
	}
}
