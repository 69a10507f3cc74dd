package middleware

import (
	"errors"

	"ssf-backend/internal/domain"
	"ssf-backend/internal/pkg/response"
	"ssf-backend/internal/pkg/validation"
	"ssf-backend/internal/replica"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// StatusFor maps an error returned by a handler to its HTTP status.
func StatusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrUnknownField):
		return fiber.StatusBadRequest
	case errors.Is(err, replica.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler is the global error handler. Returns the standard error format.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := StatusFor(err)
	var verr *validation.Errors
	if errors.As(err, &verr) {
		return response.Invalid(c, err.Error(), verr.Fields)
	}
	message := err.Error()
	if code >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("trace_id", GetTraceID(c)).Str("path", c.Path()).Msg("request failed")
		message = "Internal Server Error"
	}
	return response.Error(c, message, code, nil)
}
