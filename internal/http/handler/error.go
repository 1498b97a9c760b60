package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"assetreg/internal/apperr"
	"assetreg/internal/http/middleware"
)

// errorPayload is the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking
// internal errors.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError maps a kinded domain error to its HTTP status. Domain
// error messages are caller-safe and returned as-is; anything unkinded is a
// plain 500.
func writeServiceError(c *fiber.Ctx, err error) error {
	var e *apperr.Error
	status := fiber.StatusInternalServerError
	code := "INTERNAL_ERROR"
	message := "internal server error"

	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		status, code = fiber.StatusBadRequest, "VALIDATION_ERROR"
	case apperr.KindNotFound:
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case apperr.KindForbidden:
		status, code = fiber.StatusForbidden, "FORBIDDEN"
	case apperr.KindInvalidState:
		status, code = fiber.StatusConflict, "INVALID_STATE"
	case apperr.KindConflict:
		status, code = fiber.StatusConflict, "CONFLICT"
	default:
		return writeError(c, status, code, message)
	}

	if errors.As(err, &e) {
		message = e.Message
	}
	return writeError(c, status, code, message)
}

// ErrorHandler returns a Fiber global error handler that standardizes error
// responses, including routing-level errors that never reach a handler.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if apperr.KindOf(err) != "" {
			return writeServiceError(c, err)
		}

		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
