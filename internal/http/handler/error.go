package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"auditapi/internal/http/middleware"
	"auditapi/internal/pdf"
	"auditapi/internal/repository"
	"auditapi/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Details carries machine-readable context for errors that need it,
	// e.g. the saved form id/version when the pipeline partially completed.
	Details any `json:"details,omitempty"`
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

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "VALIDATION_FAILED", "NOT_FOUND")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return writeErrorDetails(c, status, code, message, nil)
}

func writeErrorDetails(c *fiber.Ctx, status int, code, message string, details any) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError maps domain errors from the service layer onto the HTTP
// error taxonomy. Unrecognized errors collapse to a generic 500 so internals
// never leak into responses.
func writeServiceError(c *fiber.Ctx, err error) error {
	var pce *service.PartialCompletionError
	if errors.As(err, &pce) {
		return writeErrorDetails(c, fiber.StatusInternalServerError, "PARTIAL_COMPLETION",
			"form saved but a post-save step failed", fiber.Map{
				"formId":  pce.Form.ID,
				"version": pce.Form.Version,
				"step":    pce.Step,
			})
	}

	var renderErr *pdf.RenderError
	if errors.As(err, &renderErr) {
		return writeError(c, fiber.StatusInternalServerError, "RENDER_FAILED", "pdf rendering failed")
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, service.ErrIDRequired), errors.Is(err, service.ErrValidation):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", err.Error())
	case errors.Is(err, repository.ErrVersionConflict):
		return writeError(c, fiber.StatusConflict, "VERSION_CONFLICT", "a newer version of this form already exists")
	case errors.Is(err, service.ErrStorage):
		return writeError(c, fiber.StatusBadGateway, "STORAGE_FAILED", "object storage unavailable")
	case errors.Is(err, service.ErrEmailTaken):
		return writeError(c, fiber.StatusConflict, "EMAIL_TAKEN", "email already registered")
	case errors.Is(err, service.ErrInvalidCredentials):
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
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
