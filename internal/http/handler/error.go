package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"arsip/internal/http/middleware"
	"arsip/internal/repository"
	"arsip/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	Success   bool          `json:"success"`
	Message   string        `json:"message"`
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// successPayload wraps every non-file response.
type successPayload struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
}

func respond(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(successPayload{Success: true, Message: message, Data: data})
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return writeFieldErrors(c, status, code, message, nil)
}

func writeFieldErrors(c *fiber.Ctx, status int, code, message string, fields map[string]string) error {
	res := errorPayload{
		Message:   message,
		RequestID: middleware.GetRequestID(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
			Fields:  fields,
		},
	}
	return c.Status(status).JSON(res)
}

// respondError translates service errors into API errors. Anything it does
// not recognise is handed to the global ErrorHandler.
func respondError(c *fiber.Ctx, err error) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return writeFieldErrors(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "Data tidak valid", verr.Fields)
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "ID tidak valid")
	case errors.Is(err, service.ErrFileMissing):
		return writeError(c, fiber.StatusNotFound, "FILE_MISSING", service.ErrFileMissing.Error())
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "Data tidak ditemukan")
	case errors.Is(err, service.ErrForbidden):
		return writeError(c, fiber.StatusForbidden, "FORBIDDEN", service.ErrForbidden.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", service.ErrInvalidCredentials.Error())
	case errors.Is(err, service.ErrUnauthorized):
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Autentikasi diperlukan")
	case errors.Is(err, service.ErrTooManyAttempts):
		return writeError(c, fiber.StatusTooManyRequests, "TOO_MANY_ATTEMPTS", service.ErrTooManyAttempts.Error())
	case errors.Is(err, repository.ErrDuplicate):
		return writeError(c, fiber.StatusConflict, "CONFLICT", "Data sudah ada")
	}
	return err
}

var statusCodes = map[int]string{
	fiber.StatusBadRequest:            "BAD_REQUEST",
	fiber.StatusUnauthorized:          "UNAUTHORIZED",
	fiber.StatusForbidden:             "FORBIDDEN",
	fiber.StatusRequestEntityTooLarge: "PAYLOAD_TOO_LARGE",
	fiber.StatusTooManyRequests:       "TOO_MANY_REQUESTS",
	fiber.StatusServiceUnavailable:    "SERVICE_UNAVAILABLE",
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var e *fiber.Error
		if errors.As(err, &e) {
			status = e.Code
		}

		switch status {
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "Halaman tidak ditemukan")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "Metode tidak diizinkan")
		}
		if code, ok := statusCodes[status]; ok {
			return writeError(c, status, code, e.Message)
		}

		log.Error("unhandled_error",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Terjadi kesalahan pada server")
	}
}
