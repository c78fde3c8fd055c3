// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	envelopeDomain "github.com/allisson/fieldcrypt/internal/envelope/domain"
	apperrors "github.com/allisson/fieldcrypt/internal/errors"
)

// ErrorResponse represents a structured error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// errorMapping pairs a base error kind with its HTTP status and public error name.
// A fixed message hides err.Error() from the client; an empty one exposes it.
type errorMapping struct {
	kind    error
	status  int
	name    string
	message string
}

var errorMappings = []errorMapping{
	{apperrors.ErrNotFound, http.StatusNotFound, "not_found", "The requested resource was not found"},
	{apperrors.ErrConflict, http.StatusConflict, "conflict", "A conflict occurred with existing data"},
	{apperrors.ErrInvalidInput, http.StatusUnprocessableEntity, "invalid_input", ""},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized", "Authentication is required"},
	{apperrors.ErrUnavailable, http.StatusServiceUnavailable, "unavailable", "A required dependency is unavailable, retry later"},
}

// HandleErrorGin maps domain errors to HTTP status codes and writes a JSON error response.
//
// Errors that belong to the envelope error taxonomy also carry their kind in Code
// (e.g. "authentication_failure"), so clients can branch without parsing messages.
// Unknown errors become a 500 without details.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	statusCode := http.StatusInternalServerError
	response := ErrorResponse{Error: "internal_error", Message: "An internal error occurred"}
	for _, m := range errorMappings {
		if apperrors.Is(err, m.kind) {
			statusCode = m.status
			response = ErrorResponse{Error: m.name, Message: m.message}
			if m.message == "" {
				response.Message = err.Error()
			}
			break
		}
	}

	if kind := envelopeDomain.KindOf(err); kind != envelopeDomain.KindUnknown {
		response.Code = string(kind)
	}

	if logger != nil {
		level := slog.LevelWarn
		if statusCode >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_code", response.Error),
			slog.String("error_kind", response.Code),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, response)
}

// HandleBadRequestGin writes a 400 Bad Request response for malformed JSON or parameters.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	writeClientError(c, http.StatusBadRequest, "bad_request", err, logger)
}

// HandleValidationErrorGin writes a 422 Unprocessable Entity response for validation errors.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	writeClientError(c, http.StatusUnprocessableEntity, "validation_error", err, logger)
}

func writeClientError(c *gin.Context, status int, name string, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn(name, slog.Any("error", err))
	}
	c.JSON(status, ErrorResponse{Error: name, Message: err.Error()})
}
