package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/sismog_console/internal/apperrors"
	"github.com/SscSPs/sismog_console/internal/core/resource"
	"github.com/SscSPs/sismog_console/internal/dto"
	"github.com/SscSPs/sismog_console/internal/middleware"
	"github.com/gin-gonic/gin"
)

// statusFor maps a service error onto an HTTP status. Errors reported by the
// data or identity service that carry no known category surface as 502.
func statusFor(err error) int {
	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, resource.ErrUnsupported):
		return http.StatusMethodNotAllowed
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &appErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes a plain error body and logs server-side failures.
func respondError(c *gin.Context, err error, msg string) {
	status := statusFor(err)
	logError(c, status, err, msg)
	c.JSON(status, dto.ErrorResponse{Error: errorMessage(err)})
}

// errorMessage is the client-facing text of err. A partial success keeps
// its full message so the caller sees which steps were committed.
func errorMessage(err error) string {
	var partial *resource.PartialSuccessError
	if errors.As(err, &partial) {
		return partial.Error()
	}
	return apperrors.Message(err)
}

func logError(c *gin.Context, status int, err error, msg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if status >= http.StatusInternalServerError {
		logger.Error(msg, slog.String("error", err.Error()), slog.Int("status", status))
		return
	}
	logger.Warn(msg, slog.String("error", err.Error()), slog.Int("status", status))
}
