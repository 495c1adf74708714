package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/sismog_console/internal/middleware"
)

// BaseService provides the logging helpers shared by the console services.
// Component, when set, tags every line so page and session logs can be told
// apart in one request.
type BaseService struct {
	Component string
}

func component(name string) BaseService {
	return BaseService{Component: name}
}

// GetLogger gets the request-scoped logger from context or the default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if s.Component != "" {
		logger = logger.With(slog.String("component", s.Component))
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := append([]any{slog.String("error", err.Error())}, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}
