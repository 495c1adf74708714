package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/sismog_console/internal/core/resource"
)

// OperationRecorder receives timings of page operations. Implemented by the
// Prometheus collector.
type OperationRecorder interface {
	RecordConsoleOperation(page, operation string, duration time.Duration, err error)
	SetActiveWorkspaces(n int)
}

// pageObserver logs every data-service-backed page operation and forwards
// its timing to the recorder.
type pageObserver struct {
	BaseService
	recorder OperationRecorder
}

var _ resource.Observer = (*pageObserver)(nil)

func (o *pageObserver) Observe(ctx context.Context, page, op string, started time.Time, err error) {
	elapsed := time.Since(started)
	if o.recorder != nil {
		o.recorder.RecordConsoleOperation(page, op, elapsed, err)
	}
	if err != nil {
		o.LogError(ctx, err, "Console operation failed",
			slog.String("page", page),
			slog.String("operation", op),
			slog.Duration("duration", elapsed))
		return
	}
	o.LogDebug(ctx, "Console operation completed",
		slog.String("page", page),
		slog.String("operation", op),
		slog.Duration("duration", elapsed))
}
