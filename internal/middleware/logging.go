package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/AarushM142/Todo-list-with-Authentication/internal/metrics"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/reqctx"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call
// and counts it on m, which may be nil. Place it after the auth interceptor
// so the caller's user ID is known.
func LoggingInterceptor(m *metrics.Metrics) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			logRPC(ctx, m, req.Spec().Procedure, time.Since(start), err)
			return resp, err
		}
	}
}

func logRPC(ctx context.Context, m *metrics.Metrics, procedure string, elapsed time.Duration, err error) {
	attrs := []any{
		"procedure", procedure,
		"user_id", reqctx.UserID(ctx),
		"duration_ms", elapsed.Milliseconds(),
	}

	if err == nil {
		m.ObserveRPC(procedure, "ok")
		slog.Info("RPC ok", attrs...)
		return
	}

	code := connect.CodeOf(err)
	m.ObserveRPC(procedure, code.String())

	msg := err.Error()
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		msg = connectErr.Message()
	}
	attrs = append(attrs, "code", code.String(), "error", msg)

	switch code {
	case connect.CodeInternal, connect.CodeUnknown, connect.CodeUnavailable:
		slog.Error("RPC failed", attrs...)
	default:
		slog.Warn("RPC rejected", attrs...)
	}
}
