package qamcap

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with qamcap-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithRunID tags every record with the ID of one Evaluate call.
func (l *Logger) WithRunID(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("run_id", id),
	}
}

// WithConstellation adds the size and fingerprint of a constellation.
func (l *Logger) WithConstellation(size int, fingerprint uint32) *Logger {
	return &Logger{
		Logger: l.Logger.With("size", size, "fingerprint", fingerprint),
	}
}

// WithConcurrency adds the peak number of points in flight and the number
// of points dispatched so far on the Evaluator.
func (l *Logger) WithConcurrency(peak, total int64) *Logger {
	return &Logger{
		Logger: l.Logger.With("peak_in_flight", peak, "dispatched", total),
	}
}

// LogEvaluate logs the end of an Evaluate call.
func (l *Logger) LogEvaluate(ctx context.Context, points, failed, clamped int, d time.Duration, err error) {
	switch {
	case err != nil:
		l.ErrorContext(ctx, "evaluate failed",
			"points", points,
			"duration", d,
			"error", err,
		)
	case failed > 0:
		l.WarnContext(ctx, "evaluate completed with failed points",
			"points", points,
			"failed", failed,
			"clamped", clamped,
			"duration", d,
		)
	default:
		l.InfoContext(ctx, "evaluate completed",
			"points", points,
			"clamped", clamped,
			"duration", d,
		)
	}
}

// LogPoint logs a single finished SNR point.
func (l *Logger) LogPoint(ctx context.Context, index int, p Point) {
	switch p.Status {
	case StatusOK:
		l.DebugContext(ctx, "point evaluated",
			"index", index,
			"snr_db", p.SNRdB,
			"sigma", p.Sigma,
			"mi", p.MI,
			"gmi", p.GMI,
			"duration", p.Duration,
		)
	case StatusClamped:
		l.WarnContext(ctx, "point clamped to noise limit",
			"index", index,
			"snr_db", p.SNRdB,
			"sigma", p.Sigma,
			"mi", p.MI,
			"gmi", p.GMI,
			"reason", p.Err,
		)
	default:
		l.ErrorContext(ctx, "point failed",
			"index", index,
			"snr_db", p.SNRdB,
			"sigma", p.Sigma,
			"error", p.Err,
		)
	}
}

// LogProgress logs how many points of a call are finished.
func (l *Logger) LogProgress(ctx context.Context, done, total int) {
	l.InfoContext(ctx, "evaluate progress",
		"done", done,
		"total", total,
	)
}
