package logger

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// ZeroLogger implements the ports.Logger interface on top of zerolog.
type ZeroLogger struct {
	zl zerolog.Logger
}

// NewZeroLogger creates a zerolog-backed logger writing JSON lines to w, or
// human-readable output when console is true.
func NewZeroLogger(w io.Writer, level LogLevel, console bool) *ZeroLogger {
	out := w
	if console {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339Nano}
	}
	zl := zerolog.New(out).
		Level(toZerologLevel(level)).
		With().
		Timestamp().
		Logger()
	return &ZeroLogger{zl: zl}
}

func toZerologLevel(level LogLevel) zerolog.Level {
	switch level {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *ZeroLogger) write(ctx context.Context, event *zerolog.Event, msg string, fields []map[string]interface{}) {
	if event == nil {
		return
	}
	if merged := mergeFields(ctx, fields); len(merged) > 0 {
		event = event.Fields(merged)
	}
	event.Msg(msg)
}

// Debug logs a message at Debug level.
func (l *ZeroLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {
	l.write(ctx, l.zl.Debug(), msg, fields)
}

// Info logs a message at Info level.
func (l *ZeroLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{}) {
	l.write(ctx, l.zl.Info(), msg, fields)
}

// Warn logs a message at Warning level.
func (l *ZeroLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{}) {
	l.write(ctx, l.zl.Warn(), msg, fields)
}

// Error logs an error message at Error level.
func (l *ZeroLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
	l.write(ctx, l.zl.Error().Err(err), msg, fields)
}
