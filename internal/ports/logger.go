package ports

import "context"

// Logger is the logging abstraction every component receives.
// Adapters exist for the standard log package and for zerolog.
type Logger interface {
	// Debug logs per-tick diagnostics.
	Debug(ctx context.Context, msg string, fields ...map[string]interface{})
	// Info logs operator-facing events (BOS registered, trade placed, outcome).
	Info(ctx context.Context, msg string, fields ...map[string]interface{})
	// Warn logs recoverable problems (missed trades, reconnects).
	Warn(ctx context.Context, msg string, fields ...map[string]interface{})
	// Error logs a failure together with its cause.
	Error(ctx context.Context, err error, msg string, fields ...map[string]interface{})
}
