package logger

import (
	"io"

	"smcTickBot/internal/ports"
)

// New builds the ports.Logger for the requested format.
func New(w io.Writer, level LogLevel, format Format) ports.Logger {
	switch format {
	case FormatJSON:
		return NewZeroLogger(w, level, false)
	case FormatConsole:
		return NewZeroLogger(w, level, true)
	default:
		return NewStdLoggerTo(w, level)
	}
}
