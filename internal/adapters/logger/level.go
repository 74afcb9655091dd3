package logger

import "strings"

// LogLevel defines the logging level.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a string level to LogLevel. Unknown values mean Info.
func ParseLevel(levelStr string) LogLevel {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// Format selects the log output encoding.
type Format string

const (
	FormatStd     Format = "std"     // Plain text through the standard log package
	FormatJSON    Format = "json"    // zerolog JSON lines
	FormatConsole Format = "console" // zerolog human-readable console output
)

// ParseFormat converts a string to a Format. ok is false for unknown values.
func ParseFormat(s string) (Format, bool) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatStd, FormatJSON, FormatConsole:
		return f, true
	case "":
		return FormatStd, true
	default:
		return FormatStd, false
	}
}
