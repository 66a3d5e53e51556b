package logger

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Init configures the logger to write to w at the given level. The terminal
// belongs to the UI, so w is normally a log file.
func Init(level string, w io.Writer) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLogLevel(level))

	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}
	return zerolog.New(output).With().
		Timestamp().
		Logger()
}

// parseLogLevel parses string log level to zerolog level
func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
