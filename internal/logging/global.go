package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Global logger instance
var globalLogger *Logger

// InitGlobalLogger initializes the global logger instance
func InitGlobalLogger(level LogLevel, format string, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}

	if format == "json" {
		globalLogger = NewLogger(level, out)
	} else {
		globalLogger = NewLogger(level, zerolog.ConsoleWriter{Out: out})
	}

	return globalLogger
}

// SetGlobalLogger replaces the global logger, e.g. after attaching session fields
func SetGlobalLogger(logger *Logger) {
	globalLogger = logger
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() *Logger {
	if globalLogger == nil {
		globalLogger = NewLogger(InfoLevel, os.Stderr)
	}
	return globalLogger
}
