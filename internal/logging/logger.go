package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// LogLevel represents the logging level
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

// Logger holds the zerolog logger instance
type Logger struct {
	logger zerolog.Logger
}

// NewLogger creates a new logger instance with the specified log level
func NewLogger(logLevel LogLevel, output io.Writer) *Logger {
	if output == nil {
		output = os.Stderr
	}

	level, err := zerolog.ParseLevel(string(logLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &Logger{
		logger: logger,
	}
}

// WithContext adds trace and span IDs from ctx when a span is recording
func (l *Logger) WithContext(ctx context.Context) *zerolog.Logger {
	logCtx := l.logger.With()

	if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
		logCtx = logCtx.Str("trace_id", spanCtx.TraceID().String())
		logCtx = logCtx.Str("span_id", spanCtx.SpanID().String())
	}

	logger := logCtx.Logger()
	return &logger
}

// WithField adds a single field to the logger
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{logger: l.logger.With().Interface(key, value).Logger()}
}

// WithModule creates a logger with module field
func (l *Logger) WithModule(module string) *zerolog.Logger {
	logger := l.logger.With().Str("module", module).Logger()
	return &logger
}

// LogOperation logs the outcome of one catalog operation
func (l *Logger) LogOperation(ctx context.Context, operation string, duration time.Duration, err error) {
	logger := l.WithContext(ctx)

	if err != nil {
		logger.Warn().
			Str("operation", operation).
			Int64("duration_ms", duration.Milliseconds()).
			Err(err).
			Msg("Catalog operation failed")
		return
	}

	logger.Info().
		Str("operation", operation).
		Int64("duration_ms", duration.Milliseconds()).
		Msg("Catalog operation completed")
}
