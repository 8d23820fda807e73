package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Config holds logging configuration
type Config struct {
	Level  string `env:"LOG_LEVEL" default:"info"`
	Format string `env:"LOG_FORMAT" default:"json"`
	Output string `env:"LOG_OUTPUT" default:"stdout"`
}

// DefaultConfig returns the default logging configuration
func DefaultConfig() *Config {
	return &Config{
		Level:  "info",
		Format: "json",
		Output: "stdout",
	}
}

// Logger wraps slog.Logger with tenant and standard aware helpers
type Logger struct {
	*slog.Logger
}

type ctxKey string

// RequestIDKey is the context key carrying the request or run identifier.
const RequestIDKey ctxKey = "request_id"

// NewLogger creates a new structured logger from configuration
func NewLogger(cfg *Config) *Logger {
	return NewLoggerWithWriter(cfg, outputWriter(cfg.Output))
}

// NewLoggerWithWriter builds a logger writing to w. Tests use it to capture output.
func NewLoggerWithWriter(cfg *Config, w io.Writer) *Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String("timestamp", a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text", "console":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

func outputWriter(output string) io.Writer {
	switch strings.ToLower(output) {
	case "stderr":
		return os.Stderr
	default:
		return os.Stdout
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithComponent adds component context to logger
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.Logger.With("component", component)}
}

// WithTenant scopes the logger to a tenant
func (l *Logger) WithTenant(tenant string) *Logger {
	return &Logger{Logger: l.Logger.With("tenant", tenant)}
}

// WithContext adds the request id if one is present
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		return &Logger{Logger: l.Logger.With("request_id", requestID)}
	}
	return l
}

// Standard logs a standards event for a tenant
func (l *Logger) Standard(msg string, tenant string, attrs ...slog.Attr) {
	l.Logger.Info(msg, attrArgs([]any{"tenant", tenant}, attrs)...)
}

// StandardError logs a failed standards step for a tenant
func (l *Logger) StandardError(msg string, err error, tenant string, attrs ...slog.Attr) {
	args := []any{"tenant", tenant}
	if err != nil {
		args = append(args, "error", err.Error())
	}
	l.Logger.Error(msg, attrArgs(args, attrs)...)
}

// Performance logs performance metrics
func (l *Logger) Performance(operation string, duration time.Duration, attrs ...slog.Attr) {
	l.Logger.Info("performance", attrArgs([]any{"operation", operation, "duration_ms", duration.Milliseconds()}, attrs)...)
}

// Exchange logs Exchange Online transport events
func (l *Logger) Exchange(msg string, args ...any) {
	l.Logger.Debug(msg, append([]any{"subsystem", "exchange"}, args...)...)
}

// Graph logs Microsoft Graph events
func (l *Logger) Graph(msg string, args ...any) {
	l.Logger.Debug(msg, append([]any{"subsystem", "graph"}, args...)...)
}

// Database logs database-specific events
func (l *Logger) Database(msg string, args ...any) {
	l.Logger.Debug(msg, append([]any{"subsystem", "database"}, args...)...)
}

func attrArgs(args []any, attrs []slog.Attr) []any {
	for _, attr := range attrs {
		args = append(args, attr.Key, attr.Value)
	}
	return args
}

var defaultLogger *Logger

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}

// Default returns the default logger instance
func Default() *Logger {
	if defaultLogger == nil {
		defaultLogger = NewLogger(DefaultConfig())
	}
	return defaultLogger
}

// Convenience functions using default logger
func Info(msg string, args ...any) {
	Default().Info(msg, args...)
}

func Debug(msg string, args ...any) {
	Default().Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	Default().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	Default().Error(msg, args...)
}
