// Package logging provides structured logging with optional Sentry reporting.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/getsentry/sentry-go"
)

// Config holds logging configuration.
type Config struct {
	Level     slog.Level
	SentryDSN string
	Version   string
	LogFile   string // Path to log file (empty = stderr)
	RunID     string // Attached to every record and Sentry event
}

type state struct {
	logger        *slog.Logger
	sentryEnabled bool
	logFile       *os.File
}

var current *state

// Init installs the process-wide logger.
func Init(cfg Config) error {
	sentryEnabled := false
	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:     cfg.SentryDSN,
			Release: cfg.Version,
		})
		if err != nil {
			return fmt.Errorf("sentry init: %w", err)
		}
		if cfg.RunID != "" {
			sentry.ConfigureScope(func(scope *sentry.Scope) {
				scope.SetTag("run_id", cfg.RunID)
			})
		}
		sentryEnabled = true
	}

	var output io.Writer = os.Stderr
	var logFile *os.File
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		output = f
		logFile = f
	}

	var handler slog.Handler = &sentryHandler{
		Handler:       newTextHandler(output, cfg.Level),
		sentryEnabled: sentryEnabled,
	}
	logger := slog.New(handler)
	if cfg.RunID != "" {
		logger = logger.With("run", cfg.RunID)
	}

	current = &state{logger: logger, sentryEnabled: sentryEnabled, logFile: logFile}
	slog.SetDefault(logger)
	return nil
}

func newTextHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.Local().Format("15:04:05.000"))
				}
			}
			return a
		},
	})
}

// Flush sends pending Sentry events and closes the log file.
func Flush(timeout time.Duration) {
	if current == nil {
		return
	}
	if current.sentryEnabled {
		sentry.Flush(timeout)
	}
	if current.logFile != nil {
		_ = current.logFile.Sync()
		_ = current.logFile.Close()
		current.logFile = nil
	}
}

// Logger returns the installed logger, or slog's default before Init.
func Logger() *slog.Logger {
	if current == nil {
		return slog.Default()
	}
	return current.logger
}

// sentryHandler forwards error records to Sentry.
type sentryHandler struct {
	slog.Handler
	sentryEnabled bool
}

func (h *sentryHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.Handler.Handle(ctx, r); err != nil {
		return err
	}
	if h.sentryEnabled && r.Level >= slog.LevelError {
		event := sentry.NewEvent()
		event.Level = sentry.LevelError
		event.Message = r.Message
		event.Timestamp = r.Time
		r.Attrs(func(a slog.Attr) bool {
			event.Extra[a.Key] = a.Value.Any()
			return true
		})
		sentry.CaptureEvent(event)
	}
	return nil
}

func (h *sentryHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &sentryHandler{Handler: h.Handler.WithAttrs(attrs), sentryEnabled: h.sentryEnabled}
}

func (h *sentryHandler) WithGroup(name string) slog.Handler {
	return &sentryHandler{Handler: h.Handler.WithGroup(name), sentryEnabled: h.sentryEnabled}
}

// Debug logs at debug level.
func Debug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}

// Info logs at info level.
func Info(msg string, args ...any) {
	Logger().Info(msg, args...)
}

// Warn logs at warn level.
func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

// Error logs at error level and sends to Sentry.
func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}

// CaptureError reports err to Sentry, if enabled, with extra context, and logs it.
func CaptureError(err error, ctx ...any) {
	if current != nil && current.sentryEnabled {
		sentry.WithScope(func(scope *sentry.Scope) {
			for i := 0; i+1 < len(ctx); i += 2 {
				if key, ok := ctx[i].(string); ok {
					scope.SetExtra(key, ctx[i+1])
				}
			}
			sentry.CaptureException(err)
		})
	}
	args := append([]any{"error", err}, ctx...)
	Logger().Debug("captured error", args...)
}

// CapturePanic logs a recovered panic and reports it to Sentry as fatal.
// It returns the panic value so callers can re-panic if needed.
func CapturePanic(panicValue any, ctx ...any) any {
	if panicValue == nil {
		return nil
	}

	msg := fmt.Sprintf("panic: %v", panicValue)
	args := append([]any{"panic", panicValue}, ctx...)
	Logger().Error(msg, args...)

	if current != nil && current.sentryEnabled {
		sentry.WithScope(func(scope *sentry.Scope) {
			scope.SetLevel(sentry.LevelFatal)
			scope.SetTag("type", "panic")
			for i := 0; i+1 < len(ctx); i += 2 {
				if key, ok := ctx[i].(string); ok {
					scope.SetExtra(key, ctx[i+1])
				}
			}
			if err, ok := panicValue.(error); ok {
				sentry.CaptureException(err)
			} else {
				sentry.CaptureMessage(msg)
			}
		})
		sentry.Flush(2 * time.Second)
	}
	return panicValue
}
