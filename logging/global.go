// Package logging wraps slog with a console handler, an optional weekly
// rotating JSON file, and package-level helpers usable before Init runs.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Options configure the global logger
type Options struct {
	// Dir enables the rotating file sink when non-empty
	Dir            string
	ConsoleLevel   slog.Level
	FileLevel      slog.Level
	RetentionWeeks int
	MaxFileSize    int64
	// Console defaults to stdout
	Console io.Writer
}

// Service owns the active logger and its file sink
type Service struct {
	Logger *slog.Logger
	sink   *WeeklyFile
}

// Close releases the file sink, if any
func (s *Service) Close() error {
	if s == nil || s.sink == nil {
		return nil
	}
	return s.sink.Close()
}

var (
	mu      sync.RWMutex
	current *Service

	fallbackOnce sync.Once
	fallback     *slog.Logger
)

// InitLogger sets up the global logger with default levels and retention.
// An empty dir logs to the console only.
func InitLogger(dir string) *Service {
	return Init(Options{
		Dir:            dir,
		ConsoleLevel:   slog.LevelInfo,
		FileLevel:      slog.LevelInfo,
		RetentionWeeks: 4,
		MaxFileSize:    defaultMaxFileSize,
	})
}

// Init replaces the global logger. The previous service's sink is closed.
func Init(opts Options) *Service {
	console := opts.Console
	if console == nil {
		console = os.Stdout
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(console, &slog.HandlerOptions{Level: opts.ConsoleLevel}),
	}

	svc := &Service{}
	if opts.Dir != "" {
		sink, err := OpenWeeklyFile(opts.Dir, opts.RetentionWeeks, opts.MaxFileSize)
		if err != nil {
			slog.New(handlers[0]).Error("File logging disabled", "dir", opts.Dir, "error", err)
		} else {
			svc.sink = sink
			handlers = append(handlers, slog.NewJSONHandler(sink, &slog.HandlerOptions{Level: opts.FileLevel}))
		}
	}

	if len(handlers) == 1 {
		svc.Logger = slog.New(handlers[0])
	} else {
		svc.Logger = slog.New(&fanout{handlers: handlers})
	}

	mu.Lock()
	previous := current
	current = svc
	mu.Unlock()

	if previous != nil && previous != svc {
		_ = previous.Close()
	}

	slog.SetDefault(svc.Logger)
	return svc
}

// ParseLevel maps a LOG_LEVEL value to a slog level, defaulting to info
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// Logger returns the active logger, falling back to a stderr text logger
func Logger() *slog.Logger {
	mu.RLock()
	svc := current
	mu.RUnlock()

	if svc != nil && svc.Logger != nil {
		return svc.Logger
	}

	fallbackOnce.Do(func() {
		fallback = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	})
	return fallback
}

func Info(msg string, args ...any) {
	Logger().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}

func Debug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}
