package cli

import (
	"fmt"
	"log/slog"

	"github.com/giygas/pharmly/assistant"
	"github.com/giygas/pharmly/bridge"
	"github.com/giygas/pharmly/catalog"
	"github.com/giygas/pharmly/commands"
	"github.com/giygas/pharmly/config"
	"github.com/giygas/pharmly/health"
	"github.com/giygas/pharmly/interfaces"
	"github.com/giygas/pharmly/logging"
	"github.com/giygas/pharmly/scheduler"
	"github.com/giygas/pharmly/session"
	"github.com/giygas/pharmly/state"
	"github.com/giygas/pharmly/upstream"
	"github.com/giygas/pharmly/validation"
)

// App is the fully wired service shared by every subcommand
type App struct {
	Config    *config.Config
	Logs      *logging.Service
	Catalog   *catalog.Store
	Session   *session.Store
	Scheduler *scheduler.Scheduler
	Health    *health.HealthCheckerImpl
	Service   *commands.Service
	Commands  *commands.Registry
}

// NewApp builds the dependency graph from cfg. The catalog starts empty; the
// scheduler or an explicit refresh fills it. Interactive commands only print
// warnings and errors to the console.
func NewApp(cfg *config.Config, interactive bool) (*App, error) {
	level := logging.ParseLevel(cfg.LogLevel)
	if interactive && level < slog.LevelWarn {
		level = slog.LevelWarn
	}
	logs := logging.Init(logging.Options{
		Dir:            cfg.LogDir,
		ConsoleLevel:   level,
		FileLevel:      slog.LevelInfo,
		RetentionWeeks: cfg.LogRetentionWeeks,
		MaxFileSize:    cfg.MaxLogFileSize,
	})

	sess, err := session.Open(cfg.SessionFile)
	if err != nil {
		_ = logs.Close()
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	logging.Info("Using backend", "env", cfg.APIEnv, "base_url", cfg.APIBaseURL)
	client := upstream.NewClient(cfg.APIBaseURL, cfg.UpstreamTimeout, sess)
	return newApp(cfg, logs, sess, client), nil
}

// newApp wires everything above the backend, so tests can pass a fake one
func newApp(cfg *config.Config, logs *logging.Service, sess *session.Store, backend interfaces.Backend) *App {
	store := catalog.NewStore()
	sched := scheduler.NewScheduler(store, backend, cfg.CatalogRefreshTimes)
	b := bridge.New(backend, cfg.VerifyDelay)

	svc := &commands.Service{
		Assistant:     assistant.New(store, b, cfg.TypingDelay),
		Bridge:        b,
		Conversations: state.NewRegistry(state.DefaultMaxConversations),
		Catalog:       store,
		Refresher:     sched,
		Remote:        backend,
		Session:       sess,
		Validator:     validation.NewDataValidator(),
		CustomerID:    cfg.CustomerID,
	}

	return &App{
		Config:    cfg,
		Logs:      logs,
		Catalog:   store,
		Session:   sess,
		Scheduler: sched,
		Health:    health.NewHealthChecker(store, cfg.CatalogRefreshTimes),
		Service:   svc,
		Commands:  commands.NewDefaultRegistry(svc),
	}
}

// Close releases the log sink
func (a *App) Close() {
	if err := a.Logs.Close(); err != nil {
		fmt.Printf("failed to close log file: %v\n", err)
	}
}
