// Package cli is the cobra command tree of the pharmly binary. Every
// subcommand except serve dispatches through the command registry.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/giygas/pharmly/commands"
	"github.com/giygas/pharmly/config"
	"github.com/giygas/pharmly/handlers"
	"github.com/giygas/pharmly/logging"
	"github.com/giygas/pharmly/server"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

// appFactory builds the App for a subcommand; tests replace it
type appFactory func(cfg *config.Config, interactive bool) (*App, error)

type root struct {
	cfg     *config.Config
	newApp  appFactory
	envFile string
}

// Execute runs the CLI and returns the process exit code
func Execute() int {
	if err := NewRootCommand(NewApp).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

// NewRootCommand builds the command tree
func NewRootCommand(factory appFactory) *cobra.Command {
	r := &root{newApp: factory}

	cmd := &cobra.Command{
		Use:           "pharmly",
		Short:         "Pharmacy assistant: chat ordering, stock checks and prescription verification",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadEnvFile(r.envFile, cmd.Flags().Changed("env-file")); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}
			r.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&r.envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	cmd.AddCommand(
		r.serveCommand(),
		r.chatCommand(),
		r.searchCommand(),
		r.interactionsCommand(),
		r.symptomCommand(),
		r.refreshCommand(),
		r.stockCommand(),
		r.updateStockCommand(),
		r.loginCommand(),
		r.logoutCommand(),
		r.runCommand(),
		r.commandsCommand(),
	)
	return cmd
}

// loadEnvFile applies a dotenv file without overriding variables already set.
// A missing default file is fine; a missing explicit one is an error.
func loadEnvFile(path string, explicit bool) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && !explicit {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// withApp wires the App before fn and releases it after. loadCatalog fills
// the catalog first, falling back to the seed when the backend is down.
func (r *root) withApp(interactive, loadCatalog bool, fn func(cmd *cobra.Command, app *App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := r.newApp(r.cfg, interactive)
		if err != nil {
			return err
		}
		defer app.Close()

		if loadCatalog {
			if _, err := app.Scheduler.Refresh(cmd.Context()); err != nil {
				logging.Warn("Catalog refresh failed, using fallback", "error", err)
			}
		}
		return fn(cmd, app, args)
	}
}

// execute runs a registered command and prints its result as JSON
func execute(cmd *cobra.Command, app *App, name string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}
	result, err := app.Commands.Execute(cmd.Context(), name, raw)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func (r *root) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service with the scheduled catalog refresh",
		Args:  cobra.NoArgs,
		RunE: r.withApp(false, false, func(cmd *cobra.Command, app *App, _ []string) error {
			if err := app.Scheduler.Start(); err != nil {
				return fmt.Errorf("failed to start scheduler: %w", err)
			}
			defer app.Scheduler.Stop()

			srv := server.NewServer(app.Config, handlers.NewHTTPHandler(app.Commands, app.Health, app.Config.MaxRequestBody))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		}),
	}
}

func (r *root) chatCommand() *cobra.Command {
	var voice bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the assistant interactively",
		Args:  cobra.NoArgs,
		RunE: r.withApp(true, true, func(cmd *cobra.Command, app *App, _ []string) error {
			return runChat(cmd.Context(), app.Commands, cmd.InOrStdin(), cmd.OutOrStdout(), voice)
		}),
	}
	cmd.Flags().BoolVar(&voice, "voice", false, "mark messages as voice transcripts")
	return cmd
}

func (r *root) searchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search the medicine catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: r.withApp(true, true, func(cmd *cobra.Command, app *App, args []string) error {
			return execute(cmd, app, commands.CmdSearch, commands.SearchInput{Query: strings.Join(args, " ")})
		}),
	}
}

func (r *root) interactionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "interactions <medicine> <medicine>...",
		Short: "Check medicines for known interactions",
		Args:  cobra.MinimumNArgs(1),
		RunE: r.withApp(true, false, func(cmd *cobra.Command, app *App, args []string) error {
			return execute(cmd, app, commands.CmdCheckInteractions, commands.InteractionsInput{Drugs: args})
		}),
	}
}

func (r *root) symptomCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "symptom [key]",
		Short: "List suggested medicines for a symptom, or every symptom",
		Args:  cobra.MaximumNArgs(1),
		RunE: r.withApp(true, false, func(cmd *cobra.Command, app *App, args []string) error {
			in := commands.SymptomInput{}
			if len(args) == 1 {
				in.Key = args[0]
			}
			return execute(cmd, app, commands.CmdSymptom, in)
		}),
	}
}

func (r *root) refreshCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Reload the catalog from the backend",
		Args:  cobra.NoArgs,
		RunE: r.withApp(true, false, func(cmd *cobra.Command, app *App, _ []string) error {
			return execute(cmd, app, commands.CmdRefreshCatalog, commands.Empty{})
		}),
	}
}

func (r *root) stockCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stock",
		Short: "Show catalog stock tier counts",
		Args:  cobra.NoArgs,
		RunE: r.withApp(true, true, func(cmd *cobra.Command, app *App, _ []string) error {
			return execute(cmd, app, commands.CmdStockSummary, commands.Empty{})
		}),
	}
}

func (r *root) updateStockCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update-stock <medicine-id> <delta>",
		Short: "Adjust a medicine's stock on the backend (admin session required)",
		Args:  cobra.ExactArgs(2),
		RunE: r.withApp(true, false, func(cmd *cobra.Command, app *App, args []string) error {
			id, err := app.Service.Validator.ValidateMedicineID(args[0])
			if err != nil {
				return err
			}
			delta, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid delta %q: must be an integer", args[1])
			}
			return execute(cmd, app, commands.CmdUpdateStock, commands.UpdateStockInput{MedicineID: id, Delta: delta})
		}),
	}
}

func (r *root) loginCommand() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the pharmacy backend and save the session",
		Args:  cobra.NoArgs,
		RunE: r.withApp(true, false, func(cmd *cobra.Command, app *App, _ []string) error {
			if password == "" {
				password = os.Getenv("PHARMLY_PASSWORD")
			}
			return execute(cmd, app, commands.CmdLogin, commands.LoginInput{Email: email, Password: password})
		}),
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (defaults to $PHARMLY_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (r *root) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: r.withApp(true, false, func(cmd *cobra.Command, app *App, _ []string) error {
			return execute(cmd, app, commands.CmdLogout, commands.Empty{})
		}),
	}
}

func (r *root) runCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run <command> [json-payload]",
		Short: "Run any registered command with a JSON payload",
		Args:  cobra.RangeArgs(1, 2),
		RunE: r.withApp(true, true, func(cmd *cobra.Command, app *App, args []string) error {
			payload := json.RawMessage("{}")
			if len(args) == 2 {
				payload = json.RawMessage(args[1])
			}
			return execute(cmd, app, args[0], payload)
		}),
	}
}

func (r *root) commandsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List the registered commands",
		Args:  cobra.NoArgs,
		RunE: r.withApp(true, false, func(cmd *cobra.Command, app *App, _ []string) error {
			for _, name := range app.Commands.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		}),
	}
}
