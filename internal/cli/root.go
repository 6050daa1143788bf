// Package cli implements the today command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"today/internal/board"
	"today/internal/config"
	"today/internal/seed"
	"today/internal/storage"
)

// version is set at build time via ldflags.
var version = "dev"

type options struct {
	configPath string
	store      string
	seedFile   string
	logLevel   string
	noColor    bool
}

// NewRootCmd builds the command tree. Each call returns independent flag state.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "today",
		Short: "A terminal board for today's tasks",
		Long: `today shows the tasks planned for today with a sidebar of lists and tags.
Run it without arguments to open the board; tasks live in memory for the session.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), opts)
		},
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if opts.noColor || os.Getenv("NO_COLOR") != "" {
				lipgloss.SetColorProfile(termenv.Ascii)
			}
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "path to config file (default $TODAY_CONFIG or ~/.config/today/config.toml)")
	f.StringVar(&opts.store, "store", "", "task store backend: memory or sqlite")
	f.StringVar(&opts.seedFile, "seed", "", "YAML file with the tasks to start with")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	f.BoolVar(&opts.noColor, "no-color", false, "disable color output")

	root.AddCommand(newConfigCmd(opts), newTasksCmd(opts))
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (o *options) resolveConfigPath() string {
	if o.configPath != "" {
		return o.configPath
	}
	return config.ResolveConfigPath()
}

// applyOverrides lets flags win over the config file.
func (o *options) applyOverrides(cfg *config.Config) {
	if o.store != "" {
		cfg.Store = o.store
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
}

// loadConfig reads the config, creating it with defaults on first launch.
func loadConfig(opts *options) (config.Config, string, error) {
	path := opts.resolveConfigPath()
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return cfg, path, fmt.Errorf("loading config %s: %w", path, err)
	}
	opts.applyOverrides(&cfg)
	return cfg, path, nil
}

// reloadConfig is loadConfig for a file that already exists.
func reloadConfig(path string, opts *options) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("reloading config %s: %w", path, err)
	}
	opts.applyOverrides(&cfg)
	return cfg, nil
}

// openBoard opens the configured store, seeds it and wraps it in a board.
func openBoard(ctx context.Context, cfg config.Config, seedFile string, logger *log.Logger) (*board.Board, storage.Store, error) {
	store, err := storage.Open(cfg.Store)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Seed || seedFile != "" {
		n, err := seed.Load(ctx, store, seedFile)
		if err != nil {
			_ = store.Close()
			return nil, nil, err
		}
		if logger != nil {
			logger.Debug("seeded store", "tasks", n, "file", seedFile)
		}
	}
	b := board.New(store, board.Options{
		SidebarExpanded: cfg.SidebarExpanded,
		Lists:           cfg.Lists,
		Logger:          logger,
	})
	return b, store, nil
}
