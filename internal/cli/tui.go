package cli

import (
	"context"
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"today/internal/logging"
	"today/internal/ui"
	"today/internal/watcher"
)

var errNotTerminal = errors.New("today needs an interactive terminal; use 'today tasks' for plain output")

var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func runTUI(ctx context.Context, opts *options) error {
	if !isTerminal() {
		return errNotTerminal
	}

	cfg, path, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging.File, cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer logger.Close()

	b, store, err := openBoard(ctx, cfg, opts.seedFile, logger.Logger)
	if err != nil {
		return err
	}
	defer store.Close()

	model, err := ui.New(ctx, b, cfg)
	if err != nil {
		return err
	}
	p := ui.NewProgram(ctx, model)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go watchConfig(watchCtx, path, opts, p, logger)

	logger.Info("board started", "config", path, "store", cfg.Store)
	_, err = p.Run()
	logger.Info("board closed")
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// watchConfig feeds config edits into the running program until ctx is done.
func watchConfig(ctx context.Context, path string, opts *options, p *tea.Program, logger *logging.Logger) {
	w, err := watcher.New(path, watcher.DefaultDebounce, func() {
		cfg, err := reloadConfig(path, opts)
		if err != nil {
			logger.Warn("config reload failed", "err", err)
		} else {
			logger.Info("config reloaded", "path", path)
		}
		p.Send(ui.ConfigReloadedMsg{Config: cfg, Err: err})
	})
	if err != nil {
		logger.Warn("config watcher unavailable", "err", err)
		return
	}
	defer w.Close()
	w.Run(ctx, func(err error) {
		logger.Warn("config watcher", "err", err)
	})
}
