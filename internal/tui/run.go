package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmylchreest/wspanel/internal/config"
	"github.com/jmylchreest/wspanel/internal/daemon"
	"github.com/jmylchreest/wspanel/internal/workspace"
)

// RunOptions configures the TUI.
type RunOptions struct {
	Config *config.Config
	Logger *slog.Logger
}

// Run drives the workspace engine into a terminal view until the user quits
// or the pipeline fails.
func Run(ctx context.Context, opts RunOptions) error {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var d *daemon.Daemon
	actions := Actions{
		Focus: func(id workspace.ID) error {
			return d.Focus(ctx, id)
		},
		Resync: func() error {
			return d.Resync(ctx)
		},
	}

	p := tea.NewProgram(New(cfg.Workspaces.Count, actions), tea.WithAltScreen(), tea.WithContext(ctx))
	bridge := NewBridge(p.Send)

	var err error
	d, err = daemon.New(daemon.Options{
		Config: cfg,
		Sink:   bridge,
		Power:  bridge,
		Logger: opts.Logger,
	})
	if err != nil {
		return err
	}
	d.Observe(bridge.Observe)

	runErr := make(chan error, 1)
	go func() {
		err := d.Run(ctx)
		if err != nil {
			p.Quit()
		}
		runErr <- err
	}()

	_, err = p.Run()
	cancel()
	if dErr := <-runErr; dErr != nil {
		return dErr
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run terminal view: %w", err)
	}
	return nil
}
