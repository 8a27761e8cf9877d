package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wspanel/internal/tui"
)

var tuiOpts struct {
	logFile string
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Show workspace state in the terminal",
	Long: `Run the panel's workspace engine against a terminal view.

The TUI lists the visible workspace slots, the battery icon and a log of the
compositor events applied with the slot changes each caused.

Key bindings:
  j/k, ↑/↓    Navigate slots
  enter       Switch to the selected workspace
  1-0         Switch to workspace 1-10
  a           Toggle hidden slots
  r           Resync with the compositor
  c           Clear the event log
  ?           Show help
  q           Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)

	tuiCmd.Flags().StringVar(&tuiOpts.logFile, "log-file", "",
		"Write logs to this file (logs are discarded otherwise)")
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	// stderr belongs to the terminal view.
	var w io.Writer = io.Discard
	if tuiOpts.logFile != "" {
		f, err := os.OpenFile(tuiOpts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		w = f
	}
	level := slog.LevelInfo
	if globalOpts.verbose {
		level = slog.LevelDebug
	}
	tuiLogger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))

	return tui.Run(ctx, tui.RunOptions{
		Config: cfg,
		Logger: tuiLogger,
	})
}
