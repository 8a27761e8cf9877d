package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/wspanel/internal/daemon"
	"github.com/jmylchreest/wspanel/internal/panel"
	"github.com/jmylchreest/wspanel/internal/power"
	"github.com/jmylchreest/wspanel/internal/style"
	"github.com/jmylchreest/wspanel/internal/workspace"
)

const appID = "io.github.jmylchreest.wspanel"

var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Run the GTK panel (default)",
	RunE:  runPanel,
}

func init() {
	rootCmd.AddCommand(panelCmd)
}

func runPanel(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting wspanel", "version", version, "workspaces", cfg.Workspaces.Count)

	app := adw.NewApplication(appID, 0)

	var (
		runErr  error
		running atomic.Bool
	)

	app.ConnectActivate(func() {
		if running.Swap(true) {
			logger.Warn("application already running")
			return
		}

		styles := style.NewLoader(cfg.StylePath(), logger)
		styles.Reload()
		styles.Apply(nil)
		styles.StartHotReload()

		var d *daemon.Daemon
		focus := func(id workspace.ID) {
			go func() {
				if err := d.Focus(ctx, id); err != nil {
					logger.Warn("workspace switch failed", "workspace", id, "error", err)
				}
			}()
		}

		p := panel.New(&app.Application, cfg, focus, logger)

		var powerSink power.Sink
		if indicator := p.Power(); indicator != nil {
			powerSink = indicator
		}

		var err error
		d, err = daemon.New(daemon.Options{
			Config: cfg,
			Sink:   p.Workspaces(),
			Power:  powerSink,
			Logger: logger,
		})
		if err != nil {
			runErr = err
			styles.StopHotReload()
			app.Quit()
			return
		}

		p.Present()

		go func() {
			err := d.Run(ctx)
			if err == nil {
				logger.Info("shutting down")
			}
			glib.IdleAdd(func() {
				runErr = err
				styles.StopHotReload()
				p.Close()
				app.Quit()
			})
		}()
	})

	// Flags belong to cobra; GTK only sees the program name.
	status := app.Run(os.Args[:1])
	if runErr != nil {
		return runErr
	}
	if status != 0 {
		return fmt.Errorf("application exited with status %d", status)
	}
	return nil
}
