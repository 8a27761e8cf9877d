package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jmylchreest/wspanel/internal/config"
	"github.com/jmylchreest/wspanel/internal/dbus"
	"github.com/jmylchreest/wspanel/internal/hyprland"
	"github.com/jmylchreest/wspanel/internal/power"
	"github.com/jmylchreest/wspanel/internal/workspace"
)

// DefaultFocusTimeout bounds a workspace switch request.
const DefaultFocusTimeout = 2 * time.Second

// Options configures a Daemon.
type Options struct {
	Config *config.Config
	// Sink receives slot effects. Nil discards them.
	Sink workspace.Sink
	// Power receives battery icon names. Nil, or power disabled in the
	// config, skips the UPower watcher.
	Power  power.Sink
	Logger *slog.Logger
}

// Daemon owns the ingestion queue and every goroutine feeding or draining
// it.
type Daemon struct {
	client   *hyprland.Client
	parser   hyprland.Parser
	listener *hyprland.Listener
	engine   *workspace.Engine
	queue    chan workspace.Message
	producer workspace.Producer

	watcher *dbus.PowerWatcher
	power   power.Sink
	updates *power.Updates

	logger *slog.Logger
}

// New locates the compositor sockets and builds the pipeline. Nothing is
// connected until Run.
func New(opts Options) (*Daemon, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sockets, err := hyprland.DetectSockets(cfg.Hyprland.InstanceSignature)
	if err != nil {
		return nil, err
	}
	return newDaemon(cfg, sockets, opts, logger)
}

func newDaemon(cfg *config.Config, sockets hyprland.Sockets, opts Options, logger *slog.Logger) (*Daemon, error) {
	client := hyprland.NewClient(sockets, logger)
	parser := hyprland.NewParser(cfg.Workspaces.Count)

	listener := hyprland.NewListener(sockets, client, parser, logger)
	listener.SetRetryIntervals(0, cfg.Hyprland.ReconnectMaxInterval.Duration())

	model, err := workspace.NewModel(cfg.Workspaces.Count)
	if err != nil {
		return nil, err
	}
	queue := workspace.NewQueue(cfg.Workspaces.QueueSize)

	d := &Daemon{
		client:   client,
		parser:   parser,
		listener: listener,
		engine:   workspace.NewEngine(model, opts.Sink, logger),
		queue:    queue,
		producer: workspace.NewProducer(queue),
		logger:   logger,
	}

	if cfg.Power.Enabled && opts.Power != nil {
		watcher, err := dbus.NewPowerWatcher(cfg.Power.Device, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create power watcher: %w", err)
		}
		watcher.SetMaxRetryInterval(cfg.Hyprland.ReconnectMaxInterval.Duration())
		d.watcher = watcher
		d.power = opts.Power
		d.updates = power.NewUpdates()
	}

	return d, nil
}

// Client returns the compositor request client.
func (d *Daemon) Client() *hyprland.Client {
	return d.client
}

// Observe registers fn to run after every applied message. It must be
// called before Run.
func (d *Daemon) Observe(fn func(workspace.Message, []workspace.Effect)) {
	d.engine.Observe(fn)
}

// Run starts the listener, engine and power watcher and blocks until ctx is
// cancelled or one of them fails. The listener subscribes to compositor
// events before it takes the startup snapshot and queues that snapshot
// ahead of any event, so the engine reconciles first and nothing between
// the two is lost. A failed startup snapshot is fatal. Cancellation is not
// an error.
func (d *Daemon) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return d.listener.Listen(ctx, d.producer)
	})
	g.Go(func() error {
		return d.engine.Run(ctx, d.queue)
	})

	if d.watcher != nil {
		g.Go(func() error {
			return d.watcher.Run(ctx, d.updates)
		})
		g.Go(func() error {
			return power.Run(ctx, d.updates.C(), d.power, d.logger)
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Focus asks the compositor to switch to workspace id. The panel updates
// once the resulting event comes back through the listener.
func (d *Daemon) Focus(ctx context.Context, id workspace.ID) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultFocusTimeout)
	defer cancel()

	if err := d.client.FocusWorkspace(ctx, id); err != nil {
		return fmt.Errorf("failed to focus workspace %d: %w", id, err)
	}
	return nil
}

// Resync queries a fresh snapshot and queues it as a workspace.Resynced, so
// the engine stays the only writer of the model.
func (d *Daemon) Resync(ctx context.Context) error {
	snap, err := d.client.Snapshot(ctx, d.parser)
	if err != nil {
		return fmt.Errorf("failed to query compositor state: %w", err)
	}
	if err := d.producer.Send(ctx, workspace.Resynced{Snapshot: snap}); err != nil {
		return err
	}
	d.logger.Debug("queued resync", "workspaces", len(snap.Workspaces), "windows", len(snap.Windows))
	return nil
}
