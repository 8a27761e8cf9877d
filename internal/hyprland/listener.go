package hyprland

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/wspanel/internal/workspace"
)

const (
	// DefaultInitialInterval is the first reconnect delay.
	DefaultInitialInterval = 250 * time.Millisecond
	// DefaultMaxInterval caps the reconnect delay.
	DefaultMaxInterval = 30 * time.Second

	maxLineSize = 1 << 20
)

var errEventsClosed = errors.New("event socket closed by compositor")

// Listener reads the event socket and feeds translated messages to the
// ingestion queue. Each connection is subscribed before the compositor is
// queried, and the snapshot is queued as one workspace.Resynced ahead of the
// connection's events, so nothing that happens in between is lost. Events
// already covered by the snapshot are replayed, which the model tolerates.
// After a dropped connection it reconnects with exponential backoff.
type Listener struct {
	path   string
	client *Client
	parser Parser
	logger *slog.Logger

	initialInterval time.Duration
	maxInterval     time.Duration
}

// NewListener creates a listener for sockets. client is used to snapshot
// the compositor on every connection and may be nil to skip that.
func NewListener(sockets Sockets, client *Client, parser Parser, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{
		path:            sockets.Events,
		client:          client,
		parser:          parser,
		logger:          logger,
		initialInterval: DefaultInitialInterval,
		maxInterval:     DefaultMaxInterval,
	}
}

// SetRetryIntervals overrides the reconnect delays. Zero values keep the
// current setting.
func (l *Listener) SetRetryIntervals(initial, ceiling time.Duration) {
	if initial > 0 {
		l.initialInterval = initial
	}
	if ceiling > 0 {
		l.maxInterval = ceiling
	}
}

// Listen streams events into p until ctx is cancelled or an event cannot be
// parsed. A *ParseError is returned as is so callers can treat it as fatal.
// So is a failed snapshot on the first connection; later ones are retried.
func (l *Listener) Listen(ctx context.Context, p workspace.Producer) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = l.initialInterval
	b.MaxInterval = l.maxInterval
	b.MaxElapsedTime = 0

	connected := false
	op := func() error {
		var d net.Dialer
		conn, err := d.DialContext(ctx, "unix", l.path)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return fmt.Errorf("failed to connect to %s: %w", l.path, err)
		}

		connID := ulid.Make().String()
		log := l.logger.With("conn_id", connID)

		if err := l.resync(ctx, p); err != nil {
			conn.Close()
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			var perr *ParseError
			if !connected || errors.As(err, &perr) || errors.Is(err, workspace.ErrUnknownWorkspace) {
				return backoff.Permanent(fmt.Errorf("failed to query compositor state: %w", err))
			}
			return fmt.Errorf("failed to resync after reconnect: %w", err)
		}
		if connected {
			log.Info("reconnected to hyprland event socket")
		} else {
			log.Info("connected to hyprland event socket", "path", l.path)
		}
		connected = true
		b.Reset()

		err = l.stream(ctx, conn, p, log)
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		var perr *ParseError
		if errors.As(err, &perr) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, next time.Duration) {
		l.logger.Warn("hyprland event socket unavailable", "error", err, "retry_in", next)
	}

	return backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify)
}

func (l *Listener) stream(ctx context.Context, conn net.Conn, p workspace.Producer, log *slog.Logger) error {
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := scanner.Text()
		msg, err := l.parser.Translate(line)
		if errors.Is(err, ErrUnnumbered) {
			log.Debug("dropped event for unnumbered workspace", "line", line)
			continue
		}
		if err != nil {
			return err
		}
		if msg == nil {
			continue
		}
		if err := p.Send(ctx, msg); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read event socket: %w", err)
	}
	return errEventsClosed
}

func (l *Listener) resync(ctx context.Context, p workspace.Producer) error {
	if l.client == nil {
		return nil
	}
	snap, err := l.client.Snapshot(ctx, l.parser)
	if err != nil {
		return err
	}
	return p.Send(ctx, workspace.Resynced{Snapshot: snap})
}
