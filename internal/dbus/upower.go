package dbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/godbus/dbus/v5"
)

var errBusClosed = errors.New("system bus connection closed")

// PowerWatcher follows the IconName of one UPower device.
type PowerWatcher struct {
	device dbus.ObjectPath
	logger *slog.Logger

	// connect opens a private system bus connection.
	connect func() (*dbus.Conn, error)

	maxInterval time.Duration
}

// NewPowerWatcher creates a watcher for the device at path. An empty path
// selects UPower's DisplayDevice.
func NewPowerWatcher(path string, logger *slog.Logger) (*PowerWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		path = DisplayDevicePath
	}
	device := dbus.ObjectPath(path)
	if !device.IsValid() {
		return nil, fmt.Errorf("invalid UPower device path %q", path)
	}
	return &PowerWatcher{
		device: device,
		logger: logger.With("device", path),
		connect: func() (*dbus.Conn, error) {
			return dbus.ConnectSystemBus()
		},
		maxInterval: 30 * time.Second,
	}, nil
}

// SetMaxRetryInterval caps the reconnect delay. Zero keeps the default.
func (w *PowerWatcher) SetMaxRetryInterval(d time.Duration) {
	if d > 0 {
		w.maxInterval = d
	}
}

// Device returns the watched object path.
func (w *PowerWatcher) Device() string {
	return string(w.device)
}

// Run publishes the current icon name, then every change, until ctx is
// cancelled. Lost bus connections are re-established with backoff and the
// icon name is re-read on reconnect.
func (w *PowerWatcher) Run(ctx context.Context, pub Publisher) error {
	b := backoff.NewExponentialBackOff()
	b.MaxInterval = w.maxInterval
	b.MaxElapsedTime = 0

	op := func() error {
		conn, err := w.connect()
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return fmt.Errorf("failed to connect to system bus: %w", err)
		}
		defer conn.Close()

		err = w.watch(ctx, conn, pub, b)
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}

	notify := func(err error, next time.Duration) {
		w.logger.Warn("UPower unavailable", "error", err, "retry_in", next)
	}

	return backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify)
}

func (w *PowerWatcher) watch(ctx context.Context, conn *dbus.Conn, pub Publisher, b backoff.BackOff) error {
	signals, err := subscribe(conn, w.device)
	if err != nil {
		return err
	}

	name, err := readIconName(conn, w.device)
	if err != nil {
		return err
	}
	w.logger.Info("watching UPower device", "icon", name)
	pub.Publish(name)
	b.Reset()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sig, ok := <-signals:
			if !ok {
				return errBusClosed
			}
			name, update := iconFromSignal(sig, w.device)
			switch update {
			case iconChanged:
			case iconInvalidated:
				if name, err = readIconName(conn, w.device); err != nil {
					return err
				}
			default:
				continue
			}
			w.logger.Debug("power icon changed", "icon", name)
			pub.Publish(name)
		}
	}
}
