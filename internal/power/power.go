// Package power carries battery icon names from the UPower watcher to the
// panel. Only the newest name matters, so the channel between them holds a
// single value and a publisher replaces whatever is still unread.
package power

import (
	"context"
	"log/slog"
)

// Sink shows the power indicator.
type Sink interface {
	SetPowerIcon(name string)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(name string)

// SetPowerIcon calls f(name).
func (f SinkFunc) SetPowerIcon(name string) { f(name) }

// Updates is a capacity-one channel of icon names where the latest wins.
type Updates struct {
	ch chan string
}

// NewUpdates creates an empty update channel.
func NewUpdates() *Updates {
	return &Updates{ch: make(chan string, 1)}
}

// Publish stores name, discarding an unread older value. It never blocks.
func (u *Updates) Publish(name string) {
	for {
		select {
		case u.ch <- name:
			return
		default:
		}
		select {
		case <-u.ch:
		default:
		}
	}
}

// C returns the receive side.
func (u *Updates) C() <-chan string {
	return u.ch
}

// Run hands every received name to sink until ctx is cancelled. Repeats of
// the current name are skipped.
func Run(ctx context.Context, updates <-chan string, sink Sink, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	var current string
	shown := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case name, ok := <-updates:
			if !ok {
				return nil
			}
			if shown && name == current {
				continue
			}
			current, shown = name, true
			logger.Debug("power icon", "icon", name)
			sink.SetPowerIcon(name)
		}
	}
}
