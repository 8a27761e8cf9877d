package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Engine is the single consumer of the ingestion queue. It owns the Model
// and is the only code that mutates it or drives the Sink.
type Engine struct {
	model  *Model
	sink   Sink
	logger *slog.Logger

	mu        sync.RWMutex // guards observers
	observers []func(Message, []Effect)
}

// NewEngine creates an engine over model that renders into sink.
// A nil sink discards effects.
func NewEngine(model *Model, sink Sink, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if sink == nil {
		sink = nopSink{}
	}
	return &Engine{
		model:  model,
		sink:   sink,
		logger: logger,
	}
}

// Model returns the engine's model. Callers must not touch it while Run is
// active.
func (e *Engine) Model() *Model {
	return e.model
}

// Observe registers fn to be called after every applied message, on the
// engine goroutine.
func (e *Engine) Observe(fn func(Message, []Effect)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, fn)
}

// Run applies messages from msgs in delivery order until the channel is
// closed (returns nil), ctx is cancelled (returns ctx.Err()), or a message
// names a workspace without a slot (returns the error).
func (e *Engine) Run(ctx context.Context, msgs <-chan Message) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				e.logger.Debug("message queue closed")
				return nil
			}
			if err := e.Handle(msg); err != nil {
				return err
			}
		}
	}
}

// Handle applies a single message and renders its effects.
func (e *Engine) Handle(msg Message) error {
	fx, err := e.model.Apply(msg)
	if err != nil {
		return fmt.Errorf("failed to apply %s: %w", msg, err)
	}

	if r, ok := msg.(Resynced); ok {
		e.logger.Info("workspace state reconciled",
			"active", r.Snapshot.Active,
			"workspaces", len(r.Snapshot.Workspaces),
			"windows", len(r.Snapshot.Windows),
			"effects", len(fx),
		)
	} else {
		e.logger.Debug("applied message", "message", msg.String(), "effects", len(fx))
	}
	e.render(fx)

	e.mu.RLock()
	observers := e.observers
	e.mu.RUnlock()
	for _, fn := range observers {
		fn(msg, fx)
	}
	return nil
}

func (e *Engine) render(fx []Effect) {
	for _, f := range fx {
		f.ApplyTo(e.sink)
	}
}
