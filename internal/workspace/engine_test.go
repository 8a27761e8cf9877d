package workspace

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newEngine(t *testing.T, count int) (*Engine, *recordingSink) {
	t.Helper()
	sink := newRecordingSink(count)
	return NewEngine(newModel(t, count), sink, testLogger()), sink
}

func TestEngine_RunAppliesInOrderUntilClosed(t *testing.T) {
	e, sink := newEngine(t, 10)
	require.NoError(t, e.Handle(Resynced{Snapshot: Snapshot{Active: 1}}))

	q := NewQueue(4)
	p := NewProducer(q)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- e.Run(ctx, q) }()

	msgs := []Message{
		WorkspaceCreated{ID: 3},
		WindowOpened{Address: "a1", Class: "Firefox", Workspace: 3},
		ActiveWindowChanged{Address: "a1"},
		ActiveWorkspaceChanged{ID: 3},
		WindowMoved{Address: "a1", Workspace: 5},
		WorkspaceCreated{ID: 5},
		WorkspaceDestroyed{ID: 1},
	}
	for _, msg := range msgs {
		require.NoError(t, p.Send(ctx, msg))
	}
	close(q)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop after queue was closed")
	}

	assert.Equal(t, slotState{visible: false, interactive: true}, *sink.slots[1])
	assert.Equal(t, slotState{visible: true, interactive: false}, *sink.slots[3])
	assert.Equal(t, slotState{visible: true, interactive: true}, *sink.slots[5])
	assert.Equal(t, ID(3), e.Model().Active())
}

func TestEngine_RunStopsOnCancel(t *testing.T) {
	e, _ := newEngine(t, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := e.Run(ctx, NewQueue(1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_RunReturnsFatalError(t *testing.T) {
	e, sink := newEngine(t, 10)
	q := NewQueue(2)
	q <- WorkspaceCreated{ID: 2}
	q <- WorkspaceCreated{ID: 42}

	err := e.Run(context.Background(), q)
	require.ErrorIs(t, err, ErrUnknownWorkspace)
	assert.Contains(t, err.Error(), "WorkspaceCreated(42)")
	assert.True(t, sink.slots[2].visible)
}

func TestEngine_Observe(t *testing.T) {
	e, _ := newEngine(t, 10)

	var got []string
	e.Observe(func(msg Message, fx []Effect) {
		got = append(got, msg.String())
	})

	require.NoError(t, e.Handle(WorkspaceCreated{ID: 2}))
	require.NoError(t, e.Handle(WindowClosed{Address: "x"}))
	assert.Equal(t, []string{"WorkspaceCreated(2)", "WindowClosed(x)"}, got)
}

func TestEngine_NilSink(t *testing.T) {
	e := NewEngine(newModel(t, 3), nil, nil)
	require.NoError(t, e.Handle(Resynced{Snapshot: Snapshot{Active: 2}}))
	require.NoError(t, e.Handle(WorkspaceCreated{ID: 3}))

	s, _ := e.Model().Slot(3)
	assert.True(t, s.Visible)
}

func TestEngine_ResyncedOutOfRange(t *testing.T) {
	e, sink := newEngine(t, 10)
	err := e.Handle(Resynced{Snapshot: Snapshot{Active: 99}})
	assert.ErrorIs(t, err, ErrUnknownWorkspace)
	assert.Empty(t, sink.calls)
}

func TestProducer_BlocksWhenFull(t *testing.T) {
	q := NewQueue(1)
	p := NewProducer(q)

	require.NoError(t, p.Send(context.Background(), WorkspaceCreated{ID: 1}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := p.Send(ctx, WorkspaceCreated{ID: 2})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Len(t, q, 1)
}

func TestProducer_ConcurrentProducersLoseNothing(t *testing.T) {
	e, _ := newEngine(t, 10)
	require.NoError(t, e.Handle(Resynced{Snapshot: Snapshot{Active: 1}}))

	q := NewQueue(DefaultQueueSize)
	ctx := context.Background()

	var applied int
	e.Observe(func(Message, []Effect) { applied++ })

	done := make(chan error, 1)
	go func() { done <- e.Run(ctx, q) }()

	var wg sync.WaitGroup
	for i := range 4 {
		wg.Add(1)
		go func(id ID) {
			defer wg.Done()
			p := NewProducer(q)
			for range 50 {
				_ = p.Send(ctx, WorkspaceCreated{ID: id})
			}
		}(ID(i + 2))
	}
	wg.Wait()
	close(q)

	require.NoError(t, <-done)
	assert.Equal(t, 200, applied)
}

func TestNewQueue_DefaultSize(t *testing.T) {
	assert.Equal(t, DefaultQueueSize, cap(NewQueue(0)))
	assert.Equal(t, 3, cap(NewQueue(3)))
}

func TestEffectKindString(t *testing.T) {
	assert.Equal(t, "visible", EffectVisible.String())
	assert.Equal(t, "interactive", EffectInteractive.String())
	assert.Equal(t, "icon", EffectIcon.String())
	assert.Equal(t, "unknown", EffectKind(9).String())
}
