package daemon

import (
	"context"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/wspanel/internal/config"
	"github.com/jmylchreest/wspanel/internal/hyprland"
	"github.com/jmylchreest/wspanel/internal/workspace"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingSink collects effect strings from the engine goroutine.
type recordingSink struct {
	mu      sync.Mutex
	effects []string
}

func (r *recordingSink) record(e workspace.Effect) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.effects = append(r.effects, e.String())
}

func (r *recordingSink) SetVisible(id workspace.ID, v bool) {
	r.record(workspace.Effect{Kind: workspace.EffectVisible, ID: id, Value: v})
}

func (r *recordingSink) SetInteractive(id workspace.ID, v bool) {
	r.record(workspace.Effect{Kind: workspace.EffectInteractive, ID: id, Value: v})
}

func (r *recordingSink) SetIcon(id workspace.ID, i workspace.Icon) {
	r.record(workspace.Effect{Kind: workspace.EffectIcon, ID: id, Icon: i})
}

func (r *recordingSink) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.effects...)
}

// compositor serves canned request replies and accepts event streams. It
// notes requests that arrive while nothing is subscribed to events.
type compositor struct {
	sockets    hyprland.Sockets
	replies    map[string]string
	events     chan net.Conn
	subscribed chan struct{}
	once       sync.Once

	mu           sync.Mutex
	requests     []string
	unsubscribed []string
}

var replies = map[string]string{
	"j/activeworkspace":   `{"id": 1, "name": "1", "lastwindow": "0xa"}`,
	"j/workspaces":        `[{"id": 1, "name": "1", "windows": 1, "lastwindow": "0xa"}]`,
	"j/clients":           `[{"address": "0xa", "mapped": true, "class": "kitty", "workspace": {"id": 1, "name": "1"}}]`,
	"dispatch workspace 2": "ok",
}

// startupState is the snapshot replies resolve to.
var startupState = workspace.Snapshot{
	Active:     1,
	Workspaces: []workspace.WorkspaceInfo{{ID: 1, LastWindow: "a"}},
	Windows:    []workspace.WindowInfo{{Address: "a", Class: "kitty", Workspace: 1}},
}

func newCompositor(t *testing.T, replies map[string]string) *compositor {
	t.Helper()

	c := &compositor{
		sockets:    hyprland.SocketsIn(t.TempDir()),
		replies:    replies,
		events:     make(chan net.Conn, 2),
		subscribed: make(chan struct{}),
	}

	reqLn, err := net.Listen("unix", c.sockets.Request)
	require.NoError(t, err)
	evLn, err := net.Listen("unix", c.sockets.Events)
	require.NoError(t, err)
	t.Cleanup(func() {
		reqLn.Close()
		evLn.Close()
	})

	go func() {
		for {
			conn, err := reqLn.Accept()
			if err != nil {
				return
			}
			go c.reply(conn)
		}
	}()
	go func() {
		for {
			conn, err := evLn.Accept()
			if err != nil {
				return
			}
			c.once.Do(func() { close(c.subscribed) })
			c.events <- conn
		}
	}()
	return c
}

func (c *compositor) reply(conn net.Conn) {
	defer conn.Close()
	buf := make([]byte, 1024)
	n, err := conn.Read(buf)
	if err != nil {
		return
	}
	cmd := string(buf[:n])

	// A client that has already dialled the event socket is accepted
	// promptly; one that has not never will be while it waits on this reply.
	early := false
	if strings.HasPrefix(cmd, "j/") {
		select {
		case <-c.subscribed:
		case <-time.After(time.Second):
			early = true
		}
	}

	c.mu.Lock()
	c.requests = append(c.requests, cmd)
	if early {
		c.unsubscribed = append(c.unsubscribed, cmd)
	}
	c.mu.Unlock()

	reply, ok := c.replies[cmd]
	if !ok {
		reply = "unknown request"
	}
	_, _ = io.WriteString(conn, reply)
}

func (c *compositor) sent() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.requests...)
}

func (c *compositor) sentBeforeSubscribe() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.unsubscribed...)
}

func (c *compositor) acceptEvents(t *testing.T) net.Conn {
	t.Helper()
	select {
	case conn := <-c.events:
		t.Cleanup(func() { conn.Close() })
		return conn
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not connect to the event socket")
		return nil
	}
}

func startDaemon(t *testing.T, c *compositor, sink workspace.Sink) (*Daemon, chan workspace.Message, <-chan error) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Workspaces.Count = 4
	cfg.Power.Enabled = false

	d, err := newDaemon(cfg, c.sockets, Options{Sink: sink}, testLogger())
	require.NoError(t, err)

	applied := make(chan workspace.Message, 16)
	d.Observe(func(msg workspace.Message, _ []workspace.Effect) {
		applied <- msg
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("daemon did not stop")
		}
	})
	return d, applied, done
}

func waitApplied(t *testing.T, applied <-chan workspace.Message) workspace.Message {
	t.Helper()
	select {
	case msg := <-applied:
		return msg
	case <-time.After(5 * time.Second):
		t.Fatal("no message applied")
		return nil
	}
}

func TestDaemon_ReconcilesThenStreams(t *testing.T) {
	c := newCompositor(t, replies)
	sink := &recordingSink{}
	_, applied, _ := startDaemon(t, c, sink)

	conn := c.acceptEvents(t)

	assert.Equal(t, workspace.Resynced{Snapshot: startupState}, waitApplied(t, applied))
	initial := sink.snapshot()
	assert.Equal(t, []string{`visible(1, true)`, `interactive(1, false)`, `icon(1, "kitty")`}, initial)

	_, err := io.WriteString(conn, "createworkspace>>2\nworkspace>>special:scratch\nworkspace>>2\n")
	require.NoError(t, err)

	assert.Equal(t, workspace.WorkspaceCreated{ID: 2}, waitApplied(t, applied))
	assert.Equal(t, workspace.ActiveWorkspaceChanged{ID: 2}, waitApplied(t, applied))

	got := sink.snapshot()[len(initial):]
	assert.Equal(t, []string{
		`visible(2, true)`,
		`interactive(1, true)`,
		`interactive(2, false)`,
	}, got)
}

func TestDaemon_SubscribesBeforeSnapshot(t *testing.T) {
	c := newCompositor(t, replies)
	sink := &recordingSink{}
	_, applied, _ := startDaemon(t, c, sink)

	// A window opens right after the subscription, before the snapshot is
	// answered. The snapshot does not know it, the stream does.
	conn := c.acceptEvents(t)
	_, err := io.WriteString(conn, "openwindow>>b,3,foot,foot\nactivewindowv2>>b\n")
	require.NoError(t, err)

	assert.Equal(t, workspace.Resynced{Snapshot: startupState}, waitApplied(t, applied))
	assert.Equal(t, workspace.WindowOpened{Address: "b", Class: "foot", Workspace: 3}, waitApplied(t, applied))
	assert.Equal(t, workspace.ActiveWindowChanged{Address: "b"}, waitApplied(t, applied))

	assert.Empty(t, c.sentBeforeSubscribe())
	assert.Subset(t, c.sent(), []string{"j/activeworkspace", "j/workspaces", "j/clients"})
	assert.Contains(t, sink.snapshot(), `icon(3, "foot")`)
}

func TestDaemon_Focus(t *testing.T) {
	c := newCompositor(t, replies)
	d, _, _ := startDaemon(t, c, nil)
	c.acceptEvents(t)

	require.NoError(t, d.Focus(context.Background(), 2))
	assert.Contains(t, c.sent(), "dispatch workspace 2")

	err := d.Focus(context.Background(), 3)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to focus workspace 3")
}

func TestDaemon_ResyncQueuesSnapshot(t *testing.T) {
	c := newCompositor(t, replies)
	d, applied, _ := startDaemon(t, c, nil)
	c.acceptEvents(t)
	assert.Equal(t, workspace.Resynced{Snapshot: startupState}, waitApplied(t, applied))

	require.NoError(t, d.Resync(context.Background()))
	assert.Equal(t, workspace.Resynced{Snapshot: startupState}, waitApplied(t, applied))
}

func TestDaemon_StartupSnapshotIsFatal(t *testing.T) {
	c := newCompositor(t, map[string]string{})

	cfg := config.DefaultConfig()
	cfg.Power.Enabled = false

	d, err := newDaemon(cfg, c.sockets, Options{}, testLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = d.Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query compositor state")
	assert.Empty(t, c.sentBeforeSubscribe())
}

func TestNew_NoInstance(t *testing.T) {
	t.Setenv("HYPRLAND_INSTANCE_SIGNATURE", "")

	_, err := New(Options{Config: config.DefaultConfig()})
	assert.ErrorIs(t, err, hyprland.ErrNoInstance)
}
