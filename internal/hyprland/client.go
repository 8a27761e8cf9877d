package hyprland

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/jmylchreest/wspanel/internal/workspace"
)

// DefaultRequestTimeout bounds a request when the context has no deadline.
const DefaultRequestTimeout = 5 * time.Second

// Client issues commands on the request socket. Each command uses its own
// connection; the compositor closes it after replying.
type Client struct {
	path    string
	timeout time.Duration
	logger  *slog.Logger
}

// NewClient creates a client for the given sockets.
func NewClient(sockets Sockets, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		path:    sockets.Request,
		timeout: DefaultRequestTimeout,
		logger:  logger,
	}
}

// Request sends a raw command and returns the full reply.
func (c *Client) Request(ctx context.Context, cmd string) ([]byte, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", c.path, err)
	}
	defer conn.Close()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.timeout)
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, fmt.Errorf("failed to set deadline: %w", err)
	}

	if _, err := io.WriteString(conn, cmd); err != nil {
		return nil, fmt.Errorf("failed to send %q: %w", cmd, err)
	}

	reply, err := io.ReadAll(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to read reply to %q: %w", cmd, err)
	}

	c.logger.Debug("hyprland request", "cmd", cmd, "bytes", len(reply))
	return reply, nil
}

func (c *Client) requestJSON(ctx context.Context, cmd string, v any) error {
	reply, err := c.Request(ctx, "j/"+cmd)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(reply, v); err != nil {
		return fmt.Errorf("failed to decode %s reply: %w", cmd, err)
	}
	return nil
}

// Windows returns all client windows.
func (c *Client) Windows(ctx context.Context) ([]Window, error) {
	var windows []Window
	if err := c.requestJSON(ctx, "clients", &windows); err != nil {
		return nil, err
	}
	return windows, nil
}

// Workspaces returns all existing workspaces.
func (c *Client) Workspaces(ctx context.Context) ([]Workspace, error) {
	var workspaces []Workspace
	if err := c.requestJSON(ctx, "workspaces", &workspaces); err != nil {
		return nil, err
	}
	return workspaces, nil
}

// ActiveWorkspace returns the focused workspace.
func (c *Client) ActiveWorkspace(ctx context.Context) (Workspace, error) {
	var ws Workspace
	if err := c.requestJSON(ctx, "activeworkspace", &ws); err != nil {
		return Workspace{}, err
	}
	return ws, nil
}

// Dispatch runs a dispatcher, e.g. Dispatch(ctx, "workspace", "3").
func (c *Client) Dispatch(ctx context.Context, args ...string) error {
	cmd := "dispatch " + strings.Join(args, " ")
	reply, err := c.Request(ctx, cmd)
	if err != nil {
		return err
	}
	if r := strings.TrimSpace(string(reply)); r != "ok" {
		return fmt.Errorf("dispatch %q rejected: %s", strings.Join(args, " "), r)
	}
	return nil
}

// FocusWorkspace asks the compositor to switch to workspace id.
func (c *Client) FocusWorkspace(ctx context.Context, id workspace.ID) error {
	return c.Dispatch(ctx, "workspace", strconv.Itoa(int(id)))
}

// Snapshot queries the current compositor state and maps it onto the slot
// range of parser. Special and named workspaces, and the windows on them,
// are left out; numbered workspaces beyond the range are an error.
func (c *Client) Snapshot(ctx context.Context, parser Parser) (workspace.Snapshot, error) {
	var snap workspace.Snapshot

	active, err := c.ActiveWorkspace(ctx)
	if err != nil {
		return snap, err
	}
	workspaces, err := c.Workspaces(ctx)
	if err != nil {
		return snap, err
	}
	windows, err := c.Windows(ctx)
	if err != nil {
		return snap, err
	}

	outOfRange := func(id int) error {
		return fmt.Errorf("workspace %d exceeds the %d configured slots: %w",
			id, parser.Count(), workspace.ErrUnknownWorkspace)
	}

	switch id, kind := parser.classifyID(active.ID); kind {
	case wsNumbered:
		snap.Active = id
	case wsOutOfRange:
		return snap, outOfRange(active.ID)
	}

	for _, ws := range workspaces {
		id, kind := parser.classifyID(ws.ID)
		switch kind {
		case wsNumbered:
			snap.Workspaces = append(snap.Workspaces, workspace.WorkspaceInfo{
				ID:         id,
				LastWindow: workspace.NormalizeAddress(ws.LastWindow),
			})
		case wsOutOfRange:
			return snap, outOfRange(ws.ID)
		}
	}

	for _, w := range windows {
		if !w.Mapped {
			continue
		}
		id, kind := parser.classifyID(w.Workspace.ID)
		switch kind {
		case wsNumbered:
			snap.Windows = append(snap.Windows, workspace.WindowInfo{
				Address:   workspace.NormalizeAddress(w.Address),
				Class:     w.Class,
				Workspace: id,
			})
		case wsOutOfRange:
			return snap, outOfRange(w.Workspace.ID)
		}
	}

	return snap, nil
}
