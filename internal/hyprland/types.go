package hyprland

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrNoInstance is returned when no Hyprland instance signature is known.
var ErrNoInstance = errors.New("HYPRLAND_INSTANCE_SIGNATURE is not set; is Hyprland running?")

// Sockets holds the paths of an instance's IPC sockets.
type Sockets struct {
	Request string // .socket.sock
	Events  string // .socket2.sock
}

// DetectSockets resolves the socket paths for signature, or for
// $HYPRLAND_INSTANCE_SIGNATURE when signature is empty.
// Sockets live under $XDG_RUNTIME_DIR/hypr/<sig>; older releases used
// /tmp/hypr/<sig>.
func DetectSockets(signature string) (Sockets, error) {
	if signature == "" {
		signature = os.Getenv("HYPRLAND_INSTANCE_SIGNATURE")
	}
	if signature == "" {
		return Sockets{}, ErrNoInstance
	}

	dir := filepath.Join("/tmp", "hypr", signature)
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		candidate := filepath.Join(runtimeDir, "hypr", signature)
		if _, err := os.Stat(candidate); err == nil {
			dir = candidate
		}
	}

	return SocketsIn(dir), nil
}

// SocketsIn returns the socket paths inside dir.
func SocketsIn(dir string) Sockets {
	return Sockets{
		Request: filepath.Join(dir, ".socket.sock"),
		Events:  filepath.Join(dir, ".socket2.sock"),
	}
}

// WorkspaceRef is the workspace reference embedded in other replies.
type WorkspaceRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Workspace is an entry of j/workspaces or the j/activeworkspace reply.
type Workspace struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Monitor         string `json:"monitor"`
	MonitorID       int    `json:"monitorID"`
	Windows         int    `json:"windows"`
	HasFullscreen   bool   `json:"hasfullscreen"`
	LastWindow      string `json:"lastwindow"`
	LastWindowTitle string `json:"lastwindowtitle"`
	IsPersistent    bool   `json:"ispersistent"`
}

// Window is an entry of j/clients.
type Window struct {
	Address   string       `json:"address"`
	Mapped    bool         `json:"mapped"`
	Hidden    bool         `json:"hidden"`
	Workspace WorkspaceRef `json:"workspace"`
	Floating  bool         `json:"floating"`
	Monitor   int          `json:"monitor"`
	Class     string       `json:"class"`
	Title     string       `json:"title"`
	PID       int          `json:"pid"`
}
