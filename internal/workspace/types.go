package workspace

import (
	"errors"
	"strings"
)

// MaxCount is the largest number of workspace slots a panel can hold.
const MaxCount = 32

// ErrUnknownWorkspace is returned when a workspace id has no slot.
var ErrUnknownWorkspace = errors.New("unknown workspace")

// ID is a numbered workspace, 1-based.
type ID int

// Address identifies a live window. Always lowercase hex without "0x".
type Address string

// NormalizeAddress converts a compositor window address into an Address.
// The event socket sends bare hex while JSON replies carry a 0x prefix.
func NormalizeAddress(s string) Address {
	s = strings.ToLower(strings.TrimSpace(s))
	return Address(strings.TrimPrefix(s, "0x"))
}

// Icon names the application icon shown on a slot.
// The zero value is the default (idle) icon; resolution to an actual image,
// fallbacks and size are the sink's business.
type Icon string

// DefaultIcon is the idle icon shown on a slot without a tracked window.
const DefaultIcon Icon = ""

// IsDefault reports whether i is the idle icon.
func (i Icon) IsDefault() bool {
	return i == DefaultIcon
}

// Window is a tracked compositor window.
type Window struct {
	Class     string
	Workspace ID
}

// Slot is the panel's representation of one workspace number.
type Slot struct {
	ID      ID
	Visible bool
	Active  bool
	Icon    Icon
}

// Interactive reports whether the slot's button accepts clicks.
// The active workspace is never clickable.
func (s Slot) Interactive() bool {
	return !s.Active
}

// WorkspaceInfo describes a workspace that exists in the compositor.
type WorkspaceInfo struct {
	ID         ID
	LastWindow Address // empty when unknown
}

// WindowInfo describes a window that exists in the compositor.
type WindowInfo struct {
	Address   Address
	Class     string
	Workspace ID
}

// Snapshot is the compositor state fetched synchronously before the
// message loop starts.
type Snapshot struct {
	Active     ID // 0 when the compositor reported no numbered workspace
	Workspaces []WorkspaceInfo
	Windows    []WindowInfo
}
