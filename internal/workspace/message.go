package workspace

import "fmt"

// Message is one normalized compositor event. The set is closed: only the
// types in this file implement it.
type Message interface {
	fmt.Stringer
	message()
}

// WorkspaceCreated reports that a numbered workspace now exists.
type WorkspaceCreated struct {
	ID ID
}

// WorkspaceDestroyed reports that a numbered workspace is gone.
type WorkspaceDestroyed struct {
	ID ID
}

// ActiveWorkspaceChanged reports the workspace receiving input focus.
type ActiveWorkspaceChanged struct {
	ID ID
}

// ActiveWindowChanged reports the newly focused window.
type ActiveWindowChanged struct {
	Address Address
}

// WindowOpened reports a new window on a numbered workspace.
type WindowOpened struct {
	Address   Address
	Class     string
	Workspace ID
}

// WindowClosed reports that a window went away.
type WindowClosed struct {
	Address Address
}

// WindowMoved reports that a window changed workspace.
type WindowMoved struct {
	Address   Address
	Workspace ID
}

// Resynced replaces the whole model with a fresh compositor snapshot. It is
// queued after the event socket (re)connects so workspaces and windows that
// vanished in the meantime are dropped too.
type Resynced struct {
	Snapshot Snapshot
}

func (WorkspaceCreated) message()       {}
func (WorkspaceDestroyed) message()     {}
func (ActiveWorkspaceChanged) message() {}
func (ActiveWindowChanged) message()    {}
func (WindowOpened) message()           {}
func (WindowClosed) message()           {}
func (WindowMoved) message()            {}
func (Resynced) message()               {}

func (m WorkspaceCreated) String() string { return fmt.Sprintf("WorkspaceCreated(%d)", m.ID) }

func (m WorkspaceDestroyed) String() string { return fmt.Sprintf("WorkspaceDestroyed(%d)", m.ID) }

func (m ActiveWorkspaceChanged) String() string {
	return fmt.Sprintf("ActiveWorkspaceChanged(%d)", m.ID)
}

func (m ActiveWindowChanged) String() string {
	return fmt.Sprintf("ActiveWindowChanged(%s)", m.Address)
}

func (m WindowOpened) String() string {
	return fmt.Sprintf("WindowOpened(%s, %q, %d)", m.Address, m.Class, m.Workspace)
}

func (m WindowClosed) String() string { return fmt.Sprintf("WindowClosed(%s)", m.Address) }

func (m WindowMoved) String() string {
	return fmt.Sprintf("WindowMoved(%s, %d)", m.Address, m.Workspace)
}

func (m Resynced) String() string {
	return fmt.Sprintf("Resynced(active=%d, workspaces=%d, windows=%d)",
		m.Snapshot.Active, len(m.Snapshot.Workspaces), len(m.Snapshot.Windows))
}
