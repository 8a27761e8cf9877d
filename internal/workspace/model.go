package workspace

import (
	"fmt"
	"maps"
)

// Model is the canonical panel state. It is not safe for concurrent use;
// the Engine goroutine is its only writer.
type Model struct {
	active  ID // 0 until the first activation
	windows map[Address]Window
	slots   []Slot // index id-1
}

// NewModel creates a model with count slots, all hidden, interactive and
// showing the default icon. No workspace is active until Reconcile or the
// first ActiveWorkspaceChanged.
func NewModel(count int) (*Model, error) {
	if count < 1 || count > MaxCount {
		return nil, fmt.Errorf("workspace count must be between 1 and %d, got %d", MaxCount, count)
	}

	slots := make([]Slot, count)
	for i := range slots {
		slots[i].ID = ID(i + 1)
	}

	return &Model{
		windows: make(map[Address]Window),
		slots:   slots,
	}, nil
}

// Count returns the number of slots.
func (m *Model) Count() int {
	return len(m.slots)
}

// Active returns the active workspace, or 0 when none is known yet.
func (m *Model) Active() ID {
	return m.active
}

// Valid reports whether id has a slot.
func (m *Model) Valid(id ID) bool {
	return id >= 1 && int(id) <= len(m.slots)
}

// Slot returns the slot for id.
func (m *Model) Slot(id ID) (Slot, bool) {
	if !m.Valid(id) {
		return Slot{}, false
	}
	return m.slots[id-1], true
}

// Slots returns a copy of all slots ordered by id.
func (m *Model) Slots() []Slot {
	out := make([]Slot, len(m.slots))
	copy(out, m.slots)
	return out
}

// Window returns the tracked window at addr.
func (m *Model) Window(addr Address) (Window, bool) {
	w, ok := m.windows[addr]
	return w, ok
}

// Windows returns a copy of the tracked windows.
func (m *Model) Windows() map[Address]Window {
	return maps.Clone(m.windows)
}

// Occupied reports whether any tracked window is on id.
func (m *Model) Occupied(id ID) bool {
	for _, w := range m.windows {
		if w.Workspace == id {
			return true
		}
	}
	return false
}

// Apply folds msg into the model and returns the UI effects it causes.
// Effects are only emitted for attributes that actually change, so
// re-applying a message is harmless. A message naming a workspace without a
// slot returns an error wrapping ErrUnknownWorkspace and leaves the model
// untouched.
func (m *Model) Apply(msg Message) ([]Effect, error) {
	switch msg := msg.(type) {
	case WorkspaceCreated:
		if err := m.check(msg.ID); err != nil {
			return nil, err
		}
		return m.setVisible(msg.ID, true, nil), nil

	case WorkspaceDestroyed:
		if err := m.check(msg.ID); err != nil {
			return nil, err
		}
		// The active slot and occupied slots stay visible.
		if msg.ID == m.active || m.Occupied(msg.ID) {
			return nil, nil
		}
		return m.setVisible(msg.ID, false, nil), nil

	case ActiveWorkspaceChanged:
		if err := m.check(msg.ID); err != nil {
			return nil, err
		}
		return m.activate(msg.ID), nil

	case ActiveWindowChanged:
		w, ok := m.windows[msg.Address]
		if !ok {
			return nil, nil
		}
		return m.setIcon(w.Workspace, Icon(w.Class), nil), nil

	case WindowOpened:
		if err := m.check(msg.Workspace); err != nil {
			return nil, err
		}
		prev, replaced := m.windows[msg.Address]
		m.windows[msg.Address] = Window{Class: msg.Class, Workspace: msg.Workspace}
		fx := m.setVisible(msg.Workspace, true, nil)
		if replaced && prev.Workspace != msg.Workspace {
			fx = m.cleanup(fx)
		}
		return fx, nil

	case WindowClosed:
		if _, ok := m.windows[msg.Address]; !ok {
			return nil, nil
		}
		delete(m.windows, msg.Address)
		return m.cleanup(nil), nil

	case WindowMoved:
		if err := m.check(msg.Workspace); err != nil {
			return nil, err
		}
		w, ok := m.windows[msg.Address]
		if !ok {
			return nil, nil
		}
		w.Workspace = msg.Workspace
		m.windows[msg.Address] = w
		fx := m.setVisible(msg.Workspace, true, nil)
		return m.cleanup(fx), nil

	case Resynced:
		return m.Reconcile(msg.Snapshot)

	default:
		return nil, fmt.Errorf("unsupported message %T", msg)
	}
}

// Reconcile replaces the model with the compositor snapshot and returns the
// effects that bring a freshly built sink in line with it.
func (m *Model) Reconcile(snap Snapshot) ([]Effect, error) {
	if snap.Active != 0 {
		if err := m.check(snap.Active); err != nil {
			return nil, fmt.Errorf("active workspace: %w", err)
		}
	}
	for _, ws := range snap.Workspaces {
		if err := m.check(ws.ID); err != nil {
			return nil, fmt.Errorf("workspace list: %w", err)
		}
	}
	for _, w := range snap.Windows {
		if err := m.check(w.Workspace); err != nil {
			return nil, fmt.Errorf("window %s: %w", w.Address, err)
		}
	}

	windows := make(map[Address]Window, len(snap.Windows))
	firstClass := make(map[ID]string)
	for _, w := range snap.Windows {
		windows[w.Address] = Window{Class: w.Class, Workspace: w.Workspace}
		if _, ok := firstClass[w.Workspace]; !ok {
			firstClass[w.Workspace] = w.Class
		}
	}

	exists := make(map[ID]bool, len(snap.Workspaces))
	lastClass := make(map[ID]string)
	for _, ws := range snap.Workspaces {
		exists[ws.ID] = true
		if w, ok := windows[ws.LastWindow]; ok && w.Workspace == ws.ID {
			lastClass[ws.ID] = w.Class
		}
	}

	m.windows = windows
	m.active = snap.Active

	var fx []Effect
	for i := range m.slots {
		id := m.slots[i].ID
		class, occupied := lastClass[id]
		if !occupied {
			class, occupied = firstClass[id]
		}

		fx = m.setVisible(id, exists[id] || occupied || id == snap.Active, fx)
		fx = m.setActive(id, id == snap.Active, fx)
		fx = m.setIcon(id, Icon(class), fx)
	}
	return fx, nil
}

// activate moves the active marker to id.
func (m *Model) activate(id ID) []Effect {
	if id == m.active {
		return nil
	}

	var fx []Effect
	if m.active != 0 {
		fx = m.setActive(m.active, false, fx)
	}
	fx = m.setActive(id, true, fx)
	fx = m.setVisible(id, true, fx)
	m.active = id
	return fx
}

// cleanup resets the icon of every slot that no longer holds a window.
// It does not pick a replacement icon; the next ActiveWindowChanged on that
// workspace does.
func (m *Model) cleanup(fx []Effect) []Effect {
	occupied := make(map[ID]bool, len(m.windows))
	for _, w := range m.windows {
		occupied[w.Workspace] = true
	}

	for i := range m.slots {
		id := m.slots[i].ID
		if !occupied[id] {
			fx = m.setIcon(id, DefaultIcon, fx)
		}
	}
	return fx
}

func (m *Model) check(id ID) error {
	if !m.Valid(id) {
		return fmt.Errorf("%w: %d (slots are 1..%d)", ErrUnknownWorkspace, id, len(m.slots))
	}
	return nil
}

func (m *Model) setVisible(id ID, v bool, fx []Effect) []Effect {
	s := &m.slots[id-1]
	if s.Visible == v {
		return fx
	}
	s.Visible = v
	return append(fx, visible(id, v))
}

func (m *Model) setActive(id ID, active bool, fx []Effect) []Effect {
	s := &m.slots[id-1]
	if s.Active == active {
		return fx
	}
	s.Active = active
	return append(fx, interactive(id, !active))
}

func (m *Model) setIcon(id ID, i Icon, fx []Effect) []Effect {
	s := &m.slots[id-1]
	if s.Icon == i {
		return fx
	}
	s.Icon = i
	return append(fx, icon(id, i))
}
