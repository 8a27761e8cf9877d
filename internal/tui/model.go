// Package tui provides the BubbleTea-based terminal view of the panel.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/wspanel/internal/workspace"
)

// Mode represents the current UI mode.
type Mode int

const (
	ModeSlots Mode = iota
	ModeHelp
)

// DefaultMaxEvents is how many recent events the log keeps.
const DefaultMaxEvents = 50

// Actions are the side effects the view can trigger. Nil actions are
// reported as unavailable.
type Actions struct {
	Focus  func(id workspace.ID) error
	Resync func() error
}

// EffectMsg delivers one slot change from the engine.
type EffectMsg struct {
	Effect workspace.Effect
}

// EventMsg records a message the engine applied.
type EventMsg struct {
	At      time.Time
	Message string
	Effects []string
}

// PowerMsg carries a new battery icon name.
type PowerMsg struct {
	Icon string
}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

type tickMsg time.Time

type slotView struct {
	visible     bool
	interactive bool
	icon        workspace.Icon
}

type eventEntry struct {
	at      time.Time
	text    string
	effects []string
}

// Model is the main TUI model.
type Model struct {
	mode    Mode
	slots   []slotView
	showAll bool
	cursor  int
	power   string

	events    []eventEntry
	maxEvents int

	actions Actions
	keys    KeyMap
	help    help.Model

	width  int
	height int
	ready  bool

	statusMsg string
	statusErr bool
}

// New creates a model for count slots. Slots start hidden, clickable and
// idle, mirroring a fresh workspace.Model.
func New(count int, actions Actions) Model {
	slots := make([]slotView, count)
	for i := range slots {
		slots[i].interactive = true
	}
	return Model{
		mode:      ModeSlots,
		slots:     slots,
		maxEvents: DefaultMaxEvents,
		actions:   actions,
		keys:      DefaultKeyMap(),
		help:      help.New(),
	}
}

// Init starts the ticker that keeps event ages current.
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case EffectMsg:
		m.applyEffect(msg.Effect)
		return m, nil

	case EventMsg:
		m.events = append([]eventEntry{{at: msg.At, text: msg.Message, effects: msg.Effects}}, m.events...)
		if len(m.events) > m.maxEvents {
			m.events = m.events[:m.maxEvents]
		}
		return m, nil

	case PowerMsg:
		m.power = msg.Icon
		return m, nil

	case tickMsg:
		return m, tick()

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(t time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil
	}

	return m, nil
}

func (m *Model) applyEffect(e workspace.Effect) {
	i := int(e.ID) - 1
	if i < 0 || i >= len(m.slots) {
		return
	}
	switch e.Kind {
	case workspace.EffectVisible:
		m.slots[i].visible = e.Value
	case workspace.EffectInteractive:
		m.slots[i].interactive = e.Value
	case workspace.EffectIcon:
		m.slots[i].icon = e.Icon
	}
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		if m.mode == ModeHelp {
			m.mode = ModeSlots
		} else {
			m.mode = ModeHelp
		}
		return m, nil
	}

	if m.mode == ModeHelp {
		if msg.String() == "esc" {
			m.mode = ModeSlots
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Focus):
		if i, ok := m.selected(); ok {
			return m, m.focus(workspace.ID(i + 1))
		}
	case key.Matches(msg, m.keys.Jump):
		n := int(msg.String()[0] - '0')
		if n == 0 {
			n = 10
		}
		if n <= len(m.slots) {
			return m, m.focus(workspace.ID(n))
		}
	case key.Matches(msg, m.keys.ShowAll):
		m.showAll = !m.showAll
	case key.Matches(msg, m.keys.Resync):
		return m, m.resync()
	case key.Matches(msg, m.keys.Clear):
		m.events = nil
	}
	return m, nil
}

// shown returns the indexes of the slots currently listed.
func (m Model) shown() []int {
	var out []int
	for i, s := range m.slots {
		if s.visible || m.showAll {
			out = append(out, i)
		}
	}
	return out
}

// selected returns the slot under the cursor, snapping to the first listed
// slot when the cursor's slot has been hidden.
func (m Model) selected() (int, bool) {
	shown := m.shown()
	if len(shown) == 0 {
		return 0, false
	}
	for _, i := range shown {
		if i == m.cursor {
			return i, true
		}
	}
	return shown[0], true
}

func (m *Model) moveCursor(delta int) {
	shown := m.shown()
	if len(shown) == 0 {
		return
	}
	cur, _ := m.selected()
	pos := 0
	for j, i := range shown {
		if i == cur {
			pos = j
		}
	}
	pos = max(0, min(len(shown)-1, pos+delta))
	m.cursor = shown[pos]
}

func (m Model) focus(id workspace.ID) tea.Cmd {
	if !m.slots[id-1].interactive {
		return status(fmt.Sprintf("Already on workspace %d", id), false)
	}
	if m.actions.Focus == nil {
		return status("Switching workspaces is unavailable", true)
	}
	focus := m.actions.Focus
	return func() tea.Msg {
		if err := focus(id); err != nil {
			return statusMsg{text: "Switch failed: " + err.Error(), isErr: true}
		}
		return statusMsg{text: fmt.Sprintf("Switched to workspace %d", id)}
	}
}

func (m Model) resync() tea.Cmd {
	if m.actions.Resync == nil {
		return status("Resync is unavailable", true)
	}
	resync := m.actions.Resync
	return func() tea.Msg {
		if err := resync(); err != nil {
			return statusMsg{text: "Resync failed: " + err.Error(), isErr: true}
		}
		return statusMsg{text: "Resynced with compositor"}
	}
}

func status(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isErr: isErr}
	}
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.mode == ModeHelp {
		return m.viewHelp()
	}
	return m.viewSlots()
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	activeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func (m Model) viewSlots() string {
	var b strings.Builder

	header := titleStyle.Render("wspanel")
	if m.power != "" {
		header += "  " + dimStyle.Render("power:") + " " + m.power
	}
	b.WriteString(header + "\n\n")

	cur, hasCursor := m.selected()
	lines := 2
	for _, i := range m.shown() {
		b.WriteString(m.renderSlot(i, hasCursor && i == cur) + "\n")
		lines++
	}
	if !hasCursor {
		b.WriteString(dimStyle.Render("  no workspaces") + "\n")
		lines++
	}

	b.WriteString("\n" + titleStyle.Render("Events") + "\n")
	lines += 2

	room := len(m.events)
	if m.height > 0 {
		room = max(0, m.height-lines-2)
	}
	for _, e := range m.events[:min(room, len(m.events))] {
		b.WriteString(m.renderEvent(e) + "\n")
	}

	b.WriteString("\n")
	if m.statusMsg != "" {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
		if m.statusErr {
			style = errStyle
		}
		b.WriteString(style.Render(m.statusMsg))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	}
	return b.String()
}

func (m Model) renderSlot(i int, isCursor bool) string {
	s := m.slots[i]

	marker := "  "
	if isCursor {
		marker = cursorStyle.Render("▸ ")
	}

	name := string(s.icon)
	if s.icon.IsDefault() {
		name = dimStyle.Render("idle")
	}

	line := fmt.Sprintf("%2d  %s", i+1, name)
	switch {
	case !s.interactive:
		line = activeStyle.Render(fmt.Sprintf("%2d ", i+1)) + "● " + name
	case !s.visible:
		line = dimStyle.Render(fmt.Sprintf("%2d  %s (hidden)", i+1, s.icon))
	}
	return marker + line
}

func (m Model) renderEvent(e eventEntry) string {
	age := fmt.Sprintf("%-16s", humanize.Time(e.at))
	line := dimStyle.Render(age) + " " + e.text
	if len(e.effects) > 0 {
		line += " " + dimStyle.Render("→ "+strings.Join(e.effects, ", "))
	}
	if m.width > 0 && lipgloss.Width(line) > m.width {
		line = truncate(line, m.width)
	}
	return line
}

// truncate shortens s to width visible cells.
func truncate(s string, width int) string {
	if width <= 1 {
		return ""
	}
	plain := stripANSI(s)
	runes := []rune(plain)
	if len(runes) <= width {
		return plain
	}
	return string(runes[:width-1]) + "…"
}

// stripANSI removes ANSI escape codes for length calculation.
func stripANSI(s string) string {
	result := make([]byte, 0, len(s))
	inEscape := false
	for i := 0; i < len(s); i++ {
		if s[i] == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if s[i] == 'm' {
				inEscape = false
			}
			continue
		}
		result = append(result, s[i])
	}
	return string(result)
}

func (m Model) viewHelp() string {
	s := titleStyle.MarginBottom(1).Render("Keyboard Shortcuts") + "\n\n"
	s += m.help.FullHelpView(m.keys.FullHelp())
	s += "\n\n" + dimStyle.Render("Press ? or esc to return")
	return s
}
