package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmylchreest/wspanel/internal/power"
	"github.com/jmylchreest/wspanel/internal/workspace"
)

// Bridge forwards engine output into a running tea.Program. It implements
// workspace.Sink and power.Sink. Program.Send is safe from any goroutine
// and preserves order, so slot effects reach Update in the order the
// engine produced them.
type Bridge struct {
	send func(tea.Msg)
	now  func() time.Time
}

var (
	_ workspace.Sink = (*Bridge)(nil)
	_ power.Sink     = (*Bridge)(nil)
)

// NewBridge creates a bridge delivering to send, usually Program.Send.
func NewBridge(send func(tea.Msg)) *Bridge {
	return &Bridge{send: send, now: time.Now}
}

// SetVisible implements workspace.Sink.
func (b *Bridge) SetVisible(id workspace.ID, visible bool) {
	b.send(EffectMsg{Effect: workspace.Effect{Kind: workspace.EffectVisible, ID: id, Value: visible}})
}

// SetInteractive implements workspace.Sink.
func (b *Bridge) SetInteractive(id workspace.ID, interactive bool) {
	b.send(EffectMsg{Effect: workspace.Effect{Kind: workspace.EffectInteractive, ID: id, Value: interactive}})
}

// SetIcon implements workspace.Sink.
func (b *Bridge) SetIcon(id workspace.ID, icon workspace.Icon) {
	b.send(EffectMsg{Effect: workspace.Effect{Kind: workspace.EffectIcon, ID: id, Icon: icon}})
}

// SetPowerIcon implements power.Sink.
func (b *Bridge) SetPowerIcon(name string) {
	b.send(PowerMsg{Icon: name})
}

// Observe records an applied message in the event log. Register it with
// Engine.Observe.
func (b *Bridge) Observe(msg workspace.Message, fx []workspace.Effect) {
	effects := make([]string, len(fx))
	for i, e := range fx {
		effects[i] = e.String()
	}
	b.send(EventMsg{At: b.now(), Message: msg.String(), Effects: effects})
}
