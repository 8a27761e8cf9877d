package workspace

import "fmt"

// Sink is the presentation side of the panel: one addressable slot per
// workspace id. Implementations hold no business logic.
type Sink interface {
	SetVisible(id ID, visible bool)
	SetInteractive(id ID, interactive bool)
	SetIcon(id ID, icon Icon)
}

// nopSink discards effects when no sink is provided.
type nopSink struct{}

func (nopSink) SetVisible(ID, bool)     {}
func (nopSink) SetInteractive(ID, bool) {}
func (nopSink) SetIcon(ID, Icon)        {}

// EffectKind selects which slot attribute an Effect changes.
type EffectKind int

const (
	// EffectVisible shows or hides a slot.
	EffectVisible EffectKind = iota
	// EffectInteractive enables or disables a slot's button.
	EffectInteractive
	// EffectIcon replaces a slot's icon.
	EffectIcon
)

// String returns the string representation of EffectKind.
func (k EffectKind) String() string {
	switch k {
	case EffectVisible:
		return "visible"
	case EffectInteractive:
		return "interactive"
	case EffectIcon:
		return "icon"
	default:
		return "unknown"
	}
}

// Effect is a single UI change computed by the reducer.
type Effect struct {
	Kind  EffectKind
	ID    ID
	Value bool // EffectVisible, EffectInteractive
	Icon  Icon // EffectIcon
}

// ApplyTo performs the effect on sink.
func (e Effect) ApplyTo(sink Sink) {
	switch e.Kind {
	case EffectVisible:
		sink.SetVisible(e.ID, e.Value)
	case EffectInteractive:
		sink.SetInteractive(e.ID, e.Value)
	case EffectIcon:
		sink.SetIcon(e.ID, e.Icon)
	}
}

func (e Effect) String() string {
	if e.Kind == EffectIcon {
		return fmt.Sprintf("%s(%d, %q)", e.Kind, e.ID, e.Icon)
	}
	return fmt.Sprintf("%s(%d, %t)", e.Kind, e.ID, e.Value)
}

func visible(id ID, v bool) Effect { return Effect{Kind: EffectVisible, ID: id, Value: v} }

func interactive(id ID, v bool) Effect { return Effect{Kind: EffectInteractive, ID: id, Value: v} }

func icon(id ID, i Icon) Effect { return Effect{Kind: EffectIcon, ID: id, Icon: i} }
