// Package output renders workspace slot state for the command line.
package output

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/jmylchreest/wspanel/internal/workspace"
)

// Formatter writes slot state.
type Formatter interface {
	Format(w io.Writer, state State) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatTable FormatType = "table"
	FormatJSON  FormatType = "json"
	FormatYAML  FormatType = "yaml"
	FormatPlain FormatType = "plain"
)

// ValidFormats returns all valid format values.
func ValidFormats() []FormatType {
	return []FormatType{FormatTable, FormatJSON, FormatYAML, FormatPlain}
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	All      bool   // Include hidden slots
	Template string // Custom template for plain format, one execution per slot
}

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) (Formatter, error) {
	switch format {
	case FormatTable, "":
		return NewTableFormatter(opts), nil
	case FormatJSON:
		return NewJSONFormatter(opts), nil
	case FormatYAML:
		return NewYAMLFormatter(opts), nil
	case FormatPlain:
		return NewPlainFormatter(opts)
	default:
		names := make([]string, 0, len(ValidFormats()))
		for _, f := range ValidFormats() {
			names = append(names, string(f))
		}
		return nil, fmt.Errorf("unknown format %q (valid: %s)", format, strings.Join(names, ", "))
	}
}

// State is the printable form of a workspace.Model.
type State struct {
	Active int         `json:"active" yaml:"active"`
	Slots  []SlotState `json:"slots" yaml:"slots"`
}

// SlotState is one slot and the windows on it.
type SlotState struct {
	ID      int           `json:"id" yaml:"id"`
	Visible bool          `json:"visible" yaml:"visible"`
	Active  bool          `json:"active" yaml:"active"`
	Icon    string        `json:"icon,omitempty" yaml:"icon,omitempty"`
	Windows []WindowState `json:"windows,omitempty" yaml:"windows,omitempty"`
}

// WindowState is a tracked window.
type WindowState struct {
	Address string `json:"address" yaml:"address"`
	Class   string `json:"class" yaml:"class"`
}

// FromModel captures m. Windows are ordered by address.
func FromModel(m *workspace.Model) State {
	byID := make(map[workspace.ID][]WindowState)
	for addr, w := range m.Windows() {
		byID[w.Workspace] = append(byID[w.Workspace], WindowState{
			Address: "0x" + string(addr),
			Class:   w.Class,
		})
	}

	state := State{Active: int(m.Active())}
	for _, s := range m.Slots() {
		windows := byID[s.ID]
		slices.SortFunc(windows, func(a, b WindowState) int {
			return strings.Compare(a.Address, b.Address)
		})
		state.Slots = append(state.Slots, SlotState{
			ID:      int(s.ID),
			Visible: s.Visible,
			Active:  s.Active,
			Icon:    string(s.Icon),
			Windows: windows,
		})
	}
	return state
}

// shown returns the slots a formatter prints.
func shown(state State, all bool) []SlotState {
	if all {
		return state.Slots
	}
	var out []SlotState
	for _, s := range state.Slots {
		if s.Visible {
			out = append(out, s)
		}
	}
	return out
}

// filtered returns state limited to the slots a formatter prints.
func filtered(state State, all bool) State {
	return State{Active: state.Active, Slots: shown(state, all)}
}
