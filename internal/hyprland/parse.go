package hyprland

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmylchreest/wspanel/internal/workspace"
)

// ErrUnnumbered marks an event that refers to a special or named workspace.
// Such events are dropped rather than forwarded.
var ErrUnnumbered = errors.New("not a numbered workspace")

// ParseError reports an event line the panel cannot represent. It is fatal:
// the listener stops and the process exits.
type ParseError struct {
	Event  string
	Data   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse hyprland event %s>>%s: %s", e.Event, e.Data, e.Reason)
}

type wsKind int

const (
	wsNumbered   wsKind = iota
	wsSpecial           // special:* or a numeric id <= 0
	wsNamed             // any other non-numeric name
	wsOutOfRange        // numeric id above the slot count
)

// Parser translates compositor data for a panel with a fixed slot count.
type Parser struct {
	count int
}

// NewParser returns a parser accepting workspace ids 1..count.
func NewParser(count int) Parser {
	return Parser{count: count}
}

// Count returns the number of slots the parser accepts.
func (p Parser) Count() int {
	return p.count
}

func (p Parser) classifyName(name string) (workspace.ID, wsKind) {
	if name == "special" || strings.HasPrefix(name, "special:") {
		return 0, wsSpecial
	}
	n, err := strconv.Atoi(strings.TrimSpace(name))
	if err != nil {
		return 0, wsNamed
	}
	return p.classifyID(n)
}

func (p Parser) classifyID(n int) (workspace.ID, wsKind) {
	switch {
	case n <= 0:
		return 0, wsSpecial
	case n > p.count:
		return workspace.ID(n), wsOutOfRange
	default:
		return workspace.ID(n), wsNumbered
	}
}

// Translate converts one event socket line into a message.
//
// It returns (nil, nil) for events the panel does not consume,
// (nil, ErrUnnumbered) for events about special or named workspaces, and a
// *ParseError for lines that cannot be represented.
func (p Parser) Translate(line string) (workspace.Message, error) {
	event, data, ok := strings.Cut(line, ">>")
	if !ok {
		return nil, nil
	}

	fail := func(format string, args ...any) error {
		return &ParseError{Event: event, Data: data, Reason: fmt.Sprintf(format, args...)}
	}

	switch event {
	case "createworkspace", "destroyworkspace", "workspace":
		id, kind := p.classifyName(data)
		switch kind {
		case wsSpecial, wsNamed:
			return nil, ErrUnnumbered
		case wsOutOfRange:
			return nil, fail("workspace %d exceeds the %d configured slots", id, p.count)
		}
		switch event {
		case "createworkspace":
			return workspace.WorkspaceCreated{ID: id}, nil
		case "destroyworkspace":
			return workspace.WorkspaceDestroyed{ID: id}, nil
		default:
			return workspace.ActiveWorkspaceChanged{ID: id}, nil
		}

	case "activewindowv2":
		addr := workspace.NormalizeAddress(strings.Trim(data, ","))
		if addr == "" {
			// Focus moved to nothing, e.g. an empty workspace.
			return nil, nil
		}
		return workspace.ActiveWindowChanged{Address: addr}, nil

	case "openwindow":
		parts := strings.SplitN(data, ",", 4)
		if len(parts) < 3 {
			return nil, fail("expected ADDRESS,WORKSPACE,CLASS,TITLE")
		}
		addr := workspace.NormalizeAddress(parts[0])
		if addr == "" {
			return nil, fail("empty window address")
		}
		id, kind := p.classifyName(parts[1])
		switch kind {
		case wsSpecial:
			return nil, ErrUnnumbered
		case wsNamed:
			return nil, fail("window opened on named workspace %q", parts[1])
		case wsOutOfRange:
			return nil, fail("workspace %d exceeds the %d configured slots", id, p.count)
		}
		return workspace.WindowOpened{Address: addr, Class: parts[2], Workspace: id}, nil

	case "closewindow":
		addr := workspace.NormalizeAddress(data)
		if addr == "" {
			return nil, fail("empty window address")
		}
		return workspace.WindowClosed{Address: addr}, nil

	case "movewindow":
		rawAddr, name, ok := strings.Cut(data, ",")
		if !ok {
			return nil, fail("expected ADDRESS,WORKSPACE")
		}
		addr := workspace.NormalizeAddress(rawAddr)
		if addr == "" {
			return nil, fail("empty window address")
		}
		id, kind := p.classifyName(name)
		switch kind {
		case wsSpecial:
			// Leaving the numbered range looks like a close to the panel.
			return workspace.WindowClosed{Address: addr}, nil
		case wsNamed:
			return nil, fail("window moved to named workspace %q", name)
		case wsOutOfRange:
			return nil, fail("workspace %d exceeds the %d configured slots", id, p.count)
		}
		return workspace.WindowMoved{Address: addr, Workspace: id}, nil
	}

	return nil, nil
}
