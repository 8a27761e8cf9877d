package panel

import (
	"strings"
	"time"

	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
)

// Clock is a label showing the local time. Only use it on the GTK main
// thread.
type Clock struct {
	label  *gtk.Label
	layout string
	source glib.SourceHandle
}

// NewClock creates a clock formatting with the given Go time layout.
func NewClock(layout string) *Clock {
	label := gtk.NewLabel("")
	label.AddCSSClass("clock")
	label.SetJustify(gtk.JustifyCenter)
	return &Clock{label: label, layout: stackLayout(layout)}
}

// Widget returns the label to pack into the panel.
func (c *Clock) Widget() gtk.Widgetter {
	return c.label
}

// Start updates the label now and then every second.
func (c *Clock) Start() {
	if c.source != 0 {
		return
	}
	c.tick()
	c.source = glib.TimeoutSecondsAdd(1, func() bool {
		c.tick()
		return true
	})
}

// Stop halts updates.
func (c *Clock) Stop() {
	if c.source != 0 {
		glib.SourceRemove(c.source)
		c.source = 0
	}
}

func (c *Clock) tick() {
	text := time.Now().Format(c.layout)
	if c.label.Text() != text {
		c.label.SetText(text)
	}
}

// stackLayout puts each colon-separated field of layout on its own line so
// the time fits a narrow vertical panel, e.g. "15:04" -> "15\n04".
func stackLayout(layout string) string {
	return strings.ReplaceAll(layout, ":", "\n")
}
