package panel

import (
	"log/slog"
	"strconv"

	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/wspanel/internal/workspace"
)

type slotWidget struct {
	button *gtk.Button
	image  *gtk.Image
}

// Workspaces is the column of workspace buttons. It implements
// workspace.Sink. Slots start hidden, clickable and showing the idle icon,
// matching a fresh workspace.Model.
type Workspaces struct {
	box    *gtk.Box
	slots  []slotWidget
	icons  *IconResolver
	logger *slog.Logger
}

var _ workspace.Sink = (*Workspaces)(nil)

// NewWorkspaces builds count buttons. Must be called on the GTK main thread.
func NewWorkspaces(count, iconSize int, icons *IconResolver, onFocus func(workspace.ID), logger *slog.Logger) *Workspaces {
	if logger == nil {
		logger = slog.Default()
	}

	w := &Workspaces{
		box:    gtk.NewBox(gtk.OrientationVertical, 0),
		slots:  make([]slotWidget, count),
		icons:  icons,
		logger: logger,
	}
	w.box.AddCSSClass("workspaces")

	for i := range w.slots {
		id := workspace.ID(i + 1)

		image := gtk.NewImage()
		image.AddCSSClass("workspace-icon")
		image.SetPixelSize(iconSize)

		button := gtk.NewButton()
		button.AddCSSClass("workspace")
		button.SetTooltipText("Workspace " + strconv.Itoa(int(id)))
		button.SetChild(image)
		button.SetVisible(false)
		button.ConnectClicked(func() {
			w.logger.Debug("workspace clicked", "workspace", int(id))
			if onFocus != nil {
				onFocus(id)
			}
		})

		w.slots[i] = slotWidget{button: button, image: image}
		w.applyIcon(i, workspace.DefaultIcon)
		w.box.Append(button)
	}

	return w
}

// Widget returns the container to pack into the panel.
func (w *Workspaces) Widget() gtk.Widgetter {
	return w.box
}

// SetVisible shows or hides the slot's button.
func (w *Workspaces) SetVisible(id workspace.ID, visible bool) {
	w.onSlot(id, func(i int) {
		w.slots[i].button.SetVisible(visible)
	})
}

// SetInteractive enables or disables the slot's button. A disabled button
// marks the focused workspace.
func (w *Workspaces) SetInteractive(id workspace.ID, interactive bool) {
	w.onSlot(id, func(i int) {
		b := w.slots[i].button
		b.SetSensitive(interactive)
		if interactive {
			b.RemoveCSSClass("active")
		} else {
			b.AddCSSClass("active")
		}
	})
}

// SetIcon shows the application icon for icon, or the idle icon.
func (w *Workspaces) SetIcon(id workspace.ID, icon workspace.Icon) {
	w.onSlot(id, func(i int) {
		w.applyIcon(i, icon)
	})
}

func (w *Workspaces) applyIcon(i int, icon workspace.Icon) {
	image := w.slots[i].image
	if icon.IsDefault() {
		image.AddCSSClass("idle")
		image.SetFromIconName(w.icons.Idle())
		return
	}
	image.RemoveCSSClass("idle")
	image.SetFromIconName(w.icons.Resolve(string(icon)))
}

// onSlot queues fn for slot id on the GTK main loop.
func (w *Workspaces) onSlot(id workspace.ID, fn func(i int)) {
	i := int(id) - 1
	if i < 0 || i >= len(w.slots) {
		w.logger.Warn("ignoring update for unknown workspace slot", "workspace", int(id))
		return
	}
	glib.IdleAdd(func() {
		fn(i)
	})
}
