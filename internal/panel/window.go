package panel

import (
	"log/slog"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/wspanel/internal/config"
	"github.com/jmylchreest/wspanel/internal/workspace"
)

// Namespace is the layer-shell namespace compositors can match rules on.
const Namespace = "wspanel"

// Panel is the panel window and its widgets.
type Panel struct {
	window     *gtk.Window
	workspaces *Workspaces
	power      *PowerIndicator
	clock      *Clock
	logger     *slog.Logger
}

// New builds the panel window. onFocus is called on the GTK main thread
// when a workspace button is clicked; it must not block.
// Must be called on the GTK main thread.
func New(app *gtk.Application, cfg *config.Config, onFocus func(workspace.ID), logger *slog.Logger) *Panel {
	if logger == nil {
		logger = slog.Default()
	}

	p := &Panel{logger: logger}

	p.window = gtk.NewWindow()
	p.window.SetApplication(app)
	p.window.SetDecorated(false)
	p.window.SetResizable(false)
	p.window.AddCSSClass("wspanel")
	p.window.AddCSSClass(colorSchemeClass())

	layershell.InitForWindow(p.window)
	layershell.SetNamespace(p.window, Namespace)
	layershell.SetLayer(p.window, layerFor(config.Layer(cfg.Panel.Layer)))
	layershell.SetKeyboardMode(p.window, layershell.LayerShellKeyboardModeNone)
	for edge, anchored := range anchorsFor(config.Edge(cfg.Panel.Edge)) {
		layershell.SetAnchor(p.window, edge, anchored)
	}
	layershell.AutoExclusiveZoneEnable(p.window)

	box := gtk.NewBox(gtk.OrientationVertical, 0)
	box.AddCSSClass("wspanel-box")

	icons := NewIconResolver(cfg.Workspaces.DefaultIcon)
	p.workspaces = NewWorkspaces(cfg.Workspaces.Count, cfg.Workspaces.IconSize, icons, onFocus, logger)
	box.Append(p.workspaces.Widget())

	spacer := gtk.NewBox(gtk.OrientationVertical, 0)
	spacer.SetVExpand(true)
	box.Append(spacer)

	if cfg.Power.Enabled {
		p.power = NewPowerIndicator(cfg.Power.IconSize)
		box.Append(p.power.Widget())
	}

	if cfg.Panel.ClockFormat != "" {
		p.clock = NewClock(cfg.Panel.ClockFormat)
		box.Append(p.clock.Widget())
	}

	p.window.SetChild(box)
	return p
}

// Workspaces returns the workspace column, which implements workspace.Sink.
func (p *Panel) Workspaces() *Workspaces {
	return p.workspaces
}

// Power returns the battery indicator, or nil when disabled.
func (p *Panel) Power() *PowerIndicator {
	return p.power
}

// Present shows the window and starts the clock.
func (p *Panel) Present() {
	if p.clock != nil {
		p.clock.Start()
	}
	p.window.Present()
	p.logger.Debug("panel presented")
}

// Close stops the clock and destroys the window.
func (p *Panel) Close() {
	if p.clock != nil {
		p.clock.Stop()
	}
	p.window.Destroy()
}

// anchorsFor returns the layer-shell anchors for a panel spanning the full
// height of the given edge.
func anchorsFor(edge config.Edge) map[layershell.LayerShellEdge]bool {
	return map[layershell.LayerShellEdge]bool{
		layershell.LayerShellEdgeTop:    true,
		layershell.LayerShellEdgeBottom: true,
		layershell.LayerShellEdgeLeft:   edge != config.EdgeRight,
		layershell.LayerShellEdgeRight:  edge == config.EdgeRight,
	}
}

func layerFor(layer config.Layer) layershell.LayerShellLayer {
	switch layer {
	case config.LayerBottom:
		return layershell.LayerShellLayerBottom
	case config.LayerOverlay:
		return layershell.LayerShellLayerOverlay
	default:
		return layershell.LayerShellLayerTop
	}
}

// colorSchemeClass checks libadwaita for the system dark mode preference.
func colorSchemeClass() string {
	if adw.StyleManagerGetDefault().Dark() {
		return "dark"
	}
	return "light"
}
