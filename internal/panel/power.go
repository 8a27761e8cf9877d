package panel

import (
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/wspanel/internal/power"
)

// PowerIndicator shows UPower's icon for the battery. It implements
// power.Sink.
type PowerIndicator struct {
	image *gtk.Image
}

var _ power.Sink = (*PowerIndicator)(nil)

// NewPowerIndicator creates the indicator. Must be called on the GTK main
// thread.
func NewPowerIndicator(iconSize int) *PowerIndicator {
	image := gtk.NewImage()
	image.AddCSSClass("power")
	image.SetPixelSize(iconSize)
	image.SetVisible(false)
	return &PowerIndicator{image: image}
}

// Widget returns the image to pack into the panel.
func (p *PowerIndicator) Widget() gtk.Widgetter {
	return p.image
}

// SetPowerIcon shows name. An empty name hides the indicator.
func (p *PowerIndicator) SetPowerIcon(name string) {
	glib.IdleAdd(func() {
		if name == "" {
			p.image.SetVisible(false)
			return
		}
		p.image.SetFromIconName(name)
		p.image.SetTooltipText(name)
		p.image.SetVisible(true)
	})
}
