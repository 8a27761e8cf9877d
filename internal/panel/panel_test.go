package panel

import (
	"testing"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/wspanel/internal/config"
)

func TestIconCandidates(t *testing.T) {
	tests := []struct {
		class    string
		expected []string
	}{
		{"firefox", []string{"firefox"}},
		{"Firefox", []string{"Firefox", "firefox"}},
		{"org.gnome.Nautilus", []string{"org.gnome.Nautilus", "org.gnome.nautilus", "nautilus"}},
		{"Google Chrome", []string{"Google Chrome", "google chrome", "google-chrome"}},
		{"trailing.", []string{"trailing."}},
		{"  ", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			assert.Equal(t, tt.expected, iconCandidates(tt.class))
		})
	}
}

func TestIconResolver_Resolve(t *testing.T) {
	theme := map[string]bool{
		"nautilus":      true,
		"google-chrome": true,
	}
	var lookups int

	r := NewIconResolver("display")
	r.has = func(name string) bool {
		lookups++
		return theme[name]
	}

	assert.Equal(t, "display", r.Idle())
	assert.Equal(t, "nautilus", r.Resolve("org.gnome.Nautilus"))
	assert.Equal(t, "google-chrome", r.Resolve("Google Chrome"))
	assert.Equal(t, FallbackIcon, r.Resolve("xterm"))

	before := lookups
	assert.Equal(t, "nautilus", r.Resolve("org.gnome.Nautilus"))
	assert.Equal(t, before, lookups, "second lookup should hit the cache")
}

func TestAnchorsFor(t *testing.T) {
	left := anchorsFor(config.EdgeLeft)
	assert.True(t, left[layershell.LayerShellEdgeTop])
	assert.True(t, left[layershell.LayerShellEdgeBottom])
	assert.True(t, left[layershell.LayerShellEdgeLeft])
	assert.False(t, left[layershell.LayerShellEdgeRight])

	right := anchorsFor(config.EdgeRight)
	assert.False(t, right[layershell.LayerShellEdgeLeft])
	assert.True(t, right[layershell.LayerShellEdgeRight])
}

func TestLayerFor(t *testing.T) {
	assert.Equal(t, layershell.LayerShellLayerBottom, layerFor(config.LayerBottom))
	assert.Equal(t, layershell.LayerShellLayerTop, layerFor(config.LayerTop))
	assert.Equal(t, layershell.LayerShellLayerOverlay, layerFor(config.LayerOverlay))
	assert.Equal(t, layershell.LayerShellLayerTop, layerFor("unknown"))
}

func TestStackLayout(t *testing.T) {
	assert.Equal(t, "15\n04", stackLayout("15:04"))
	assert.Equal(t, "15\n04\n05", stackLayout("15:04:05"))
	assert.Equal(t, "Mon", stackLayout("Mon"))
}
