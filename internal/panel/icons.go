package panel

import (
	"strings"
	"sync"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
)

// FallbackIcon is shown for window classes no icon can be found for.
const FallbackIcon = "application-x-executable"

// IconResolver maps window classes to icon theme names. Results are cached
// per class. Only use it on the GTK main thread.
type IconResolver struct {
	idle  string
	mu    sync.Mutex
	cache map[string]string
	has   func(name string) bool
}

// NewIconResolver creates a resolver that uses idle for empty slots.
func NewIconResolver(idle string) *IconResolver {
	r := &IconResolver{
		idle:  idle,
		cache: make(map[string]string),
	}
	r.has = r.themeHas
	return r
}

// Idle returns the icon name for slots without a window.
func (r *IconResolver) Idle() string {
	return r.idle
}

// Resolve returns the first candidate for class present in the icon theme,
// or FallbackIcon.
func (r *IconResolver) Resolve(class string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name, ok := r.cache[class]; ok {
		return name
	}

	name := FallbackIcon
	for _, c := range iconCandidates(class) {
		if r.has(c) {
			name = c
			break
		}
	}
	r.cache[class] = name
	return name
}

func (r *IconResolver) themeHas(name string) bool {
	display := gdk.DisplayGetDefault()
	if display == nil {
		return false
	}
	return gtk.IconThemeGetForDisplay(display).HasIcon(name)
}

// iconCandidates lists icon names to try for a window class, most specific
// first: the class itself, lowercased, the last reverse-DNS component
// ("org.gnome.Nautilus" -> "nautilus") and dashes for spaces.
func iconCandidates(class string) []string {
	class = strings.TrimSpace(class)
	if class == "" {
		return nil
	}

	var out []string
	seen := make(map[string]bool)
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	lower := strings.ToLower(class)
	add(class)
	add(lower)
	if i := strings.LastIndex(lower, "."); i >= 0 && i < len(lower)-1 {
		add(lower[i+1:])
	}
	add(strings.ReplaceAll(lower, " ", "-"))
	return out
}
