package style

import (
	"log/slog"
	"sync"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
)

// Loader installs the panel CSS on a display and keeps it current.
// Apply, Reload and StartHotReload must be called on the GTK main thread;
// file change callbacks are marshalled there.
type Loader struct {
	mu       sync.Mutex
	logger   *slog.Logger
	provider *gtk.CSSProvider
	path     string
	sheet    *Stylesheet
	watcher  *Watcher
}

// NewLoader creates a loader for the user stylesheet at path. An empty path
// uses the built-in style only.
func NewLoader(path string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:   logger,
		provider: gtk.NewCSSProvider(),
		path:     path,
	}
}

// Reload reads the user stylesheet and loads the composed CSS into the
// provider. A missing or unreadable file falls back to the built-in style.
func (l *Loader) Reload() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.path != "" {
		sheet, err := Load(l.path)
		if err != nil {
			l.logger.Warn("failed to load stylesheet, using built-in style", "path", l.path, "error", err)
			l.sheet = nil
		} else {
			l.sheet = sheet
			l.logger.Info("loaded stylesheet", "path", l.path)
		}
	}
	l.provider.LoadFromString(Compose(l.sheet))
}

// Apply installs the provider on display, or on the default display when
// display is nil.
func (l *Loader) Apply(display *gdk.Display) {
	if display == nil {
		display = gdk.DisplayGetDefault()
	}
	if display == nil {
		l.logger.Warn("no display available, cannot apply style")
		return
	}
	gtk.StyleContextAddProviderForDisplay(
		display,
		l.provider,
		gtk.STYLE_PROVIDER_PRIORITY_APPLICATION,
	)
}

// StartHotReload watches the user stylesheet and reloads it on change.
func (l *Loader) StartHotReload() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.path == "" {
		l.logger.Debug("no user stylesheet, not watching")
		return
	}
	if l.watcher != nil {
		return
	}

	w, err := NewWatcher(l.path, func() {
		glib.IdleAdd(func() {
			l.Reload()
		})
	}, l.logger)
	if err != nil {
		l.logger.Warn("failed to create style watcher", "error", err)
		return
	}
	if err := w.Start(); err != nil {
		l.logger.Warn("failed to start style watcher", "path", l.path, "error", err)
		_ = w.Stop()
		return
	}
	l.watcher = w
}

// StopHotReload stops watching the user stylesheet.
func (l *Loader) StopHotReload() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.watcher != nil {
		_ = l.watcher.Stop()
		l.watcher = nil
	}
}
