// Package style loads the panel stylesheet and reloads it when the user's
// CSS file changes.
package style

import (
	"embed"
	"strings"
)

//go:embed styles/*.css
var embeddedStyles embed.FS

// DefaultStyleName is the name of the built-in stylesheet.
const DefaultStyleName = "default"

// Embedded retrieves a bundled stylesheet or partial by name.
// Returns the CSS content and whether it was found.
func Embedded(name string) (string, bool) {
	if !strings.HasSuffix(name, ".css") {
		name += ".css"
	}
	data, err := embeddedStyles.ReadFile("styles/" + name)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// DefaultCSS returns the built-in stylesheet.
func DefaultCSS() string {
	css, _ := Embedded(DefaultStyleName)
	return css
}
