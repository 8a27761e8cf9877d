package style

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// importRegex matches @import "file.css"; or @import 'file.css'; or @import url("file.css");
var importRegex = regexp.MustCompile(`@import\s+(?:url\s*\(\s*)?["']([^"']+)["']\s*\)?;?`)

// Stylesheet is a user CSS file with its imports inlined.
type Stylesheet struct {
	Path    string
	CSS     string
	ModTime time.Time
}

// Load reads the stylesheet at path.
func Load(path string) (*Stylesheet, error) {
	s := &Stylesheet{Path: path}
	if _, err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the file. It returns true if the processed CSS changed.
func (s *Stylesheet) Reload() (bool, error) {
	info, err := os.Stat(s.Path)
	if err != nil {
		return false, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return false, err
	}

	css := ProcessImports(string(data), filepath.Dir(s.Path), nil)
	changed := css != s.CSS
	s.CSS = css
	s.ModTime = info.ModTime()
	return changed, nil
}

// Compose returns the CSS to install: the built-in style followed by the
// user stylesheet, if any.
func Compose(user *Stylesheet) string {
	if user == nil || user.CSS == "" {
		return DefaultCSS()
	}
	return DefaultCSS() + "\n/* " + user.Path + " */\n" + user.CSS
}

// ProcessImports resolves and inlines @import statements in CSS.
// Imports are resolved relative to baseDir; names not found on disk fall
// back to the bundled styles. The seen map prevents circular imports.
func ProcessImports(css string, baseDir string, seen map[string]bool) string {
	if seen == nil {
		seen = make(map[string]bool)
	}

	return importRegex.ReplaceAllStringFunc(css, func(match string) string {
		submatch := importRegex.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}
		importPath := submatch[1]

		fullPath := importPath
		if !filepath.IsAbs(importPath) {
			fullPath = filepath.Join(baseDir, importPath)
		}

		if seen[fullPath] {
			return "/* circular import prevented: " + importPath + " */"
		}
		seen[fullPath] = true

		imported, err := os.ReadFile(fullPath)
		if err != nil {
			name := strings.TrimSuffix(filepath.Base(importPath), ".css")
			if bundled, found := Embedded(name); found {
				return "/* imported (embedded): " + importPath + " */\n" + bundled
			}
			return "/* import failed: " + importPath + " - " + err.Error() + " */"
		}

		processed := ProcessImports(string(imported), filepath.Dir(fullPath), seen)
		return "/* imported: " + importPath + " */\n" + processed
	})
}
