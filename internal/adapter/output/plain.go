package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"
)

// DefaultPlainTemplate prints a slot's id, a star on the active slot and
// its icon.
const DefaultPlainTemplate = `{{.ID}}{{if .Active}}*{{end}} {{or .Icon "-"}}`

// PlainFormatter formats one line per slot from a text/template.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewPlainFormatter creates a plain formatter. An empty template uses
// DefaultPlainTemplate.
func NewPlainFormatter(opts FormatterOptions) (*PlainFormatter, error) {
	text := opts.Template
	if text == "" {
		text = DefaultPlainTemplate
	}
	tmpl, err := template.New("plain").Funcs(templateFuncs()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return &PlainFormatter{opts: opts, template: tmpl}, nil
}

// Format executes the template once per slot, each on its own line.
func (f *PlainFormatter) Format(w io.Writer, state State) error {
	for _, s := range shown(state, f.opts.All) {
		var sb strings.Builder
		if err := f.template.Execute(&sb, s); err != nil {
			return fmt.Errorf("failed to render slot %d: %w", s.ID, err)
		}
		line := strings.TrimRight(sb.String(), "\n")
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		"classes": func(windows []WindowState) string {
			names := make([]string, len(windows))
			for i, w := range windows {
				names[i] = w.Class
			}
			return strings.Join(names, ",")
		},
	}
}
