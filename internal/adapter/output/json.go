package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter formats slot state as JSON.
type JSONFormatter struct {
	opts FormatterOptions
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(opts FormatterOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Format writes state as an indented JSON object.
func (f *JSONFormatter) Format(w io.Writer, state State) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(filtered(state, f.opts.All))
}
