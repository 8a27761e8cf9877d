package output

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats slot state as YAML.
type YAMLFormatter struct {
	opts FormatterOptions
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(opts FormatterOptions) *YAMLFormatter {
	return &YAMLFormatter{opts: opts}
}

// Format writes state as a YAML document.
func (f *YAMLFormatter) Format(w io.Writer, state State) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(filtered(state, f.opts.All)); err != nil {
		return err
	}
	return encoder.Close()
}
