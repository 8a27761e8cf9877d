package output

import (
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// TableFormatter formats slot state as an aligned table.
type TableFormatter struct {
	opts FormatterOptions
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(opts FormatterOptions) *TableFormatter {
	return &TableFormatter{opts: opts}
}

// Format writes one row per slot.
func (f *TableFormatter) Format(w io.Writer, state State) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Slot", "Visible", "Active", "Icon", "Windows"})
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetColumnSeparator("  ")
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)

	for _, s := range shown(state, f.opts.All) {
		icon := s.Icon
		if icon == "" {
			icon = "-"
		}
		classes := make([]string, len(s.Windows))
		for i, win := range s.Windows {
			classes[i] = win.Class
		}
		table.Append([]string{
			strconv.Itoa(s.ID),
			yesNo(s.Visible),
			yesNo(s.Active),
			icon,
			strings.Join(classes, ", "),
		})
	}

	table.Render()
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
