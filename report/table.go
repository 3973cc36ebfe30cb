package report

import (
	"fmt"
	"io"
	"strings"
)

// FormatFunc is a callback to colorize cell values
type FormatFunc func(value string) string

// ColumnSpec defines a column's properties
type ColumnSpec struct {
	Header     string
	BlankValue string     // Value to show for empty cells (default: "-")
	FormatFunc FormatFunc // Optional colorizer, applied after width is measured
	MinWidth   int
	MaxWidth   int // Longer values are truncated; zero means unbounded
}

// Table accumulates rows and renders them column aligned
type Table struct {
	columns []ColumnSpec
	rows    [][]string
	widths  []int
}

// NewTable creates a new table with the given column specifications
func NewTable(cols ...ColumnSpec) *Table {
	t := &Table{
		columns: cols,
		widths:  make([]int, len(cols)),
	}

	for i := range t.columns {
		if t.columns[i].BlankValue == "" {
			t.columns[i].BlankValue = "-"
		}
		t.widths[i] = max(t.columns[i].MinWidth, len(t.columns[i].Header))
	}

	return t
}

// AddRow adds a row. Missing trailing cells take the column's blank value.
func (t *Table) AddRow(data ...string) {
	row := make([]string, len(t.columns))
	for i := range row {
		val := ""
		if i < len(data) {
			val = data[i]
		}
		if val == "" {
			val = t.columns[i].BlankValue
		}
		if limit := t.columns[i].MaxWidth; limit > 0 && visibleLength(val) > limit {
			val = truncate(val, limit)
		}
		row[i] = val
		t.widths[i] = max(t.widths[i], visibleLength(val))
	}

	t.rows = append(t.rows, row)
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.rows)
}

// Render writes the header, a dashed rule and every row to w
func (t *Table) Render(w io.Writer) error {
	headers := make([]string, len(t.columns))
	rule := make([]string, len(t.columns))
	for i, col := range t.columns {
		headers[i] = pad(col.Header, t.widths[i])
		rule[i] = strings.Repeat("-", t.widths[i])
	}
	if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(headers, " "), " ")); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, strings.Join(rule, " ")); err != nil {
		return err
	}

	for _, row := range t.rows {
		formatted := make([]string, len(row))
		for i, val := range row {
			display := val
			if f := t.columns[i].FormatFunc; f != nil && val != t.columns[i].BlankValue {
				display = f(val)
			}
			// Pad against the uncolored value; escape codes take no columns.
			formatted[i] = display + strings.Repeat(" ", t.widths[i]-visibleLength(val))
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(formatted, " "), " ")); err != nil {
			return err
		}
	}

	return nil
}

func pad(s string, width int) string {
	n := visibleLength(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if limit <= 1 || len(runes) <= limit {
		return string(runes[:min(limit, len(runes))])
	}
	return string(runes[:limit-1]) + "…"
}

// visibleLength counts runes outside of ANSI SGR sequences
func visibleLength(s string) int {
	length := 0
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\033':
			inEscape = true
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		default:
			length++
		}
	}
	return length
}
