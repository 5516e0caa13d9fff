package display

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// cellGap is the blank space after every column.
const cellGap = 2

// Table is a borderless grid with a rule under the header, indented two
// cells. One row may be highlighted, e.g. today in a multi-day listing.
type Table struct {
	headers   []string
	rows      [][]string
	highlight int // -1 = none
}

// NewTable creates a new table with the given column headers.
func NewTable(headers []string) *Table {
	return &Table{headers: headers, highlight: -1}
}

// AddRow appends a row. Missing trailing cells render empty.
func (t *Table) AddRow(values []string) {
	row := make([]string, len(t.headers))
	copy(row, values)
	t.rows = append(t.rows, row)
}

// SetHighlightRow marks the 0-based row idx for the accent style.
func (t *Table) SetHighlightRow(idx int) {
	t.highlight = idx
}

// Render returns the table followed by a newline, or "" without headers.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	cell := renderer.NewStyle().PaddingRight(cellGap)
	header := cell.Bold(true)
	accent := cell.Bold(true).Foreground(colorCyan)

	out := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.dim).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderHeader(true).
		Headers(t.headers...).
		Rows(t.rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch row {
			case table.HeaderRow:
				return header
			case t.highlight:
				return accent
			}
			return cell
		}).
		String()

	var sb strings.Builder
	for _, line := range strings.Split(out, "\n") {
		sb.WriteString("  " + strings.TrimRight(line, " ") + "\n")
	}
	return sb.String()
}
