package ui

import "strings"

// Table renders rows as space-padded columns with no borders. Cells must be
// plain text: widths are computed with len, so styled cells would misalign.
type Table struct {
	cols  int
	rows  [][]string
	right map[int]bool
	gap   string
}

// NewTable returns a table with the given column count and a two-space gap
// between columns.
func NewTable(cols int) *Table {
	return &Table{cols: cols, right: make(map[int]bool), gap: "  "}
}

// RightAlign right-aligns the given column index, for numeric cells.
func (t *Table) RightAlign(col int) *Table {
	t.right[col] = true
	return t
}

// AddRow appends a row. Missing cells render empty; extras are dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, t.cols)
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// String renders all rows, padding each column to its widest cell. The
// final column of a row is left unpadded so no trailing spaces leak out.
func (t *Table) String() string {
	if len(t.rows) == 0 {
		return ""
	}

	widths := make([]int, t.cols)
	for _, row := range t.rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var sb strings.Builder
	for _, row := range t.rows {
		for i, cell := range row {
			if i > 0 {
				sb.WriteString(t.gap)
			}
			pad := strings.Repeat(" ", widths[i]-len(cell))
			switch {
			case t.right[i]:
				sb.WriteString(pad)
				sb.WriteString(cell)
			case i == len(row)-1:
				sb.WriteString(cell)
			default:
				sb.WriteString(cell)
				sb.WriteString(pad)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
