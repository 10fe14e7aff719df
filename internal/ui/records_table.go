package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Alignment represents column text alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCenter
)

// ColumnDef defines a column in a RecordsTable.
type ColumnDef struct {
	Name       string         // Header name (used for width lookup, not displayed)
	WidthRatio float64        // Proportion of available width (0.0-1.0), 0 means fixed width
	MinWidth   int            // Minimum width in characters
	MaxWidth   int            // Maximum width (0 = no limit)
	Align      Alignment      // Text alignment
	Style      lipgloss.Style // Style to apply to cells in this column
}

// RecordRow represents a single row in the records table.
type RecordRow struct {
	Num   int      // Row number (1-indexed)
	Cells []string // Cell values for each column
}

// RecordsTable renders spawn records in aligned columns sized to the terminal.
type RecordsTable struct {
	display *DisplayContext
	columns []ColumnDef
	rows    []RecordRow
}

// Standard column definitions shared across record listings.
var (
	// ColNum is the row number column (fixed width, right-aligned, muted).
	ColNum = ColumnDef{
		Name:     "num",
		MinWidth: 4,
		MaxWidth: 6,
		Align:    AlignRight,
		Style:    Muted,
	}

	// ColSelector is the folder-path:order selector column (accented).
	ColSelector = ColumnDef{
		Name:       "selector",
		WidthRatio: 0.35,
		MinWidth:   16,
		MaxWidth:   50,
		Align:      AlignLeft,
		Style:      Accent,
	}

	// ColKind is the record kind column (actor/prop).
	ColKind = ColumnDef{
		Name:     "kind",
		MinWidth: 5,
		MaxWidth: 5,
		Align:    AlignLeft,
		Style:    Muted,
	}

	// ColType is the entity type column.
	ColType = ColumnDef{
		Name:       "type",
		WidthRatio: 0.25,
		MinWidth:   12,
		MaxWidth:   32,
		Align:      AlignLeft,
	}

	// ColPlacement is the position/orientation summary column.
	ColPlacement = ColumnDef{
		Name:       "placement",
		WidthRatio: 0.40,
		MinWidth:   20,
		MaxWidth:   60,
		Align:      AlignLeft,
		Style:      Muted,
	}

	// ColFile is the catalog file column used in cross-catalog listings.
	ColFile = ColumnDef{
		Name:       "file",
		WidthRatio: 0.25,
		MinWidth:   12,
		MaxWidth:   36,
		Align:      AlignLeft,
		Style:      Muted,
	}
)

// Standard layouts for record listings.
var (
	// RecordLayout is used for single-catalog listings: [num, selector, kind, type, placement]
	RecordLayout = []ColumnDef{ColNum, ColSelector, ColKind, ColType, ColPlacement}

	// QueryLayout is used for cross-catalog query results: [num, file, selector, kind, type, placement]
	QueryLayout = []ColumnDef{ColNum, ColFile, ColSelector, ColKind, ColType, ColPlacement}
)

// NewRecordsTable creates a RecordsTable with the given display context and column layout.
func NewRecordsTable(display *DisplayContext, columns []ColumnDef) *RecordsTable {
	return &RecordsTable{
		display: display,
		columns: columns,
		rows:    make([]RecordRow, 0),
	}
}

// AddRow adds a row to the table.
func (t *RecordsTable) AddRow(row RecordRow) {
	t.rows = append(t.rows, row)
}

// ColumnWidth returns the calculated width for a column by name, so callers
// can truncate cell content to what will actually fit.
func (t *RecordsTable) ColumnWidth(columnName string) int {
	widths := t.calculateWidths()
	for i, col := range t.columns {
		if col.Name == columnName {
			return widths[i]
		}
	}
	return 60 // fallback
}

// calculateWidths computes column widths based on terminal size and column definitions.
func (t *RecordsTable) calculateWidths() []int {
	widths := make([]int, len(t.columns))

	// First pass: fixed widths and total ratio.
	var totalRatio float64
	var fixedWidth int
	const columnPadding = 2

	for i, col := range t.columns {
		if col.WidthRatio == 0 {
			widths[i] = col.MinWidth
			if col.MaxWidth > 0 && widths[i] > col.MaxWidth {
				widths[i] = col.MaxWidth
			}
			fixedWidth += widths[i]
		} else {
			totalRatio += col.WidthRatio
		}
	}

	totalPadding := (len(t.columns) - 1) * columnPadding
	leftMargin := 2
	available := t.display.TermWidth - fixedWidth - totalPadding - leftMargin
	if available < 0 {
		available = 0
	}

	// Second pass: distribute available space by ratio.
	for i, col := range t.columns {
		if col.WidthRatio > 0 {
			ratio := col.WidthRatio / totalRatio
			width := int(float64(available) * ratio)

			if width < col.MinWidth {
				width = col.MinWidth
			}
			if col.MaxWidth > 0 && width > col.MaxWidth {
				width = col.MaxWidth
			}

			widths[i] = width
		}
	}

	return widths
}

// Render generates the table output as a string.
func (t *RecordsTable) Render() string {
	if len(t.rows) == 0 {
		return ""
	}

	widths := t.calculateWidths()

	tableRows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		tableRow := make([]string, len(t.columns))
		for j := range t.columns {
			if j < len(row.Cells) {
				tableRow[j] = row.Cells[j]
			}
		}
		tableRows[i] = tableRow
	}

	tbl := table.New().
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderRow(false).
		BorderColumn(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col >= len(t.columns) {
				return lipgloss.NewStyle()
			}

			colDef := t.columns[col]
			style := colDef.Style
			if style.Value() == "" {
				style = lipgloss.NewStyle()
			}

			style = style.Width(widths[col])

			switch colDef.Align {
			case AlignRight:
				style = style.Align(lipgloss.Right)
			case AlignCenter:
				style = style.Align(lipgloss.Center)
			default:
				style = style.Align(lipgloss.Left)
			}

			if col < len(t.columns)-1 {
				style = style.PaddingRight(2)
			}

			return style
		}).
		Rows(tableRows...)

	return tbl.Render()
}

// TruncateWithEllipsis truncates a string to maxLen, adding ellipsis if needed.
func TruncateWithEllipsis(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// FormatRowNum formats a row number with consistent width.
func FormatRowNum(num, maxNum int) string {
	width := len(fmt.Sprintf("%d", maxNum))
	if width < 2 {
		width = 2
	}
	return fmt.Sprintf("%*d", width, num)
}

// FormatPlacement renders a position triple plus an optional angle suffix
// the way record listings display them.
func FormatPlacement(x, y, z float64, suffix string) string {
	var sb strings.Builder
	sb.WriteString(trimFloat(x))
	sb.WriteString(", ")
	sb.WriteString(trimFloat(y))
	sb.WriteString(", ")
	sb.WriteString(trimFloat(z))
	if suffix != "" {
		sb.WriteString("  ")
		sb.WriteString(suffix)
	}
	return sb.String()
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.3f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s
}
