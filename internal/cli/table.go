package cli

import (
	"strings"
)

// RenderTable renders a simple fixed-width table with a styled header row.
func RenderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len([]rune(h))
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len([]rune(cell)) > widths[i] {
				widths[i] = len([]rune(cell))
			}
		}
	}

	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render(joinPadded(headers, widths)))
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(TableCellStyle.Render(joinPadded(row, widths)))
		b.WriteString("\n")
	}
	return b.String()
}

func joinPadded(cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		w := 0
		if i < len(widths) {
			w = widths[i]
		}
		pad := w - len([]rune(cell))
		if pad < 0 {
			pad = 0
		}
		padded[i] = cell + strings.Repeat(" ", pad)
	}
	return strings.Join(padded, "  ")
}
