package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	headerStyle = cellStyle.Bold(true)
)

// RenderPretty renders the table with borders. Numeric columns are right
// aligned.
func (t *Table) RenderPretty(w io.Writer, noHeaders bool) error {
	if len(t.Headers) == 0 && len(t.Rows) == 0 {
		return nil
	}
	numeric := t.numericColumns()

	lt := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if numeric[col] {
				return cellStyle.Align(lipgloss.Right)
			}
			return cellStyle
		}).
		Rows(t.Rows...)
	if !noHeaders && len(t.Headers) > 0 {
		lt = lt.Headers(t.Headers...)
	}

	_, err := fmt.Fprintln(w, lt.String())
	return err
}

func (t *Table) numericColumns() map[int]bool {
	out := map[int]bool{}
	if len(t.Rows) == 0 {
		return out
	}
	width := 0
	for _, row := range t.Rows {
		width = max(width, len(row))
	}
	for col := 0; col < width; col++ {
		numeric := true
		for _, row := range t.Rows {
			if col >= len(row) || !isNumber(row[col]) {
				numeric = false
				break
			}
		}
		out[col] = numeric
	}
	return out
}

func isNumber(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
