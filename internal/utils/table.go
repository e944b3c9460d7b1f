package utils

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// RenderKeyValueTable prints a titled two-column table
func RenderKeyValueTable(w io.Writer, title string, rows [][2]string) {
	if title != "" {
		fmt.Fprintln(w, Highlight(title))
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Key", "Value"})
	table.SetAutoWrapText(true)
	table.SetColWidth(80)
	table.SetRowLine(false)
	for _, row := range rows {
		table.Append([]string{row[0], row[1]})
	}
	table.Render()
}

// Rule prints a horizontal separator
func Rule(w io.Writer) {
	fmt.Fprintln(w, "────────────────────────────────────────────────────────────────────────────────")
}

// RenderTable prints rows under header
func RenderTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetBorder(true)
	table.AppendBulk(rows)
	table.Render()
}
