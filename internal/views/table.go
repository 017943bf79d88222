package views

import (
	"fmt"
	"io"
	"strings"

	"github.com/photopin/photopin/internal/export"
	"github.com/photopin/photopin/internal/session"
)

var tableHeader = []string{"File Name", "Address", "Latitude", "Longitude", "Date", "Time"}

// RenderTable writes result rows as an aligned text table with one line
// per photo. Unknown coordinates and missing dates stay blank.
func RenderTable(w io.Writer, entries []session.ProcessedImage) {
	rows := make([][]string, 0, len(entries))
	located := 0
	for _, entry := range entries {
		if entry.Latitude != nil && entry.Longitude != nil {
			located++
		}
		rows = append(rows, []string{
			entry.FileName,
			entry.Address,
			export.FormatLatitude(entry.Latitude),
			export.FormatLongitude(entry.Longitude),
			entry.Date,
			entry.Time,
		})
	}

	widths := make([]int, len(tableHeader))
	for i, h := range tableHeader {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	total := 2 * (len(widths) - 1)
	for _, width := range widths {
		total += width
	}
	separator := strings.Repeat("=", total)

	fmt.Fprintln(w, separator)
	printRow(w, tableHeader, widths)
	fmt.Fprintln(w, separator)
	for _, row := range rows {
		printRow(w, row, widths)
	}
	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "%d photo(s), %d with coordinates\n", len(entries), located)
}

func printRow(w io.Writer, row []string, widths []int) {
	cells := make([]string, len(row))
	for i, cell := range row {
		cells[i] = fmt.Sprintf("%-*s", widths[i], cell)
	}
	fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " "))
}
