package export

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/photopin/photopin/internal/session"
)

const sheetName = "Results"

// BuildXLSX returns an XLSX workbook (as bytes) with one row per result.
// Coordinates are written as signed numeric cells so spreadsheets can sort
// and filter on them; unknown values stay empty.
func BuildXLSX(entries []session.ProcessedImage) ([]byte, error) {
	f := excelize.NewFile()
	if index, _ := f.GetSheetIndex(sheetName); index == -1 {
		if _, err := f.NewSheet(sheetName); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"File Name",
		"Address",
		"Latitude",
		"Longitude",
		"Date",
		"Time",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	row := 2
	for _, entry := range entries {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheetName, cell, v)
		}

		write(1, entry.FileName)
		write(2, entry.Address)
		if entry.Latitude != nil {
			write(3, *entry.Latitude)
		}
		if entry.Longitude != nil {
			write(4, *entry.Longitude)
		}
		write(5, entry.Date)
		write(6, entry.Time)

		row++
	}

	_ = f.SetColWidth(sheetName, "A", "A", 28) // file name
	_ = f.SetColWidth(sheetName, "B", "B", 48) // address
	_ = f.SetColWidth(sheetName, "C", "D", 14) // coordinates
	_ = f.SetColWidth(sheetName, "E", "F", 12) // date, time

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveXLSX writes the workbook for entries to path.
func SaveXLSX(path string, entries []session.ProcessedImage) error {
	data, err := BuildXLSX(entries)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	slog.Info("Saved XLSX export", "path", path, "rows", len(entries))
	return nil
}
