package export

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/photopin/photopin/internal/session"
)

func TestBuildXLSX(t *testing.T) {
	entries := []session.ProcessedImage{
		{
			FileName:  "eiffel.jpg",
			Address:   "Champ de Mars, Paris, France",
			Latitude:  coord(48.858093),
			Longitude: coord(2.294694),
			Date:      "2023-07-14",
			Time:      "18:30",
		},
		{
			FileName: "mystery.png",
			Address:  "Error processing image",
		},
	}

	data, err := BuildXLSX(entries)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Expected a readable workbook, got %v", err)
	}
	defer f.Close()

	wantHeader := []string{"File Name", "Address", "Latitude", "Longitude", "Date", "Time"}
	for i, want := range wantHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		got, err := f.GetCellValue("Results", cell)
		if err != nil {
			t.Fatalf("Expected no error reading %s, got %v", cell, err)
		}
		if got != want {
			t.Errorf("Expected header %q in %s, got %q", want, cell, got)
		}
	}

	cellValue := func(cell string) string {
		t.Helper()
		got, err := f.GetCellValue("Results", cell)
		if err != nil {
			t.Fatalf("Expected no error reading %s, got %v", cell, err)
		}
		return got
	}

	if got := cellValue("A2"); got != "eiffel.jpg" {
		t.Errorf("Expected eiffel.jpg, got %q", got)
	}
	if got := cellValue("B2"); got != "Champ de Mars, Paris, France" {
		t.Errorf("Expected address, got %q", got)
	}
	lat, err := strconv.ParseFloat(cellValue("C2"), 64)
	if err != nil {
		t.Fatalf("Expected a numeric latitude, got %v", err)
	}
	if math.Abs(lat-48.858093) > 1e-6 {
		t.Errorf("Expected 48.858093, got %v", lat)
	}
	lng, err := strconv.ParseFloat(cellValue("D2"), 64)
	if err != nil {
		t.Fatalf("Expected a numeric longitude, got %v", err)
	}
	if math.Abs(lng-2.294694) > 1e-6 {
		t.Errorf("Expected 2.294694, got %v", lng)
	}
	if got := cellValue("E2"); got != "2023-07-14" {
		t.Errorf("Expected 2023-07-14, got %q", got)
	}
	if got := cellValue("F2"); got != "18:30" {
		t.Errorf("Expected 18:30, got %q", got)
	}

	if got := cellValue("C3"); got != "" {
		t.Errorf("Expected empty latitude cell, got %q", got)
	}
	if got := cellValue("D3"); got != "" {
		t.Errorf("Expected empty longitude cell, got %q", got)
	}
}

func TestSaveXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.xlsx")
	entries := []session.ProcessedImage{
		{FileName: "a.jpg", Address: "Somewhere"},
	}
	if err := SaveXLSX(path, entries); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Expected the workbook on disk, got %v", err)
	}
	if info.Size() == 0 {
		t.Error("Expected a non-empty workbook")
	}
}
