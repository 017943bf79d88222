package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPlaceholders(t *testing.T) {
	records := Placeholders(3)
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}

	for i, rec := range records {
		if rec.Address != PlaceholderAddress {
			t.Errorf("Expected placeholder address at %d, got %q", i, rec.Address)
		}
		if rec.Latitude != 0 || rec.Longitude != 0 {
			t.Errorf("Expected zero coordinates at %d, got %f,%f", i, rec.Latitude, rec.Longitude)
		}
		if rec.FoundCoordinates {
			t.Errorf("Expected foundCoordinates=false at %d", i)
		}
		if rec.Date != "" || rec.Time != "" {
			t.Errorf("Expected empty date and time at %d, got %q %q", i, rec.Date, rec.Time)
		}
	}
}

func TestLoadImages(t *testing.T) {
	dir := t.TempDir()
	jpg := filepath.Join(dir, "beach.jpg")
	if err := os.WriteFile(jpg, []byte("not-really-a-jpeg"), 0644); err != nil {
		t.Fatal(err)
	}
	png := filepath.Join(dir, "city.PNG")
	if err := os.WriteFile(png, []byte("not-really-a-png"), 0644); err != nil {
		t.Fatal(err)
	}

	images, err := LoadImages([]Source{
		{Name: "beach.jpg", Path: jpg},
		{Name: "city.PNG", Path: png},
	})
	if err != nil {
		t.Fatalf("Expected load to succeed, got %v", err)
	}
	if len(images) != 2 {
		t.Fatalf("Expected 2 images, got %d", len(images))
	}
	if images[0].MIMEType != "image/jpeg" {
		t.Errorf("Expected image/jpeg, got %s", images[0].MIMEType)
	}
	if images[1].MIMEType != "image/png" {
		t.Errorf("Expected image/png for uppercase extension, got %s", images[1].MIMEType)
	}
	if images[0].Name != "beach.jpg" {
		t.Errorf("Expected name beach.jpg, got %s", images[0].Name)
	}
}

func TestLoadImagesMissingFile(t *testing.T) {
	_, err := LoadImages([]Source{
		{Name: "gone.jpg", Path: filepath.Join(t.TempDir(), "gone.jpg")},
	})
	if err == nil {
		t.Fatal("Expected error for missing file, got nil")
	}
	if !strings.Contains(err.Error(), "gone.jpg") {
		t.Errorf("Expected error to name the file, got %v", err)
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(7)

	for _, want := range []string{
		"7 image(s)",
		"exactly 7 object(s)",
		"foundCoordinates",
		"YYYY-MM-DD",
		"OUTPUT FORMAT",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected prompt to contain %q", want)
		}
	}
}
