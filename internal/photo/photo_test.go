package photo

import (
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
)

func writeJPEG(t *testing.T, path string, w, h int) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h)), nil); err != nil {
		t.Fatal(err)
	}
}

func TestReadMetadataWithoutEXIF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.jpg")
	writeJPEG(t, path, 640, 480)

	meta, err := ReadMetadata(path)
	if err != nil {
		t.Fatalf("Expected read to succeed, got %v", err)
	}

	if meta.Width != 640 || meta.Height != 480 {
		t.Errorf("Expected 640x480, got %dx%d", meta.Width, meta.Height)
	}
	if meta.HasTakenAt {
		t.Error("Expected no capture time without EXIF")
	}
	if meta.HasLocation {
		t.Error("Expected no location without EXIF")
	}
	if meta.CameraModel != "" {
		t.Errorf("Expected no camera model, got %q", meta.CameraModel)
	}
}

func TestReadMetadataErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := ReadMetadata(filepath.Join(dir, "missing.jpg")); err == nil {
		t.Error("Expected error for missing file, got nil")
	}

	garbage := filepath.Join(dir, "garbage.jpg")
	if err := os.WriteFile(garbage, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadMetadata(garbage); err == nil {
		t.Error("Expected error for undecodable file, got nil")
	}
}
