package ingest

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestCollectDir(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.jpg"))
	touch(t, filepath.Join(dir, "a.png"))
	touch(t, filepath.Join(dir, "notes.txt"))
	touch(t, filepath.Join(dir, "trip", "c.JPEG"))
	touch(t, filepath.Join(dir, ".cache", "d.jpg"))

	files, err := CollectDir(dir)
	if err != nil {
		t.Fatalf("Expected collect to succeed, got %v", err)
	}

	expected := []string{"a.png", "b.jpg", "c.JPEG"}
	if len(files) != len(expected) {
		t.Fatalf("Expected %d files, got %d: %+v", len(expected), len(files), files)
	}
	for i, name := range expected {
		if files[i].Name != name {
			t.Errorf("Expected file %d to be %s, got %s", i, name, files[i].Name)
		}
	}
}

func TestFromPaths(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "solo.jpg"))
	touch(t, filepath.Join(dir, "album", "one.png"))
	touch(t, filepath.Join(dir, "album", "two.webp"))

	files, err := FromPaths([]string{
		filepath.Join(dir, "solo.jpg"),
		filepath.Join(dir, "album"),
	})
	if err != nil {
		t.Fatalf("Expected resolve to succeed, got %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("Expected 3 files, got %d", len(files))
	}
	if files[0].Name != "solo.jpg" || files[1].Name != "one.png" || files[2].Name != "two.webp" {
		t.Errorf("Expected explicit file first then album contents, got %+v", files)
	}
}

func TestFromPathsErrors(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "notes.txt"))

	if _, err := FromPaths([]string{filepath.Join(dir, "missing.jpg")}); err == nil {
		t.Error("Expected error for missing path, got nil")
	}
	if _, err := FromPaths([]string{filepath.Join(dir, "notes.txt")}); err == nil {
		t.Error("Expected error for unsupported type, got nil")
	}
}

func TestFetchStagesRemoteImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		if _, err := w.Write([]byte("jpeg-bytes")); err != nil {
			t.Error(err)
		}
	}))
	defer server.Close()

	dir := t.TempDir()
	file, err := NewFetcher().Fetch(context.Background(), server.URL+"/photos/beach.jpg", dir)
	if err != nil {
		t.Fatalf("Expected fetch to succeed, got %v", err)
	}

	if file.Name != "beach.jpg" {
		t.Errorf("Expected name from URL path, got %s", file.Name)
	}
	data, err := os.ReadFile(file.Path)
	if err != nil {
		t.Fatalf("Expected staged file, got %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Errorf("Expected body written verbatim, got %q", data)
	}

	// Same URL again must not overwrite the first staging.
	second, err := NewFetcher().Fetch(context.Background(), server.URL+"/photos/beach.jpg", dir)
	if err != nil {
		t.Fatal(err)
	}
	if second.Path == file.Path {
		t.Errorf("Expected unique staging path, got duplicate %s", second.Path)
	}
}

func TestFetchToExactPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		if _, err := w.Write([]byte("jpeg-bytes")); err != nil {
			t.Error(err)
		}
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "nested", "images", "eiffel.jpg")
	if err := NewFetcher().FetchTo(context.Background(), server.URL+"/photos/beach.jpg", dest); err != nil {
		t.Fatalf("Expected fetch to succeed, got %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("Expected the file at the exact path, got %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Errorf("Expected body written verbatim, got %q", data)
	}
}

func TestFetchToRejectsNonImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		if _, err := w.Write([]byte("<html></html>")); err != nil {
			t.Error(err)
		}
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "page.jpg")
	if err := NewFetcher().FetchTo(context.Background(), server.URL, dest); err == nil {
		t.Fatal("Expected an error, got nil")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("Expected no file written for a rejected response")
	}
}

func TestFetchNamesExtensionlessDownloads(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		if _, err := w.Write([]byte("png-bytes")); err != nil {
			t.Error(err)
		}
	}))
	defer server.Close()

	file, err := NewFetcher().Fetch(context.Background(), server.URL+"/render/12345", t.TempDir())
	if err != nil {
		t.Fatalf("Expected fetch to succeed, got %v", err)
	}
	if file.Name != "12345.png" {
		t.Errorf("Expected extension from content type, got %s", file.Name)
	}
}

func TestFetchRejections(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-image content type",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				_, _ = w.Write([]byte("<html>not found</html>"))
			},
		},
		{
			name: "error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "gone", http.StatusNotFound)
			},
		},
		{
			name: "empty body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "image/jpeg")
			},
		},
		{
			name: "oversized body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "image/jpeg")
				chunk := bytes.Repeat([]byte("x"), 1024)
				for i := 0; i < 10*1024+1; i++ {
					if _, err := w.Write(chunk); err != nil {
						return
					}
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			if _, err := NewFetcher().Fetch(context.Background(), server.URL+"/a.jpg", t.TempDir()); err == nil {
				t.Error("Expected fetch to fail, got nil")
			}
		})
	}
}
