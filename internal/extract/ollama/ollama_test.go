package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/photopin/photopin/internal/extract"
)

func writeTestImages(t *testing.T, n int) []extract.Source {
	t.Helper()

	dir := t.TempDir()
	sources := make([]extract.Source, n)
	for i := range sources {
		name := filepath.Join(dir, "photo"+string(rune('a'+i))+".jpg")
		if err := os.WriteFile(name, []byte("jpeg-bytes"), 0644); err != nil {
			t.Fatal(err)
		}
		sources[i] = extract.Source{Name: filepath.Base(name), Path: name}
	}
	return sources
}

func TestExtractBatchDecodesResponse(t *testing.T) {
	var gotImages int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model  string   `json:"model"`
			Prompt string   `json:"prompt"`
			Images []string `json:"images"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Expected decodable request, got %v", err)
		}
		gotImages = len(req.Images)

		body := `[
			{"address": "Brandenburg Gate, Berlin", "latitude": 52.516275, "longitude": 13.377704, "date": "2021-10-03", "time": "11:30", "foundCoordinates": false},
			{"address": "Machu Picchu, Peru", "latitude": -13.163141, "longitude": -72.544963, "date": "", "time": "", "foundCoordinates": true}
		]`
		if err := json.NewEncoder(w).Encode(map[string]string{"response": body}); err != nil {
			t.Errorf("Expected encodable response, got %v", err)
		}
	}))
	defer server.Close()
	t.Setenv("OLLAMA_URL", server.URL)

	sources := writeTestImages(t, 2)
	records, err := New("llava").ExtractBatch(context.Background(), sources)
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}

	if gotImages != 2 {
		t.Errorf("Expected 2 encoded images in request, got %d", gotImages)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].Address != "Brandenburg Gate, Berlin" {
		t.Errorf("Expected first record decoded, got %q", records[0].Address)
	}
	if records[1].Latitude != -13.163141 {
		t.Errorf("Expected southern latitude preserved, got %f", records[1].Latitude)
	}
}

func TestExtractBatchServerErrorYieldsPlaceholders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusInternalServerError)
	}))
	defer server.Close()
	t.Setenv("OLLAMA_URL", server.URL)

	sources := writeTestImages(t, 3)
	records, err := New("llava").ExtractBatch(context.Background(), sources)
	if err != nil {
		t.Fatalf("Expected server error to be absorbed, got %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	for i, rec := range records {
		if rec.Address != extract.PlaceholderAddress || rec.FoundCoordinates {
			t.Errorf("Expected placeholder at %d, got %+v", i, rec)
		}
	}
}

func TestExtractBatchUnreachableHostYieldsPlaceholders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()
	t.Setenv("OLLAMA_URL", server.URL)

	sources := writeTestImages(t, 1)
	records, err := New("llava").ExtractBatch(context.Background(), sources)
	if err != nil {
		t.Fatalf("Expected transport error to be absorbed, got %v", err)
	}
	if len(records) != 1 || records[0].Address != extract.PlaceholderAddress {
		t.Errorf("Expected a single placeholder, got %+v", records)
	}
}

func TestExtractBatchWrongCountIsPadded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := `[{"address": "a", "latitude": 1, "longitude": 2, "foundCoordinates": true}]`
		if err := json.NewEncoder(w).Encode(map[string]string{"response": body}); err != nil {
			t.Errorf("Expected encodable response, got %v", err)
		}
	}))
	defer server.Close()
	t.Setenv("OLLAMA_URL", server.URL)

	sources := writeTestImages(t, 3)
	records, err := New("llava").ExtractBatch(context.Background(), sources)
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	if records[0].Address != "a" {
		t.Errorf("Expected first record kept, got %q", records[0].Address)
	}
	for i := 1; i < 3; i++ {
		if records[i].Address != extract.PlaceholderAddress {
			t.Errorf("Expected placeholder at %d, got %+v", i, records[i])
		}
	}
}
