package gemini

import (
	"context"
	"strings"
	"testing"

	"github.com/photopin/photopin/internal/extract"
)

func TestNewDefaultModel(t *testing.T) {
	t.Setenv("GEMINI_MODEL", "")

	if c := New(""); c.model != "gemini-2.0-flash" {
		t.Errorf("Expected default model, got %s", c.model)
	}
	if c := New("gemini-1.5-pro"); c.model != "gemini-1.5-pro" {
		t.Errorf("Expected explicit model kept, got %s", c.model)
	}

	t.Setenv("GEMINI_MODEL", "gemini-2.5-flash")
	if c := New(""); c.model != "gemini-2.5-flash" {
		t.Errorf("Expected model from environment, got %s", c.model)
	}
}

func TestExtractBatchMissingAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	records, err := New("").ExtractBatch(context.Background(), []extract.Source{
		{Name: "a.jpg", Path: "a.jpg"},
	})
	if err == nil {
		t.Fatal("Expected error for missing API key, got nil")
	}
	if !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Errorf("Expected error to name the missing variable, got %v", err)
	}
	if records != nil {
		t.Errorf("Expected no records on configuration error, got %d", len(records))
	}
}
