package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/photopin/photopin/internal/extract"
)

// Client extracts photo locations using a local Ollama instance.
type Client struct {
	model string
}

// New returns a new Ollama client. An empty model falls back to
// OLLAMA_MODEL and then to the default.
func New(model string) *Client {
	if model == "" {
		model = os.Getenv("OLLAMA_MODEL")
	}
	if model == "" {
		model = "llava"
	}
	return &Client{model: model}
}

// Model returns the resolved model name.
func (c *Client) Model() string {
	return c.model
}

// ExtractBatch geolocates one batch of images with Ollama. Ollama needs no
// credential, so every failure degrades to placeholder records and the
// returned error is always nil.
func (c *Client) ExtractBatch(ctx context.Context, sources []extract.Source) ([]extract.Record, error) {
	ollamaURL := os.Getenv("OLLAMA_URL")
	if ollamaURL == "" {
		ollamaURL = os.Getenv("OLLAMA_HOST")
	}
	if ollamaURL == "" {
		ollamaURL = "http://localhost:11434"
	}

	images, err := extract.LoadImages(sources)
	if err != nil {
		slog.Warn("Failed to load image batch, substituting placeholders", "error", err)
		return extract.Placeholders(len(sources)), nil
	}

	encoded := make([]string, len(images))
	for i, img := range images {
		encoded[i] = base64.StdEncoding.EncodeToString(img.Data)
	}

	requestBody, err := json.Marshal(map[string]interface{}{
		"model":  c.model,
		"prompt": extract.BuildPrompt(len(images)),
		"images": encoded,
		"format": "json",
		"stream": false,
		"options": map[string]interface{}{
			"temperature": 0.0,
		},
	})
	if err != nil {
		slog.Warn("Failed to marshal request body, substituting placeholders", "error", err)
		return extract.Placeholders(len(sources)), nil
	}

	req, err := http.NewRequestWithContext(ctx, "POST", ollamaURL+"/api/generate", bytes.NewBuffer(requestBody))
	if err != nil {
		slog.Warn("Failed to create request, substituting placeholders", "error", err)
		return extract.Placeholders(len(sources)), nil
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		slog.Warn("Ollama request failed, substituting placeholders", "error", err)
		return extract.Placeholders(len(sources)), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		slog.Warn("Ollama returned non-200 status, substituting placeholders", "status", resp.StatusCode, "body", string(body))
		return extract.Placeholders(len(sources)), nil
	}

	var response struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		slog.Warn("Failed to decode Ollama response, substituting placeholders", "error", err)
		return extract.Placeholders(len(sources)), nil
	}

	return extract.DecodeRecords(response.Response, len(sources)), nil
}
