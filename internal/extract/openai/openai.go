package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/photopin/photopin/internal/extract"
)

// Client extracts photo locations using the OpenAI chat completions API.
type Client struct {
	model string
}

// New returns a new OpenAI client. An empty model falls back to
// OPENAI_MODEL and then to the default.
func New(model string) *Client {
	if model == "" {
		model = os.Getenv("OPENAI_MODEL")
	}
	if model == "" {
		model = "gpt-4o"
	}
	return &Client{model: model}
}

// Model returns the resolved model name.
func (c *Client) Model() string {
	return c.model
}

// ExtractBatch geolocates one batch of images with OpenAI. Past the
// credential check every failure degrades to placeholder records.
func (c *Client) ExtractBatch(ctx context.Context, sources []extract.Source) ([]extract.Record, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	images, err := extract.LoadImages(sources)
	if err != nil {
		slog.Warn("Failed to load image batch, substituting placeholders", "error", err)
		return extract.Placeholders(len(sources)), nil
	}

	content := []map[string]interface{}{
		{
			"type": "text",
			"text": extract.BuildPrompt(len(images)),
		},
	}
	for _, img := range images {
		content = append(content, map[string]interface{}{
			"type": "image_url",
			"image_url": map[string]string{
				"url": "data:" + img.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(img.Data),
			},
		})
	}

	requestBody, err := json.Marshal(map[string]interface{}{
		"model": c.model,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": content,
			},
		},
		"temperature": 0.0,
	})
	if err != nil {
		slog.Warn("Failed to marshal request body, substituting placeholders", "error", err)
		return extract.Placeholders(len(sources)), nil
	}

	req, err := http.NewRequestWithContext(ctx, "POST", "https://api.openai.com/v1/chat/completions", bytes.NewBuffer(requestBody))
	if err != nil {
		slog.Warn("Failed to create request, substituting placeholders", "error", err)
		return extract.Placeholders(len(sources)), nil
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		slog.Warn("OpenAI request failed, substituting placeholders", "error", err)
		return extract.Placeholders(len(sources)), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		slog.Warn("OpenAI returned non-200 status, substituting placeholders", "status", resp.StatusCode, "body", string(body))
		return extract.Placeholders(len(sources)), nil
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		slog.Warn("Failed to decode OpenAI response, substituting placeholders", "error", err)
		return extract.Placeholders(len(sources)), nil
	}

	if len(response.Choices) == 0 {
		slog.Warn("No choices returned from OpenAI, substituting placeholders")
		return extract.Placeholders(len(sources)), nil
	}

	return extract.DecodeRecords(response.Choices[0].Message.Content, len(sources)), nil
}
