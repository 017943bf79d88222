package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/generative-ai-go/genai"
	"github.com/photopin/photopin/internal/extract"
	"google.golang.org/api/option"
)

// Client extracts photo locations using Google Gemini.
type Client struct {
	model string
}

// New returns a new Gemini client. An empty model falls back to
// GEMINI_MODEL and then to the default.
func New(model string) *Client {
	if model == "" {
		model = os.Getenv("GEMINI_MODEL")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &Client{model: model}
}

// Model returns the resolved model name.
func (c *Client) Model() string {
	return c.model
}

// ExtractBatch geolocates one batch of images with Gemini. Past the
// credential check every failure degrades to placeholder records so the
// caller always receives one record per image.
func (c *Client) ExtractBatch(ctx context.Context, sources []extract.Source) ([]extract.Record, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	images, err := extract.LoadImages(sources)
	if err != nil {
		slog.Warn("Failed to load image batch, substituting placeholders", "error", err)
		return extract.Placeholders(len(sources)), nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		slog.Warn("Failed to create gemini client, substituting placeholders", "error", err)
		return extract.Placeholders(len(sources)), nil
	}
	defer client.Close()

	model := client.GenerativeModel(c.model)
	model.SetTemperature(0)
	model.ResponseMIMEType = "application/json"

	parts := make([]genai.Part, 0, len(images)+1)
	parts = append(parts, genai.Text(extract.BuildPrompt(len(images))))
	for _, img := range images {
		parts = append(parts, genai.Blob{MIMEType: img.MIMEType, Data: img.Data})
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		slog.Warn("Gemini request failed, substituting placeholders", "error", err)
		return extract.Placeholders(len(sources)), nil
	}

	text, err := responseText(resp)
	if err != nil {
		slog.Warn("Unusable gemini response, substituting placeholders", "error", err)
		return extract.Placeholders(len(sources)), nil
	}

	return extract.DecodeRecords(text, len(sources)), nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty content returned from Gemini")
	}

	if txt, ok := candidate.Content.Parts[0].(genai.Text); ok {
		return string(txt), nil
	}

	return "", fmt.Errorf("unexpected response format from Gemini")
}
