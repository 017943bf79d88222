package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// maxDownloadBytes caps a fetched remote image at 10MB.
const maxDownloadBytes = 10 << 20

// Fetcher stages remote images into a local directory.
type Fetcher struct {
	HTTPClient *http.Client
}

// NewFetcher creates a new image fetcher.
func NewFetcher() *Fetcher {
	return &Fetcher{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Fetch downloads one remote image into destDir and returns it as a
// stageable file. Non-image responses and oversized bodies are rejected.
func (f *Fetcher) Fetch(ctx context.Context, rawURL, destDir string) (File, error) {
	data, contentType, err := f.download(ctx, rawURL)
	if err != nil {
		return File{}, err
	}

	dest := uniquePath(destDir, remoteName(rawURL, contentType))
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return File{}, fmt.Errorf("failed to write image file: %w", err)
	}

	slog.Info("Staged remote image", "url", rawURL, "path", dest, "bytes", len(data))
	return File{Name: filepath.Base(dest), Path: dest}, nil
}

// FetchTo downloads one remote image to an exact destination path,
// creating parent directories as needed.
func (f *Fetcher) FetchTo(ctx context.Context, rawURL, destPath string) error {
	data, _, err := f.download(ctx, rawURL)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}
	if err := os.WriteFile(destPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}

	slog.Info("Downloaded remote image", "url", rawURL, "path", destPath, "bytes", len(data))
	return nil
}

func (f *Fetcher) download(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("image URL returned status %d", resp.StatusCode)
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		return nil, "", fmt.Errorf("expected an image response, got %s", contentType)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image data: %w", err)
	}
	if len(data) > maxDownloadBytes {
		return nil, "", fmt.Errorf("image exceeds %d bytes", maxDownloadBytes)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("image response was empty")
	}

	return data, contentType, nil
}

// remoteName derives a staging filename from the URL, falling back to the
// content type when the URL path has no usable image extension.
func remoteName(rawURL, contentType string) string {
	base := ""
	if u, err := url.Parse(rawURL); err == nil {
		base = path.Base(u.Path)
	}
	if base == "" || base == "." || base == "/" {
		base = "download"
	}
	if isImageFile(base) {
		return base
	}

	switch contentType {
	case "image/png":
		return base + ".png"
	case "image/gif":
		return base + ".gif"
	case "image/webp":
		return base + ".webp"
	default:
		return base + ".jpg"
	}
}

// uniquePath appends a counter when name already exists in dir.
func uniquePath(dir, name string) string {
	dest := filepath.Join(dir, name)
	if _, err := os.Stat(dest); os.IsNotExist(err) {
		return dest
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		dest = filepath.Join(dir, fmt.Sprintf("%s-%d%s", stem, i, ext))
		if _, err := os.Stat(dest); os.IsNotExist(err) {
			return dest
		}
	}
}
