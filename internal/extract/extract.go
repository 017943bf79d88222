package extract

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// PlaceholderAddress marks a record whose extraction could not complete.
const PlaceholderAddress = "Error processing image"

// Record is the structured result the oracle produces for one image.
// Latitude and longitude are decimal degrees; negative values mean the
// southern and western hemispheres. A 0 coordinate means "unknown".
type Record struct {
	Address          string  `json:"address"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	Date             string  `json:"date"`
	Time             string  `json:"time"`
	FoundCoordinates bool    `json:"foundCoordinates"`
}

// Source identifies one image file submitted for extraction.
type Source struct {
	Name string
	Path string
}

// Image is a loaded, MIME-tagged image ready to send to the oracle.
type Image struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Extractor sends one batch of images to a vision model and returns
// exactly one record per image, in input order. Implementations absorb
// per-image failures into placeholder records; the only error they may
// return is missing provider configuration, which cannot be retried
// per-image.
type Extractor interface {
	ExtractBatch(ctx context.Context, sources []Source) ([]Record, error)
}

// Placeholder returns the record substituted when an image cannot be
// processed.
func Placeholder() Record {
	return Record{Address: PlaceholderAddress}
}

// Placeholders returns n placeholder records.
func Placeholders(n int) []Record {
	records := make([]Record, n)
	for i := range records {
		records[i] = Placeholder()
	}
	return records
}

// LoadImages reads and MIME-tags every source file. One unreadable file
// fails the whole load; callers degrade the full batch to placeholders.
func LoadImages(sources []Source) ([]Image, error) {
	images := make([]Image, 0, len(sources))
	for _, src := range sources {
		data, err := os.ReadFile(src.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read image %s: %w", src.Name, err)
		}
		images = append(images, Image{
			Name:     src.Name,
			MIMEType: detectMIME(src.Path, data),
			Data:     data,
		})
	}
	return images, nil
}

func detectMIME(path string, data []byte) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	}
	return http.DetectContentType(data)
}
