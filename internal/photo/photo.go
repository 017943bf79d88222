package photo

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// Metadata is what a photo file already records about itself, before any
// oracle is consulted.
type Metadata struct {
	Width       int
	Height      int
	TakenAt     time.Time
	HasTakenAt  bool
	Latitude    float64
	Longitude   float64
	HasLocation bool
	CameraModel string
}

// ReadMetadata reads pixel dimensions and EXIF capture time, GPS position,
// and camera model from the image at path. Missing EXIF blocks are not an
// error; only an unreadable or undecodable file is.
func ReadMetadata(path string) (Metadata, error) {
	var meta Metadata

	width, height, err := dimensions(path)
	if err != nil {
		return Metadata{}, err
	}
	meta.Width = width
	meta.Height = height

	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil || x == nil {
		// No EXIF at all. Dimensions are still useful.
		return meta, nil
	}

	if t, err := x.DateTime(); err == nil {
		meta.TakenAt = t
		meta.HasTakenAt = true
	}
	if lat, lng, err := x.LatLong(); err == nil {
		meta.Latitude = lat
		meta.Longitude = lng
		meta.HasLocation = true
	}
	if tag, err := x.Get(exif.Model); err == nil {
		if model, err := tag.StringVal(); err == nil {
			meta.CameraModel = model
		}
	}

	return meta, nil
}

// dimensions reads width and height without decoding the full image.
func dimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return cfg.Width, cfg.Height, nil
}
