package evalcmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/photopin/photopin/internal/eval/dataset"
	"github.com/photopin/photopin/internal/ingest"
)

func executeDownloadImages(ctx context.Context, datasetPath string, sampleSize int, verbose bool) error {
	setupLogging(verbose)

	slog.Info("Starting image download", "dataset", datasetPath, "sample", sampleSize)

	loader := dataset.NewLoader(datasetPath)

	var records []dataset.GeoRecord
	var err error
	if sampleSize > 0 {
		records, err = loader.LoadSample(sampleSize)
	} else {
		records, err = loader.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	slog.Info("Loaded dataset records", "count", len(records))

	fetcher := ingest.NewFetcher()

	successCount := 0
	skipCount := 0
	errorCount := 0

	for i, record := range records {
		slog.Debug("Processing record", "index", i+1, "total", len(records), "id", record.ID)

		if _, err := os.Stat(record.ImagePath); err == nil {
			slog.Debug("Image already on disk, skipping", "id", record.ID, "path", record.ImagePath)
			skipCount++
			continue
		}

		if record.ImageURL == "" {
			slog.Warn("No image URL for missing image", "id", record.ID, "path", record.ImagePath)
			skipCount++
			continue
		}

		if err := fetcher.FetchTo(ctx, record.ImageURL, record.ImagePath); err != nil {
			slog.Error("Failed to download image", "id", record.ID, "url", record.ImageURL, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.Info("Image download complete", "downloaded", successCount, "skipped", skipCount, "errors", errorCount)

	if errorCount > 0 {
		return fmt.Errorf("%d of %d downloads failed", errorCount, len(records))
	}
	return nil
}
