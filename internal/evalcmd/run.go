package evalcmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/photopin/photopin/internal/batch"
	"github.com/photopin/photopin/internal/eval/dataset"
	"github.com/photopin/photopin/internal/eval/metrics"
	"github.com/photopin/photopin/internal/eval/results"
	"github.com/photopin/photopin/internal/extract"
	"github.com/photopin/photopin/internal/extract/gemini"
	"github.com/photopin/photopin/internal/extract/ollama"
	"github.com/photopin/photopin/internal/extract/openai"
)

func executeRun(ctx context.Context, datasetPath, provider, model, outputDir string, sampleSize int, verbose bool) error {
	setupLogging(verbose)

	slog.Info("Starting evaluation run",
		"dataset", datasetPath,
		"sample_size", sampleSize,
		"provider", provider,
		"model", model)

	client, model, err := newExtractor(provider, model)
	if err != nil {
		return err
	}

	// Load dataset
	loader := dataset.NewLoader(datasetPath)

	var records []dataset.GeoRecord
	if sampleSize > 0 {
		slog.Info("Loading sample from dataset", "limit", sampleSize)
		records, err = loader.LoadSample(sampleSize)
	} else {
		slog.Info("Loading full dataset")
		records, err = loader.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	records = dataset.FilterExisting(records)
	if len(records) == 0 {
		return fmt.Errorf("no usable records in dataset %s", datasetPath)
	}
	slog.Info("Dataset loaded", "records", len(records))

	// Run extraction in batches
	items := make([]results.Item, 0, len(records))
	comparisons := make([]metrics.Comparison, 0, len(records))

	chunks := batch.Split(records, batch.MaxSize)
	processed := 0
	for i, chunk := range chunks {
		sources := make([]extract.Source, len(chunk))
		for j, record := range chunk {
			sources[j] = extract.Source{
				Name: filepath.Base(record.ImagePath),
				Path: record.ImagePath,
			}
		}

		extracted, err := client.ExtractBatch(ctx, sources)
		if err != nil {
			return fmt.Errorf("extraction failed on batch %d: %w", i+1, err)
		}
		if len(extracted) != len(chunk) {
			return fmt.Errorf("extraction returned %d records for %d images", len(extracted), len(chunk))
		}

		for j, record := range chunk {
			comparison := metrics.Compare(extracted[j], record)
			comparisons = append(comparisons, comparison)
			items = append(items, results.Item{
				Record:     record,
				Extracted:  extracted[j],
				Comparison: comparison,
			})
		}

		processed += len(chunk)
		slog.Info("Processed batch", "batch", i+1, "batches", len(chunks), "processed", processed, "total", len(records))
	}

	// Aggregate and report
	summary := metrics.Aggregate(comparisons)
	printSummary(results.NewSummary(summary))

	path, err := results.Save(results.EvalConfig{
		Provider:    provider,
		Model:       model,
		DatasetPath: datasetPath,
		SampleSize:  sampleSize,
	}, items, summary, outputDir)
	if err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	absPath, _ := filepath.Abs(path)
	fmt.Printf("\n✅ Evaluation results saved to: %s\n", absPath)

	return nil
}

// newExtractor builds the provider client and reports the resolved model
// name.
func newExtractor(provider, model string) (extract.Extractor, string, error) {
	switch provider {
	case "gemini":
		c := gemini.New(model)
		return c, c.Model(), nil
	case "openai":
		c := openai.New(model)
		return c, c.Model(), nil
	case "ollama":
		c := ollama.New(model)
		return c, c.Model(), nil
	default:
		return nil, "", fmt.Errorf("unsupported provider: %s (supported: gemini, openai, ollama)", provider)
	}
}

func setupLogging(verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
}
