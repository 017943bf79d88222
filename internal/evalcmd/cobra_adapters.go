package evalcmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRunCmd creates the run command for evaluating a provider against a
// ground-truth dataset
func NewRunCmd() *cobra.Command {
	var datasetPath string
	var outputDir string
	var sampleSize int
	var provider string
	var model string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate extraction accuracy against a ground-truth dataset",
		Long: `Evaluate photo geolocation accuracy against a dataset of photos with known
locations.

The dataset is a JSONL or Parquet file of records {id, image_path, address,
latitude, longitude, date, time, city, country}. Images are sent to the
provider in batches, and predictions are scored by great-circle distance,
address similarity, and timestamp exactness. Results are written as YAML for
later reporting.`,
		Example: `  # Evaluate 10 records with Gemini
  photopin eval run --dataset ./testdata/landmarks.jsonl --sample 10

  # Evaluate 100 records with OpenAI
  photopin eval run --dataset ./landmarks.parquet --sample 100 --provider openai --model gpt-4o

  # Evaluate the full dataset with a local Ollama model
  photopin eval run --dataset ./landmarks.jsonl --sample -1 --provider ollama --verbose`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(datasetPath); os.IsNotExist(err) {
				return fmt.Errorf("dataset file not found: %s", datasetPath)
			}

			return executeRun(cmd.Context(), datasetPath, provider, model, outputDir, sampleSize, verbose)
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Path to JSONL or Parquet dataset file (required)")
	cmd.Flags().StringVar(&outputDir, "output", "evals", "Directory for YAML result documents")
	cmd.Flags().IntVar(&sampleSize, "sample", 10, "Number of records to evaluate (-1 for all)")
	cmd.Flags().StringVar(&provider, "provider", "gemini", "Vision provider (gemini, openai, or ollama)")
	cmd.Flags().StringVar(&model, "model", "", "Model name (defaults to provider's default)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Verbose logging")

	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}

// NewReportCmd creates the report command for rendering saved results
func NewReportCmd() *cobra.Command {
	var resultsPath string
	var format string
	var detailed bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a saved evaluation document",
		Example: `  # Print the summary of a finished run
  photopin eval report --results evals/gemini-2.0-flash-2026-01-12_09-30-01.yaml

  # Include per-record details
  photopin eval report --results evals/run.yaml --detailed

  # Re-encode as JSON for other tooling
  photopin eval report --results evals/run.yaml --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(resultsPath); os.IsNotExist(err) {
				return fmt.Errorf("results file not found: %s", resultsPath)
			}

			return executeReport(resultsPath, format, detailed)
		},
	}

	cmd.Flags().StringVar(&resultsPath, "results", "", "Path to a YAML results document (required)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format (text or json)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "Include per-record details")

	_ = cmd.MarkFlagRequired("results")

	return cmd
}

// NewDownloadImagesCmd creates the download-images command for fetching
// dataset photos that are not on disk yet
func NewDownloadImagesCmd() *cobra.Command {
	var datasetPath string
	var sampleSize int
	var verbose bool

	cmd := &cobra.Command{
		Use:   "download-images",
		Short: "Download missing dataset images from their source URLs",
		Long: `Download the photos a dataset refers to.

Records may carry an image_url next to their image_path. For every record
whose image is not on disk yet, the URL is fetched and saved at the record's
image path, so an evaluation run afterwards finds every photo locally.`,
		Example: `  # Fetch images for the first 10 records
  photopin eval download-images --dataset ./landmarks.jsonl --sample 10

  # Fetch images for the whole dataset
  photopin eval download-images --dataset ./landmarks.jsonl --sample -1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(datasetPath); os.IsNotExist(err) {
				return fmt.Errorf("dataset file not found: %s", datasetPath)
			}

			return executeDownloadImages(cmd.Context(), datasetPath, sampleSize, verbose)
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Path to JSONL or Parquet dataset file (required)")
	cmd.Flags().IntVar(&sampleSize, "sample", 10, "Number of records to process (-1 for all)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Verbose logging")

	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}
