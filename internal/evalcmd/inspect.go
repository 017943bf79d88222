package evalcmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/photopin/photopin/internal/eval/dataset"
	"github.com/spf13/cobra"
)

// NewInspectCmd creates the inspect command
func NewInspectCmd() *cobra.Command {
	var datasetPath string
	var limit int
	var interactive bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect dataset records (useful for checking ground truth)",
		Long: `Inspect records from a parquet or jsonl dataset file.

This command is useful for verifying ground-truth coordinates and addresses,
and for spotting records whose images are missing from disk.`,
		Example: `  # Inspect the first 5 records interactively
  photopin eval inspect --dataset ./landmarks.jsonl --limit 5 --interactive

  # Inspect all records
  photopin eval inspect --dataset ./landmarks.jsonl --limit 0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if datasetPath == "" {
				return fmt.Errorf("--dataset is required")
			}

			// Create a context that gets canceled on an interrupt signal (Ctrl+C)
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return executeInspect(ctx, datasetPath, limit, interactive)
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Path to parquet or jsonl dataset file (required)")
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of records to inspect (0 for all)")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Pause after each record (press Enter to continue)")

	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}

func executeInspect(ctx context.Context, datasetPath string, limit int, interactive bool) error {
	loader := dataset.NewLoader(datasetPath)

	var records []dataset.GeoRecord
	var err error

	if limit > 0 {
		records, err = loader.LoadSample(limit)
	} else {
		records, err = loader.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	fmt.Printf("Loaded %d records from %s\n", len(records), datasetPath)
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	for i, record := range records {
		select {
		case <-ctx.Done():
			fmt.Println("\nInspection interrupted.")
			return nil
		default:
		}

		fmt.Printf("RECORD %d/%d\n", i+1, len(records))
		fmt.Println(strings.Repeat("-", 80))

		fmt.Printf("ID:       %s\n", record.ID)
		fmt.Printf("Image:    %s", record.ImagePath)
		if _, err := os.Stat(record.ImagePath); err != nil {
			fmt.Print("  (missing)")
		}
		fmt.Println()
		if record.ImageURL != "" {
			fmt.Printf("URL:      %s\n", record.ImageURL)
		}

		fmt.Printf("Address:  %s\n", record.Address)
		if record.HasCoordinates() {
			fmt.Printf("Location: %.6f, %.6f\n", record.Latitude, record.Longitude)
		} else {
			fmt.Println("Location: unknown")
		}
		if record.Date != "" {
			fmt.Printf("Date:     %s", record.Date)
			if record.Time != "" {
				fmt.Printf(" %s", record.Time)
			}
			fmt.Println()
		}
		if region := formatRegion(record.City, record.Country); region != "" {
			fmt.Printf("Region:   %s\n", region)
		}
		fmt.Println()

		if interactive && i < len(records)-1 {
			fmt.Print("Press Enter for next record...")
			if _, err := reader.ReadString('\n'); err != nil {
				return nil
			}
			fmt.Println()
		}
	}

	return nil
}

func formatRegion(city, country string) string {
	switch {
	case city == "":
		return country
	case country == "":
		return city
	default:
		return city + ", " + country
	}
}
