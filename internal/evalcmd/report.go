package evalcmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/photopin/photopin/internal/eval/results"
)

func executeReport(path, format string, detailed bool) error {
	spec, err := results.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load results: %w", err)
	}

	switch format {
	case "text":
		return printTextReport(spec, detailed)
	case "json":
		return printJSONReport(spec)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func printTextReport(spec *results.EvalSpec, detailed bool) error {
	fmt.Println("========================================")
	fmt.Printf("Photo Geolocation Evaluation Report\n")
	fmt.Println("========================================")
	fmt.Printf("Provider: %s\n", spec.Config.Provider)
	fmt.Printf("Model:    %s\n", spec.Config.Model)
	fmt.Printf("Dataset:  %s\n", spec.Config.DatasetPath)
	fmt.Printf("Run:      %s\n", spec.Config.Timestamp)
	fmt.Println()

	printSummary(spec.Summary)

	if !detailed {
		return nil
	}

	fmt.Println("\nDetailed Results:")
	fmt.Println("========================================")

	for i, result := range spec.Results {
		fmt.Printf("\n[%d] Record ID: %s\n", i+1, result.ID)

		if !result.FoundCoordinates {
			fmt.Printf("  ❌ No coordinates found\n")
		} else if result.DistanceLabel != "" {
			fmt.Printf("  Distance: %.2f km (%s)\n", result.DistanceKm, result.DistanceLabel)
			fmt.Printf("  Location: %.6f, %.6f\n", result.Latitude, result.Longitude)
		} else {
			fmt.Printf("  Location: %.6f, %.6f (no ground truth)\n", result.Latitude, result.Longitude)
		}

		fmt.Printf("  Address Score: %.2f (%s)\n", result.AddressScore, result.AddressMethod)
		if result.AddressScore < 0.9 {
			fmt.Printf("    Generated: %s\n", truncate(result.Address, 80))
		}

		if result.Date != "" {
			fmt.Printf("  Date: %s (match: %v)\n", result.Date, result.DateMatch)
		}
		if result.Time != "" {
			fmt.Printf("  Time: %s (match: %v)\n", result.Time, result.TimeMatch)
		}
	}

	return nil
}

func printJSONReport(spec *results.EvalSpec) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(spec)
}

func printSummary(s results.EvalSummary) {
	fmt.Println("Summary:")
	fmt.Printf("  Records:          %d\n", s.Total)
	fmt.Printf("  With Location:    %d\n", s.WithLocation)
	fmt.Printf("  Found Rate:       %.1f%%\n", s.FoundRate*100)
	fmt.Printf("  Mean Distance:    %.2f km\n", s.MeanDistanceKm)
	fmt.Printf("  Median Distance:  %.2f km\n", s.MedianDistanceKm)
	fmt.Printf("  Accuracy @1km:    %.1f%%\n", s.AccuracyAt1Km*100)
	fmt.Printf("  Accuracy @25km:   %.1f%%\n", s.AccuracyAt25Km*100)
	fmt.Printf("  Accuracy @100km:  %.1f%%\n", s.AccuracyAt100Km*100)
	fmt.Printf("  Address Score:    %.2f\n", s.MeanAddressScore)
	fmt.Printf("  Date Accuracy:    %.1f%%\n", s.DateAccuracy*100)
	fmt.Printf("  Time Accuracy:    %.1f%%\n", s.TimeAccuracy*100)

	if len(s.DistanceLabels) > 0 {
		fmt.Println("\n  Distance Labels:")
		var labels []string
		for label := range s.DistanceLabels {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			fmt.Printf("    %-10s %d\n", label, s.DistanceLabels[label])
		}
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
