package results

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/photopin/photopin/internal/eval/dataset"
	"github.com/photopin/photopin/internal/eval/metrics"
	"github.com/photopin/photopin/internal/extract"
)

// EvalConfig represents the configuration section of the eval YAML
type EvalConfig struct {
	Provider    string `yaml:"provider"`
	Model       string `yaml:"model"`
	DatasetPath string `yaml:"datasetpath"`
	SampleSize  int    `yaml:"samplesize"`
	Timestamp   string `yaml:"timestamp"`
}

// EvalResult represents a single evaluation result
type EvalResult struct {
	ID    string `yaml:"id"`
	Image string `yaml:"image"`

	Address          string  `yaml:"address"`
	Latitude         float64 `yaml:"latitude"`
	Longitude        float64 `yaml:"longitude"`
	FoundCoordinates bool    `yaml:"foundcoordinates"`
	Date             string  `yaml:"date,omitempty"`
	Time             string  `yaml:"time,omitempty"`

	DistanceKm    float64 `yaml:"distancekm,omitempty"`
	DistanceLabel string  `yaml:"distancelabel,omitempty"`
	AddressScore  float64 `yaml:"addressscore"`
	AddressMethod string  `yaml:"addressmethod"`
	DateMatch     bool    `yaml:"datematch,omitempty"`
	TimeMatch     bool    `yaml:"timematch,omitempty"`
}

// EvalSummary represents the aggregated metrics section of the eval YAML
type EvalSummary struct {
	Total            int            `yaml:"total"`
	WithLocation     int            `yaml:"withlocation"`
	FoundCount       int            `yaml:"foundcount"`
	FoundRate        float64        `yaml:"foundrate"`
	MeanDistanceKm   float64        `yaml:"meandistancekm"`
	MedianDistanceKm float64        `yaml:"mediandistancekm"`
	AccuracyAt1Km    float64        `yaml:"accuracyat1km"`
	AccuracyAt25Km   float64        `yaml:"accuracyat25km"`
	AccuracyAt100Km  float64        `yaml:"accuracyat100km"`
	DistanceLabels   map[string]int `yaml:"distancelabels"`
	MeanAddressScore float64        `yaml:"meanaddressscore"`
	DateAccuracy     float64        `yaml:"dateaccuracy"`
	TimeAccuracy     float64        `yaml:"timeaccuracy"`
}

// EvalSpec represents the complete evaluation document
type EvalSpec struct {
	Config  EvalConfig   `yaml:"config"`
	Summary EvalSummary  `yaml:"summary"`
	Results []EvalResult `yaml:"results"`
}

// Item pairs one dataset record with what the model extracted for it and
// the comparison of the two.
type Item struct {
	Record     dataset.GeoRecord
	Extracted  extract.Record
	Comparison metrics.Comparison
}

// Save writes an evaluation document to dir as <model>-<timestamp>.yaml
// and returns the written path.
func Save(config EvalConfig, items []Item, summary metrics.Summary, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create results directory: %w", err)
	}

	config.Timestamp = time.Now().Format("2006-01-02_15-04-05")

	spec := EvalSpec{
		Config:  config,
		Summary: NewSummary(summary),
		Results: make([]EvalResult, 0, len(items)),
	}
	for _, item := range items {
		spec.Results = append(spec.Results, newResult(item))
	}

	data, err := yaml.Marshal(&spec)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}

	filename := filepath.Join(dir, fmt.Sprintf("%s-%s.yaml", config.Model, config.Timestamp))
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write YAML file: %w", err)
	}

	return filename, nil
}

// Load reads an evaluation document back from disk.
func Load(path string) (*EvalSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results file: %w", err)
	}

	var spec EvalSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse results file: %w", err)
	}

	return &spec, nil
}

func newResult(item Item) EvalResult {
	r := EvalResult{
		ID:               item.Record.ID,
		Image:            item.Record.ImagePath,
		Address:          item.Extracted.Address,
		Latitude:         item.Extracted.Latitude,
		Longitude:        item.Extracted.Longitude,
		FoundCoordinates: item.Extracted.FoundCoordinates,
		Date:             item.Extracted.Date,
		Time:             item.Extracted.Time,
		AddressScore:     item.Comparison.Address.Score,
		AddressMethod:    item.Comparison.Address.Method,
	}

	if item.Comparison.TruthHasLocation && item.Comparison.FoundCoordinates {
		r.DistanceKm = item.Comparison.DistanceKm
		r.DistanceLabel = item.Comparison.DistanceLabel
	}
	if item.Comparison.HasDate {
		r.DateMatch = item.Comparison.DateMatch
	}
	if item.Comparison.HasTime {
		r.TimeMatch = item.Comparison.TimeMatch
	}

	return r
}

// NewSummary converts aggregated metrics into the YAML-facing summary.
func NewSummary(s metrics.Summary) EvalSummary {
	out := EvalSummary{
		Total:            s.Total,
		WithLocation:     s.WithLocation,
		FoundCount:       s.FoundCount,
		FoundRate:        s.FoundRate,
		MeanDistanceKm:   s.MeanDistanceKm,
		MedianDistanceKm: s.MedianDistanceKm,
		AccuracyAt1Km:    s.AccuracyAt1Km,
		AccuracyAt25Km:   s.AccuracyAt25Km,
		AccuracyAt100Km:  s.AccuracyAt100Km,
		DistanceLabels:   s.DistanceLabels,
		MeanAddressScore: s.MeanAddressScore,
	}
	if s.DateTotal > 0 {
		out.DateAccuracy = float64(s.DateMatches) / float64(s.DateTotal)
	}
	if s.TimeTotal > 0 {
		out.TimeAccuracy = float64(s.TimeMatches) / float64(s.TimeTotal)
	}
	return out
}
