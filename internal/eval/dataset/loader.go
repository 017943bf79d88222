package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// Loader reads geolocation ground-truth datasets from disk. Relative image
// paths in a dataset resolve against the dataset file's directory.
type Loader struct {
	datasetPath string
}

// NewLoader creates a new dataset loader
func NewLoader(datasetPath string) *Loader {
	return &Loader{
		datasetPath: datasetPath,
	}
}

// Load loads every record from the dataset file (JSONL or Parquet)
func (l *Loader) Load() ([]GeoRecord, error) {
	return l.load(0)
}

// LoadSample loads at most limit records (useful for cheap runs)
func (l *Loader) LoadSample(limit int) ([]GeoRecord, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("sample limit must be positive, got %d", limit)
	}
	return l.load(limit)
}

func (l *Loader) load(limit int) ([]GeoRecord, error) {
	ext := strings.ToLower(filepath.Ext(l.datasetPath))

	var (
		records []GeoRecord
		err     error
	)
	switch ext {
	case ".parquet":
		records, err = l.loadParquet(limit)
	case ".jsonl", ".json":
		records, err = l.loadJSONL(limit)
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .parquet, .jsonl)", ext)
	}
	if err != nil {
		return nil, err
	}

	l.resolveImagePaths(records)
	return records, nil
}

func (l *Loader) loadJSONL(limit int) ([]GeoRecord, error) {
	slog.Debug("Opening JSONL dataset", "path", l.datasetPath)

	file, err := os.Open(l.datasetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer file.Close()

	var records []GeoRecord
	scanner := bufio.NewScanner(file)

	// Increase buffer size for long JSON lines
	const maxCapacity = 10 * 1024 * 1024
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()

		if len(line) == 0 {
			continue
		}

		var record GeoRecord
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}

		records = append(records, record)

		if limit > 0 && len(records) == limit {
			break
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading dataset: %w", err)
	}

	slog.Debug("Finished reading JSONL dataset", "path", l.datasetPath, "records", len(records))

	return records, nil
}

func (l *Loader) loadParquet(limit int) ([]GeoRecord, error) {
	slog.Debug("Opening Parquet dataset", "path", l.datasetPath)

	file, err := os.Open(l.datasetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[GeoRecord](pf)
	defer reader.Close()

	var records []GeoRecord
	rows := make([]GeoRecord, 128) // Read in batches

	for limit <= 0 || len(records) < limit {
		n, err := reader.Read(rows)
		if n > 0 {
			if limit > 0 && n > limit-len(records) {
				n = limit - len(records)
			}
			records = append(records, rows[:n]...)
		}
		if err != nil {
			break
		}
	}

	slog.Debug("Finished reading Parquet dataset", "path", l.datasetPath, "records", len(records), "total_rows", pf.NumRows())

	return records, nil
}

func (l *Loader) resolveImagePaths(records []GeoRecord) {
	base := filepath.Dir(l.datasetPath)
	for i := range records {
		path := records[i].ImagePath
		if path == "" || filepath.IsAbs(path) {
			continue
		}
		records[i].ImagePath = filepath.Join(base, path)
	}
}

// FilterExisting drops records whose image file is missing, logging each
// skipped record.
func FilterExisting(records []GeoRecord) []GeoRecord {
	kept := make([]GeoRecord, 0, len(records))
	for _, record := range records {
		if _, err := os.Stat(record.ImagePath); err != nil {
			slog.Warn("Skipping record, image not found", "id", record.ID, "path", record.ImagePath)
			continue
		}
		kept = append(kept, record)
	}
	return kept
}
