package orchestrator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/photopin/photopin/internal/batch"
	"github.com/photopin/photopin/internal/extract"
	"github.com/photopin/photopin/internal/session"
)

// Run drives one full processing pass: snapshot the staged queue, split it
// into bounded batches, and send them to the extractor strictly one at a
// time, merging each batch's records into the store before the next
// request is issued. Any error from the extractor is fatal: remaining
// batches are abandoned, the store moves to Error, and results merged so
// far stay visible.
func Run(ctx context.Context, store *session.Store, extractor extract.Extractor) error {
	items, err := store.BeginProcessing()
	if err != nil {
		return err
	}

	chunks := batch.Split(items, batch.MaxSize)
	slog.Info("Starting extraction run", "images", len(items), "batches", len(chunks))

	for i, chunk := range chunks {
		sources := make([]extract.Source, len(chunk))
		for j, item := range chunk {
			sources[j] = extract.Source{Name: item.Name, Path: item.Path}
		}

		records, err := extractor.ExtractBatch(ctx, sources)
		if err != nil {
			slog.Error("Extraction run failed", "batch", i+1, "error", err)
			store.FailRun(err)
			return err
		}
		if len(records) != len(chunk) {
			err := fmt.Errorf("extractor returned %d records for %d images", len(records), len(chunk))
			slog.Error("Extraction run failed", "batch", i+1, "error", err)
			store.FailRun(err)
			return err
		}

		store.AppendResults(merge(chunk, records))
		progress := store.Progress()
		slog.Info("Processed batch", "batch", i+1, "batches", len(chunks), "processed", progress.Processed, "total", progress.Total)
	}

	store.CompleteRun()
	return nil
}

// merge zips one batch of queue items positionally with the records the
// oracle returned for them.
func merge(chunk []session.QueueItem, records []extract.Record) []session.ProcessedImage {
	entries := make([]session.ProcessedImage, len(chunk))
	for i, item := range chunk {
		rec := records[i]
		entries[i] = session.ProcessedImage{
			FileName:  item.Name,
			Source:    item.Path,
			Preview:   item.Preview,
			Address:   rec.Address,
			Latitude:  coordinate(rec.Latitude),
			Longitude: coordinate(rec.Longitude),
			Date:      rec.Date,
			Time:      rec.Time,
		}
	}
	return entries
}

// coordinate maps the oracle's 0 sentinel to nil. A photo taken exactly on
// the equator or prime meridian collides with the sentinel; the wire
// format cannot tell the two apart.
func coordinate(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}
