package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/photopin/photopin/internal/export"
	"github.com/photopin/photopin/internal/extract"
	"github.com/photopin/photopin/internal/extract/gemini"
	"github.com/photopin/photopin/internal/extract/ollama"
	"github.com/photopin/photopin/internal/extract/openai"
	"github.com/photopin/photopin/internal/ingest"
	"github.com/photopin/photopin/internal/orchestrator"
	"github.com/photopin/photopin/internal/preview"
	"github.com/photopin/photopin/internal/session"
	"github.com/photopin/photopin/internal/views"
	"github.com/spf13/cobra"
)

type runOptions struct {
	dir        string
	paths      []string
	urls       []string
	provider   string
	model      string
	tsvPath    string
	xlsxPath   string
	mapPath    string
	previewDir string
	noPreviews bool
	verbose    bool
}

func newRunCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run [photo ...]",
		Short: "Locate where a set of photos was taken",
		Long: `Locate where photos were taken by sending them to a vision LLM.

Photos are queued from the given paths, from --dir, and from --url, then
processed in batches of up to ten images per request. For each photo the
model reports the nearest street address, coordinates, and any visible
capture date. Results print as a table and can be exported as TSV, XLSX,
or an HTML map.`,
		Example: `  # Locate two photos with Gemini
  photopin run vacation1.jpg vacation2.jpg

  # Process a whole directory and export everything
  photopin run --dir ./photos --tsv results.tsv --xlsx results.xlsx --map results.html

  # Mix local files with a remote image, using OpenAI
  photopin run --provider openai beach.png --url https://example.com/tower.jpg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.dir != "" {
				if _, err := os.Stat(opts.dir); os.IsNotExist(err) {
					return fmt.Errorf("photo directory not found: %s", opts.dir)
				}
			}
			opts.paths = args
			if opts.dir == "" && len(opts.paths) == 0 && len(opts.urls) == 0 {
				return fmt.Errorf("nothing to process: pass photo paths, --dir, or --url")
			}

			return executeRun(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.dir, "dir", "", "Directory to scan for photos")
	cmd.Flags().StringArrayVar(&opts.urls, "url", nil, "Remote image URL to download and process (repeatable)")
	cmd.Flags().StringVar(&opts.provider, "provider", "gemini", "Vision provider (gemini, openai, or ollama)")
	cmd.Flags().StringVar(&opts.model, "model", "", "Model name (defaults to provider's default)")
	cmd.Flags().StringVar(&opts.tsvPath, "tsv", "", "Write results as TSV to this path")
	cmd.Flags().StringVar(&opts.xlsxPath, "xlsx", "", "Write results as XLSX to this path")
	cmd.Flags().StringVar(&opts.mapPath, "map", "", "Write an HTML map of located photos to this path")
	cmd.Flags().StringVar(&opts.previewDir, "previews", "", "Directory for preview thumbnails (default: a temporary directory)")
	cmd.Flags().BoolVar(&opts.noPreviews, "no-previews", false, "Skip preview thumbnail generation")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "Verbose logging")

	return cmd
}

func executeRun(ctx context.Context, opts runOptions) error {
	setupLogging(opts.verbose)

	client, model, err := newExtractor(opts.provider, opts.model)
	if err != nil {
		return err
	}
	slog.Info("Starting run", "provider", opts.provider, "model", model)

	files, cleanup, err := collectPhotos(ctx, opts)
	if err != nil {
		return err
	}
	defer cleanup()
	if len(files) == 0 {
		return fmt.Errorf("no photos found to process")
	}

	// Previews are skipped with --no-previews; otherwise they land in
	// --previews or a temporary directory.
	previewer := session.Previewer(session.NopPreviewer{})
	var manager *preview.Manager
	previewDir := opts.previewDir
	if !opts.noPreviews {
		if previewDir == "" {
			previewDir, err = os.MkdirTemp("", "photopin-previews-")
			if err != nil {
				return fmt.Errorf("failed to create preview directory: %w", err)
			}
		}
		manager, err = preview.NewManager(previewDir)
		if err != nil {
			return fmt.Errorf("failed to create preview manager: %w", err)
		}
		previewer = manager
	}

	store := session.New(previewer)
	for _, file := range files {
		if _, err := store.Enqueue(file.Name, file.Path); err != nil {
			return fmt.Errorf("failed to queue %s: %w", file.Name, err)
		}
	}
	slog.Info("Photos queued", "count", len(files))

	sub := store.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range sub.C {
			if event.Status == session.StatusProcessing && event.Progress.Processed > 0 {
				fmt.Printf("Progress: %d/%d photos processed\n", event.Progress.Processed, event.Progress.Total)
			}
		}
	}()

	runErr := orchestrator.Run(ctx, store, client)
	sub.Close()
	<-done

	entries := store.Results()
	fmt.Println()
	views.RenderTable(os.Stdout, entries)

	if runErr != nil {
		return fmt.Errorf("processing failed: %w", runErr)
	}

	if opts.tsvPath != "" {
		if err := saveTSV(opts.tsvPath, entries); err != nil {
			return err
		}
	}
	if opts.xlsxPath != "" {
		if err := export.SaveXLSX(opts.xlsxPath, entries); err != nil {
			return fmt.Errorf("failed to write XLSX: %w", err)
		}
	}
	if opts.mapPath != "" {
		if err := views.WriteMap(opts.mapPath, entries); err != nil {
			return fmt.Errorf("failed to write map: %w", err)
		}
	}

	if manager != nil {
		slog.Info("Previews available", "dir", previewDir, "count", manager.Open())
	}

	return nil
}

// collectPhotos gathers local files from opts.dir and opts.paths and
// downloads opts.urls into a staging directory. The returned cleanup
// removes the staging directory and must be called even on error.
func collectPhotos(ctx context.Context, opts runOptions) ([]ingest.File, func(), error) {
	cleanup := func() {}

	var files []ingest.File
	if opts.dir != "" {
		collected, err := ingest.CollectDir(opts.dir)
		if err != nil {
			return nil, cleanup, fmt.Errorf("failed to scan %s: %w", opts.dir, err)
		}
		files = append(files, collected...)
	}
	if len(opts.paths) > 0 {
		picked, err := ingest.FromPaths(opts.paths)
		if err != nil {
			return nil, cleanup, err
		}
		files = append(files, picked...)
	}
	if len(opts.urls) > 0 {
		staging, err := os.MkdirTemp("", "photopin-downloads-")
		if err != nil {
			return nil, cleanup, fmt.Errorf("failed to create staging directory: %w", err)
		}
		cleanup = func() { os.RemoveAll(staging) }

		fetcher := ingest.NewFetcher()
		for _, rawURL := range opts.urls {
			file, err := fetcher.Fetch(ctx, rawURL, staging)
			if err != nil {
				return nil, cleanup, fmt.Errorf("failed to download %s: %w", rawURL, err)
			}
			files = append(files, file)
		}
	}

	return files, cleanup, nil
}

func saveTSV(path string, entries []session.ProcessedImage) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write TSV: %w", err)
	}
	if err := export.WriteTSV(f, entries); err != nil {
		f.Close()
		return fmt.Errorf("failed to write TSV: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write TSV: %w", err)
	}
	slog.Info("Saved TSV export", "path", path, "rows", len(entries))
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
