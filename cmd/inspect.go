package cmd

import (
	"fmt"
	"strings"

	"github.com/photopin/photopin/internal/export"
	"github.com/photopin/photopin/internal/ingest"
	"github.com/photopin/photopin/internal/photo"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <photo|dir> [photo|dir ...]",
		Short: "Show what a photo already records about itself",
		Long: `Show the metadata embedded in photo files without calling any model.

For each photo this prints its pixel dimensions plus the EXIF capture time,
GPS position, and camera model when the file carries them. Directories are
scanned recursively. Handy for checking whether a photo already knows where
it was taken.`,
		Example: `  # Inspect one photo
  photopin inspect vacation.jpg

  # Inspect a whole directory
  photopin inspect ./photos`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := ingest.FromPaths(args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no photos found to inspect")
			}

			return executeInspect(files)
		},
	}

	return cmd
}

func executeInspect(files []ingest.File) error {
	failed := 0

	for i, file := range files {
		fmt.Printf("PHOTO %d/%d: %s\n", i+1, len(files), file.Path)
		fmt.Println(strings.Repeat("-", 80))

		meta, err := photo.ReadMetadata(file.Path)
		if err != nil {
			fmt.Printf("Error:      %v\n\n", err)
			failed++
			continue
		}

		fmt.Printf("Dimensions: %dx%d\n", meta.Width, meta.Height)
		if meta.HasTakenAt {
			fmt.Printf("Taken:      %s\n", meta.TakenAt.Format("2006-01-02 15:04:05"))
		}
		if meta.HasLocation {
			fmt.Printf("Location:   %s, %s\n",
				export.FormatLatitude(&meta.Latitude),
				export.FormatLongitude(&meta.Longitude))
		}
		if meta.CameraModel != "" {
			fmt.Printf("Camera:     %s\n", meta.CameraModel)
		}
		fmt.Println()
	}

	if failed > 0 {
		return fmt.Errorf("failed to read %d of %d photos", failed, len(files))
	}

	return nil
}
