package cmd

import (
	"github.com/photopin/photopin/internal/evalcmd"
	"github.com/spf13/cobra"
)

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Geolocation accuracy evaluation tools",
		Long: `Evaluation tools for measuring geolocation accuracy against ground truth.

Supports inspecting datasets of photos with known locations, downloading
their images, running a provider against them, and generating detailed
comparison reports.`,
	}

	// Add eval subcommands
	cmd.AddCommand(evalcmd.NewRunCmd())
	cmd.AddCommand(evalcmd.NewReportCmd())
	cmd.AddCommand(evalcmd.NewInspectCmd())
	cmd.AddCommand(evalcmd.NewDownloadImagesCmd())

	return cmd
}
