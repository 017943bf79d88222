package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "photopin",
		Short: "Photo geolocation tool with LLM-powered location extraction",
		Long: `Photopin is a tool for locating where photos were taken using vision LLMs.

It queues photos, sends them to a vision model in small batches, and reports
the address, coordinates, and capture date extracted from each image. Results
can be rendered as a table, exported as TSV or XLSX, or plotted on a map.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	// Add subcommands
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newInspectCmd())
	cmd.AddCommand(newEvalCmd())

	return cmd
}
