package cmd

import (
	"fmt"

	"github.com/PolarWolf314/secman/internal/ui"
	"github.com/PolarWolf314/secman/internal/utils"
	"github.com/PolarWolf314/secman/internal/workflows"
	"github.com/spf13/cobra"
)

var cleanDryRun bool

func init() {
	cleanCmd.Flags().BoolVar(&cleanDryRun, "dry-run", false, "show what would be removed without making changes")
}

func resetCleanCommandState() {
	cleanDryRun = false
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove temp files left by interrupted writes",
	Long: `Removes .tmp-* files from the vault directory.

secman writes every entry to a temp file and renames it into place. If a
write is interrupted (crash, power loss, killed process) the temp file stays
behind. It is never a valid entry and list ignores it; clean deletes it.

Use --dry-run to preview what would be removed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting clean command")

		spinner, cleanup := startSpinner("Scanning vault...", verbose)
		defer cleanup()

		result, err := workflows.Clean(cmd.Context(), workflows.CleanOptions{
			Target: target(),
			DryRun: cleanDryRun,
		})
		if err != nil {
			return err
		}

		if len(result.Stale) == 0 {
			spinner.FinalMSG = ui.Ok("No temp files found. Nothing to clean.")
			return nil
		}

		if result.DryRun {
			spinner.FinalMSG = ui.Warning.Sprint("[dry-run]") + fmt.Sprintf(" Would remove %d temp file(s):", len(result.Stale)) +
				utils.FormatPaths(result.Stale) + "\nNo changes made."
			return nil
		}

		spinner.FinalMSG = ui.Ok(fmt.Sprintf("Removed %d temp file(s):", result.RemovedCount)) + utils.FormatPaths(result.Stale)
		return nil
	},
}
