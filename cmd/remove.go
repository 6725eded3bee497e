package cmd

import (
	"fmt"

	kerrors "github.com/PolarWolf314/secman/internal/errors"
	"github.com/PolarWolf314/secman/internal/secrets"
	"github.com/PolarWolf314/secman/internal/ui"
	"github.com/PolarWolf314/secman/internal/workflows"
	"github.com/spf13/cobra"
)

var removeYes bool

func init() {
	removeCmd.Flags().BoolVarP(&removeYes, "yes", "y", false, "skip the confirmation prompt")
}

func resetRemoveCommandState() {
	removeYes = false
}

var removeCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a secret",
	Long: `Deletes <name> from the vault.

The entry is only deleted if the passphrase opens it, so a mistyped
passphrase cannot delete anything. Entries that are damaged on disk cannot
be removed this way; delete their file from the vault directory by hand.

Asks for confirmation unless --yes is given or confirm_remove is false in
the config file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		Logger.Infof("Starting remove command for %s", name)

		if err := secrets.ValidateEntryName(name); err != nil {
			return err
		}
		status, err := preflight(cmd.Context())
		if err != nil {
			return err
		}
		if !status.Has(name) {
			return fmt.Errorf("%w: %s", kerrors.ErrNotFound, name)
		}

		if settings.ConfirmRemove && !removeYes {
			fmt.Printf("This will permanently delete %s from the vault.\n", ui.Highlight.Sprint(name))
			if !confirmAction() {
				fmt.Println("Aborted.")
				return nil
			}
		}

		passphrase, err := promptPassphrase(readPassphrase, false)
		if err != nil {
			return err
		}

		spinner, cleanup := startSpinner("Removing "+name+"...", verbose)
		defer cleanup()

		result, err := workflows.Remove(cmd.Context(), workflows.RemoveOptions{
			Target:     target(),
			Name:       name,
			Passphrase: passphrase,
		})
		if err != nil {
			return err
		}

		spinner.FinalMSG = ui.Ok("Removed " + ui.Highlight.Sprint(result.Name))
		return nil
	},
}
