package cmd

import (
	"github.com/PolarWolf314/secman/internal/ui"
	"github.com/PolarWolf314/secman/internal/workflows"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the vault",
	Long: `Creates the vault directory and its random salt.

The vault lives at ~/.secman unless --vault, $SECMAN_VAULT or vault_path in
the config file say otherwise. Running init on an existing vault does nothing.
No passphrase is needed: the passphrase is chosen with the first 'secman add'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting init command")

		spinner, cleanup := startSpinner("Initializing vault...", verbose)
		defer cleanup()

		result, err := workflows.Init(cmd.Context(), workflows.InitOptions{Target: target()})
		if err != nil {
			return err
		}

		if !result.Created {
			Logger.Infof("Vault already exists at %s", result.VaultPath)
			spinner.FinalMSG = ui.Ok("Vault already initialized at " + ui.Path.Sprint(result.VaultPath))
			return nil
		}

		Logger.Infof("Vault created at %s", result.VaultPath)
		spinner.FinalMSG = ui.Lines(
			ui.Ok("Vault created at "+ui.Path.Sprint(result.VaultPath)),
			ui.Hint("Run "+ui.Code.Sprint("secman add <name>")+" to store your first secret"),
		)
		return nil
	},
}
