package cmd

import (
	"os"

	"github.com/PolarWolf314/secman/internal/secrets"
	"github.com/PolarWolf314/secman/internal/workflows"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Print a secret value",
	Long: `Decrypts <name> and prints its value to stdout, followed by a newline.

  export GITHUB_TOKEN="$(secman get github)"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		Logger.Infof("Starting get command for %s", name)

		if err := secrets.ValidateEntryName(name); err != nil {
			return err
		}
		if _, err := preflight(cmd.Context()); err != nil {
			return err
		}

		passphrase, err := promptPassphrase(readPassphrase, false)
		if err != nil {
			return err
		}

		result, err := func() (*workflows.GetResult, error) {
			_, cleanup := startSpinner("Decrypting "+name+"...", verbose)
			defer cleanup()
			return workflows.Get(cmd.Context(), workflows.GetOptions{
				Target:     target(),
				Name:       name,
				Passphrase: passphrase,
			})
		}()
		if err != nil {
			return err
		}
		defer secrets.Wipe(result.Value)

		if _, err := os.Stdout.Write(result.Value); err != nil {
			return err
		}
		_, err = os.Stdout.WriteString("\n")
		return err
	},
}
