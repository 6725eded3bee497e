package cmd

import (
	"fmt"

	"github.com/PolarWolf314/secman/internal/secrets"
	"github.com/PolarWolf314/secman/internal/ui"
	"github.com/PolarWolf314/secman/internal/workflows"
	"github.com/spf13/cobra"
)

var addFromStdin bool

func init() {
	addCmd.Flags().BoolVar(&addFromStdin, "stdin", false, "read the secret value from stdin instead of prompting")
}

func resetAddCommandState() {
	addFromStdin = false
}

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Store a new secret",
	Long: `Encrypts a secret value and stores it under <name>.

The value is read without echo. With --stdin it is read from a pipe instead,
and the passphrase is read from the terminal:

  pbpaste | secman add github --stdin

The first entry added to a vault sets its passphrase, so it is asked twice.
Later adds must use the same passphrase: a passphrase that opens none of the
existing entries is rejected. Existing entries are never overwritten.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		Logger.Infof("Starting add command for %s", name)

		if err := secrets.ValidateEntryName(name); err != nil {
			return err
		}

		status, err := preflight(cmd.Context())
		if err != nil {
			return err
		}

		var value, passphrase []byte
		if addFromStdin {
			if value, err = readStdin(); err != nil {
				return err
			}
			passphrase, err = promptPassphrase(readPassphraseTTY, status.Empty())
		} else {
			passphrase, err = promptPassphrase(readPassphrase, status.Empty())
			if err == nil {
				value, err = readSecret("Secret value: ")
				if err == nil && len(value) == 0 {
					err = fmt.Errorf("secret value is empty")
				}
			}
		}
		if err != nil {
			secrets.Wipe(passphrase)
			secrets.Wipe(value)
			return err
		}

		spinner, cleanup := startSpinner("Encrypting "+name+"...", verbose)
		defer cleanup()

		result, err := workflows.Add(cmd.Context(), workflows.AddOptions{
			Target:     target(),
			Name:       name,
			Passphrase: passphrase,
			Value:      value,
		})
		if err != nil {
			return err
		}

		spinner.FinalMSG = ui.Ok("Added " + ui.Highlight.Sprint(result.Name))
		return nil
	},
}
