package cmd

import (
	"errors"
	"fmt"

	kerrors "github.com/PolarWolf314/secman/internal/errors"
	"github.com/PolarWolf314/secman/internal/ui"
	"github.com/PolarWolf314/secman/internal/workflows"
	"github.com/spf13/cobra"
)

var listShowValues bool

func init() {
	listCmd.Flags().BoolVar(&listShowValues, "show-values", false, "print decrypted values next to the names")
}

func resetListCommandState() {
	listShowValues = false
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List stored secrets",
	Long: `Lists every entry in the vault in name order.

Each entry is decrypted to check it, and entries that fail are marked instead
of hiding the rest of the list. Values are only printed with --show-values.

If the passphrase opens none of the entries, list exits with status 2.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting list command")

		status, err := preflight(cmd.Context())
		if err != nil {
			return err
		}
		if status.Empty() {
			fmt.Println(ui.Ok("The vault is empty"))
			fmt.Println(ui.Hint("Run " + ui.Code.Sprint("secman add <name>") + " to store a secret"))
			return nil
		}

		passphrase, err := promptPassphrase(readPassphrase, false)
		if err != nil {
			return err
		}

		spinner, cleanup := startSpinner("Unlocking vault...", verbose)
		result, err := workflows.List(cmd.Context(), workflows.ListOptions{
			Target:     target(),
			Passphrase: passphrase,
			Reveal:     listShowValues,
		})
		if err != nil {
			cleanup()
			return err
		}
		defer result.Wipe()

		spinner.FinalMSG = ui.Ok(fmt.Sprintf("%d entries in %s", len(result.Entries), ui.Path.Sprint(result.VaultPath)))
		cleanup()

		printEntries(result)

		if result.Failed > 0 && result.Failed == len(result.Entries) {
			err := fmt.Errorf("%w: the passphrase opened none of the entries", kerrors.ErrAuthentication)
			fmt.Print(formatError(err))
			return reported(err)
		}
		return nil
	},
}

func printEntries(result *workflows.ListResult) {
	width := 0
	for _, e := range result.Entries {
		width = max(width, len(e.Name))
	}

	for _, e := range result.Entries {
		switch {
		case !e.OK():
			Logger.Debugf("Entry %s: %v", e.Name, e.Err)
			fmt.Printf("  %-*s  %s\n", width, e.Name, ui.Error.Sprint("✗ "+describeEntryError(e.Err)))
		case listShowValues:
			fmt.Printf("  %-*s  %s\n", width, e.Name, e.Value)
		default:
			Logger.Infof("Entry %s: %d bytes, modified %s", e.Name, e.Size, e.ModTime.Format("2006-01-02 15:04"))
			fmt.Printf("  %s\n", e.Name)
		}
	}
}

// describeEntryError is the short annotation printed next to a failed entry.
func describeEntryError(err error) string {
	switch {
	case errors.Is(err, kerrors.ErrAuthentication):
		return "cannot be opened (wrong passphrase or tampered)"
	case errors.Is(err, kerrors.ErrMalformedEntry):
		return "malformed entry file"
	case errors.Is(err, kerrors.ErrInvalidEntryName):
		return "invalid entry name"
	default:
		return err.Error()
	}
}
