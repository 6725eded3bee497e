package cmd

import (
	"bufio"
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	kerrors "github.com/PolarWolf314/secman/internal/errors"
	"github.com/PolarWolf314/secman/internal/secrets"
	"github.com/PolarWolf314/secman/internal/ui"
	"github.com/PolarWolf314/secman/internal/utils"
	"github.com/PolarWolf314/secman/internal/workflows"
	"github.com/briandowns/spinner"
)

// Terminal input, replaced in tests.
var (
	// readPassphrase reads the vault passphrase without echo.
	readPassphrase = utils.ReadPassphrase

	// readPassphraseTTY is used instead when stdin carries the secret.
	readPassphraseTTY = utils.ReadPassphraseFromTTY

	// readSecret reads a secret value without echo.
	readSecret = utils.ReadPassphrase

	// readStdin reads a piped secret value.
	readStdin = utils.ReadStdin

	// confirmInput is where confirmation answers are read from.
	confirmInput io.Reader = os.Stdin
)

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// calls ui.EnsureNewline() on the final message before printing it.
func startSpinner(message string, verbose bool) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	// The spinner draws on stderr so stdout carries only command output.
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriterFile(os.Stderr))
	s.Suffix = " " + message

	// Ignore color errors - continue without colored spinner if it fails.
	_ = s.Color("cyan")

	if !verbose && !debug {
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		// Restore log output first.
		if !verbose && !debug {
			log.SetOutput(os.Stderr)
		}

		// Ensure final message ends with a newline.
		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		// Stop the spinner first to clear the spinner line.
		if !verbose && !debug {
			s.Stop()
		}

		// Print final message to stdout (for tests to capture).
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// preflight checks the vault before any prompt, so a missing or corrupt
// vault fails without asking for a passphrase.
func preflight(ctx context.Context) (*workflows.StatusResult, error) {
	status, err := workflows.Status(ctx, workflows.StatusOptions{Target: target()})
	if err != nil {
		return nil, err
	}
	Logger.Debugf("Vault %s is %s with %d entries", status.VaultPath, status.State, status.Entries)

	if err := status.Ready(); err != nil {
		return nil, err
	}

	if status.InsecurePermissions {
		Logger.WarnfAlways("Vault directory %s has mode %o; run %s to restrict it to your user",
			status.VaultPath, status.Permissions, ui.Code.Sprint("chmod 700 "+status.VaultPath))
	}
	return status, nil
}

// promptPassphrase asks for the vault passphrase. With confirm set it is
// asked twice and both answers must match.
func promptPassphrase(read func(string) ([]byte, error), confirm bool) ([]byte, error) {
	passphrase, err := read("Passphrase: ")
	if err != nil {
		return nil, err
	}
	if len(passphrase) == 0 {
		return nil, fmt.Errorf("%w: passphrase is empty", kerrors.ErrKeyDerivation)
	}
	if !confirm {
		return passphrase, nil
	}

	again, err := read("Confirm passphrase: ")
	defer secrets.Wipe(again)
	if err != nil {
		secrets.Wipe(passphrase)
		return nil, err
	}
	if subtle.ConstantTimeCompare(passphrase, again) != 1 {
		secrets.Wipe(passphrase)
		return nil, kerrors.ErrPassphraseMismatch
	}
	return passphrase, nil
}

// confirmAction prompts the user with a yes/no question.
func confirmAction() bool {
	reader := bufio.NewReader(confirmInput)
	fmt.Print("Do you want to continue? [y/N]: ")
	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		Logger.Errorf("Failed to read response: %v", err)
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// formatError renders an error for the terminal with a hint where one helps.
func formatError(err error) string {
	lines := []string{ui.Fail(err.Error())}

	switch {
	case errors.Is(err, kerrors.ErrVaultNotInitialized):
		lines = append(lines, ui.Hint("Run "+ui.Code.Sprint("secman init")+" to create the vault"))
	case errors.Is(err, kerrors.ErrCorruptVault):
		lines = append(lines, ui.Hint("The vault cannot be repaired automatically; move it aside and run "+ui.Code.Sprint("secman init")))
	case errors.Is(err, kerrors.ErrDuplicateEntry):
		lines = append(lines, ui.Hint("Remove the entry first with "+ui.Code.Sprint("secman remove <name>")))
	case errors.Is(err, kerrors.ErrNotFound):
		lines = append(lines, ui.Hint("Run "+ui.Code.Sprint("secman list")+" to see stored entries"))
	case errors.Is(err, kerrors.ErrVaultBusy):
		lines = append(lines, ui.Hint("Another secman process is writing to the vault; try again"))
	case errors.Is(err, kerrors.ErrMalformedEntry):
		lines = append(lines, ui.Hint("The entry file is damaged; delete it from the vault directory by hand"))
	}

	return ui.Lines(lines...)
}
