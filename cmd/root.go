package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/PolarWolf314/secman/internal/configs"
	logger "github.com/PolarWolf314/secman/internal/logging"
	"github.com/PolarWolf314/secman/internal/secrets"
	"github.com/PolarWolf314/secman/internal/utils"
	"github.com/PolarWolf314/secman/internal/workflows"
	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose    bool
	debug      bool
	vaultPath  string
	configPath string
	Logger     logger.Logger

	// settings is resolved once per invocation in PersistentPreRunE.
	settings *configs.Settings

	// kdfParams is zero in production; tests lower the cost.
	kdfParams secrets.KDFParams

	RootCmd = &cobra.Command{
		Use:   "secman",
		Short: "secman - a local, passphrase-protected secrets vault",
		Long: `secman stores small secrets (API tokens, passwords) in an encrypted vault
directory on your machine. One passphrase unlocks every entry; each entry is
its own file, encrypted with ChaCha20-Poly1305 under a key derived with Argon2id.

Run 'secman init' to create a vault, then 'secman add <name>' to store a secret.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing %s with verbose=%t, debug=%t", cmd.CommandPath(), verbose, debug)

			if err := utils.DisableCoreDumps(); err != nil {
				Logger.Warnf("Could not disable core dumps: %v", err)
			}

			resolved, err := configs.Resolve(configPath, vaultPath)
			if err != nil {
				return err
			}
			settings = resolved
			Logger.Debugf("Using vault %s (from %s), config %s", settings.VaultPath, settings.VaultSource, settings.ConfigPath)
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			figure.NewColorFigure("secman", "standard", "green", true).Print()
			fmt.Println()
			_ = cmd.Help()
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	RootCmd.PersistentFlags().StringVar(&vaultPath, "vault", "", "vault directory (overrides $"+configs.EnvVault+" and the config file)")
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/secman/config.toml)")

	RootCmd.AddCommand(initCmd)
	RootCmd.AddCommand(listCmd)
	RootCmd.AddCommand(addCmd)
	RootCmd.AddCommand(getCmd)
	RootCmd.AddCommand(removeCmd)
	RootCmd.AddCommand(cleanCmd)
	RootCmd.AddCommand(logCmd)
	RootCmd.AddCommand(ConfigCmd)
}

// Execute runs the CLI and prints any error that a command did not already
// report. The caller exits with kerrors.ExitCode of the returned error.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Cobra keeps a subcommand's context between runs; clear it so this run's
	// context reaches every command.
	clearCommandContexts(RootCmd)

	err := RootCmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}

	var r *reportedError
	if !errors.As(err, &r) {
		fmt.Fprint(os.Stderr, formatError(err))
	}
	return err
}

// target is the vault the current command operates on.
func target() workflows.Target {
	return workflows.Target{
		Settings: settings,
		KDF:      kdfParams,
	}
}

// reportedError marks an error whose message the command already printed.
// It keeps the wrapped error for exit code classification.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	return &reportedError{err: err}
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	vaultPath = ""
	configPath = ""
	settings = nil
	resetListCommandState()
	resetAddCommandState()
	resetRemoveCommandState()
	resetCleanCommandState()
	resetLogCommandState()
	resetConfigCommandState()
	resetCobraFlagState(RootCmd)
}

func clearCommandContexts(cmd *cobra.Command) {
	cmd.SetContext(nil)
	for _, child := range cmd.Commands() {
		clearCommandContexts(child)
	}
}

// resetCobraFlagState clears Changed on every flag so one test's flags don't
// leak into the next.
func resetCobraFlagState(cmd *cobra.Command) {
	reset := func(flag *pflag.Flag) {
		flag.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetCobraFlagState(child)
	}
}
