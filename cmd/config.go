package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/PolarWolf314/secman/internal/configs"
	"github.com/PolarWolf314/secman/internal/ui"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	configShowJSON  bool
	configInitForce bool
)

func init() {
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output in JSON format")
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing config file")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configInitCmd)
}

// resetConfigCommandState resets the config commands' global state for testing.
func resetConfigCommandState() {
	configShowJSON = false
	configInitForce = false
}

// ConfigCmd is the top-level config command.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage secman configuration",
	Long: `Provides commands for inspecting and creating the secman config file.

Examples:
  # Show the configuration in effect, including where the vault path came from
  secman config show

  # Write a config file with the defaults
  secman config init`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the configuration in effect",
	Long: `Displays the resolved configuration: the config file in use, the vault
path and which setting chose it (flag, env, config or default), and the
audit log settings.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config show command")

		if configShowJSON {
			output, err := json.MarshalIndent(settings, "", "  ")
			if err != nil {
				return Logger.ErrorfAndReturn("failed to marshal config to JSON: %w", err)
			}
			fmt.Println(string(output))
			return nil
		}

		configFile := settings.ConfigPath
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			configFile += " " + ui.Muted.Sprint("not found, using defaults")
		}

		fmt.Println(color.CyanString("Configuration") + " (" + configFile + "):")
		fmt.Println()
		fmt.Printf("  %-15s %s %s\n", "Vault:", ui.Path.Sprint(settings.VaultPath), ui.Muted.Sprint("from "+string(settings.VaultSource)))
		fmt.Printf("  %-15s %t\n", "Audit:", settings.Audit)
		fmt.Printf("  %-15s %s\n", "Audit log:", ui.Path.Sprint(settings.AuditPath))
		fmt.Printf("  %-15s %t\n", "Confirm remove:", settings.ConfirmRemove)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config init command")

		path := settings.ConfigPath
		if _, err := os.Stat(path); err == nil && !configInitForce {
			fmt.Println(ui.Ok("Config file already exists at " + ui.Path.Sprint(path)))
			fmt.Println(ui.Hint("Use " + ui.Code.Sprint("--force") + " to overwrite it"))
			return nil
		}

		if err := configs.Save(path, configs.DefaultConfig()); err != nil {
			return err
		}

		Logger.Debugf("Wrote default config to %s", path)
		fmt.Println(ui.Ok("Wrote config file " + ui.Path.Sprint(path)))
		return nil
	},
}
