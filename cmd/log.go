package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/PolarWolf314/secman/internal/audit"
	kerrors "github.com/PolarWolf314/secman/internal/errors"
	"github.com/PolarWolf314/secman/internal/ui"
	"github.com/PolarWolf314/secman/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	logLimit     int
	logReverse   bool
	logOperation string
	logEntry     string
	logSince     string
	logUntil     string
	logJSON      bool
)

func init() {
	logCmd.Flags().IntVarP(&logLimit, "number", "n", 0, "limit number of entries shown")
	logCmd.Flags().BoolVar(&logReverse, "reverse", false, "show most recent entries first")
	logCmd.Flags().StringVar(&logOperation, "operation", "", "filter by operation type (comma-separated)")
	logCmd.Flags().StringVar(&logEntry, "entry", "", "filter by entry name")
	logCmd.Flags().StringVar(&logSince, "since", "", "show entries after date (YYYY-MM-DD)")
	logCmd.Flags().StringVar(&logUntil, "until", "", "show entries before date (YYYY-MM-DD)")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "output as JSON array")
}

// resetLogCommandState resets the log command's global state for testing.
func resetLogCommandState() {
	logLimit = 0
	logReverse = false
	logOperation = ""
	logEntry = ""
	logSince = ""
	logUntil = ""
	logJSON = false
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View the audit log",
	Long: `Displays the audit log of vault operations.

Every init, add, get, remove and clean is recorded with its time, the vault
and the entry name. Secret values are never logged.

Examples:
  secman log                        # View full log
  secman log -n 10                  # Last 10 entries
  secman log --reverse              # Most recent first
  secman log --operation add,remove # Filter by operation
  secman log --entry github         # Filter by entry name
  secman log --since 2024-01-01     # Filter by date
  secman log --json                 # JSON output`,
	Args: cobra.NoArgs,
	RunE: runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting log command")

	if !settings.Audit {
		Logger.WarnfAlways("Audit logging is disabled in %s; new operations are not recorded", settings.ConfigPath)
	}

	opts := workflows.LogOptions{
		AuditPath:  settings.AuditPath,
		Limit:      logLimit,
		Reverse:    logReverse,
		Operations: logOperation,
		Name:       logEntry,
		Since:      logSince,
		Until:      logUntil,
	}

	result, err := workflows.Log(cmd.Context(), opts)
	if errors.Is(err, kerrors.ErrNoFilesFound) {
		fmt.Println(ui.Info.Sprint("ℹ") + " No audit log found. Operations are logged once you run a vault command.")
		return nil
	}
	if err != nil {
		return err
	}

	Logger.Debugf("Parsed %d entries from audit log", result.TotalEntriesBeforeFilter)
	Logger.Debugf("After filtering: %d entries", len(result.Entries))

	if logJSON {
		return outputLogJSON(result.Entries)
	}

	if len(result.Entries) == 0 {
		if result.TotalEntriesBeforeFilter == 0 {
			fmt.Println("No audit log entries found.")
		} else {
			fmt.Println("No audit log entries found matching the filters.")
		}
		return nil
	}

	outputLogDefault(result.Entries)
	return nil
}

func outputLogJSON(entries []audit.Entry) error {
	if entries == nil {
		entries = []audit.Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal entries to JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func outputLogDefault(entries []audit.Entry) {
	for _, e := range entries {
		datetime := workflows.FormatDateTime(e.Timestamp)
		details := workflows.FormatDetails(e)
		fmt.Printf("%-19s  %-7s  %s\n", datetime, e.Operation, details)
	}
}
