// Package logger provides leveled logging for secman CLI commands.
//
// The logger supports multiple verbosity levels controlled by command-line
// flags. Output is prefixed with colored level tags from fatih/color.
//
// # Verbosity Levels
//
//   - --verbose: Shows info and warning messages
//   - --debug: Shows all messages including debug details and errors
//
// Without flags, only WarnfAlways output is shown. User-facing errors are
// printed by the command layer, not by the logger. Every level writes to
// stderr.
//
// # Log Methods
//
//	Logger.Infof()           // Shown with --verbose or --debug
//	Logger.Debugf()          // Shown only with --debug
//	Logger.Warnf()           // Shown with --verbose or --debug
//	Logger.WarnfAlways()     // Always shown
//	Logger.Errorf()          // Shown with --debug
//	Logger.ErrorfAndReturn() // Errorf, then returns the formatted error
//
// Messages must never contain passphrases, keys or secret values.
//
// # Usage
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Listing %d entries", count)
package logger
