// Package workflows provides high-level orchestration for secman commands.
//
// Workflows coordinate the vault engine, configuration and audit log to
// implement complete user-facing features. Each workflow handles a single
// command's business logic, independent of CLI concerns like flag parsing,
// prompts, spinners, and output formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Prompts for the passphrase and secret values
//   - Calls the appropriate workflow function
//   - Formats the result for display
//
// Workflows handle everything else:
//   - Opening the vault at the configured path
//   - Deriving and wiping the master key
//   - Performing the core operation
//   - Recording audit trail entries
//
// # Available Workflows
//
//   - Status: inspects the vault without a passphrase
//   - Init: creates the vault and its salt
//   - List: lists entries, optionally with their values
//   - Add: stores a new entry
//   - Get: decrypts one entry
//   - Remove: deletes an entry the passphrase can open
//   - Clean: removes temp files left by interrupted writes
//   - Log: reads and filters the audit log
//
// # Secrets
//
// Passphrases and values passed in options are wiped before the workflow
// returns. Values returned in results (GetResult.Value, revealed list
// entries) belong to the caller, who wipes them after printing.
//
// # Error Handling
//
// Workflows return sentinel errors from the internal/errors package, wrapped
// with context. Use errors.Is() to check for specific conditions:
//
//	_, err := workflows.Add(ctx, opts)
//	if errors.Is(err, kerrors.ErrDuplicateEntry) {
//	    // Suggest removing the entry first
//	}
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter.
// It is checked before the key derivation, the slowest step.
package workflows
