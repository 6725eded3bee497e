// Package errors provides typed error values for the secman application.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. This makes
// error handling more robust and refactoring-safe.
//
// # Error Categories
//
// Errors are grouped by category:
//
//   - Vault errors: Store state issues (ErrInit, ErrCorruptVault, ErrVaultNotInitialized)
//   - Crypto errors: Key derivation and decryption failures (ErrKeyDerivation, ErrAuthentication)
//   - Entry errors: Per-entry issues (ErrMalformedEntry, ErrNotFound, ErrDuplicateEntry)
//
// # Exit Codes
//
// Every category maps to a distinct process exit code so scripts can branch
// on the failure class. See ExitCode.
//
// # Usage
//
// Return errors from internal packages:
//
//	if len(salt) != secrets.SaltSize {
//	    return nil, errors.ErrCorruptVault
//	}
//
// Handle errors in the CLI layer:
//
//	result, err := workflows.Remove(ctx, opts)
//	if errors.Is(err, kerrors.ErrNotFound) {
//	    // Show user-friendly message
//	}
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("reading entry %s: %w", name, errors.ErrMalformedEntry)
package errors
