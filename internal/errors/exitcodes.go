package errors

import (
	"errors"
	"io/fs"
)

// Exit codes for the secman CLI. Each failure class has its own code.
const (
	ExitSuccess   = 0 // Operation completed successfully
	ExitGeneral   = 1 // Unknown error or bad usage
	ExitAuth      = 2 // Wrong passphrase or tampered entry
	ExitNotFound  = 3 // Entry or vault does not exist
	ExitDuplicate = 4 // Entry already exists
	ExitIO        = 5 // Init, key derivation, lock or filesystem failure
	ExitCorrupt   = 6 // Vault salt missing or malformed
	ExitMalformed = 7 // Entry framing or name invalid
)

var exitCodes = []struct {
	err  error
	code int
}{
	{ErrAuthentication, ExitAuth},
	{ErrPassphraseMismatch, ExitAuth},
	{ErrNotFound, ExitNotFound},
	{ErrVaultNotInitialized, ExitNotFound},
	{ErrDuplicateEntry, ExitDuplicate},
	{ErrCorruptVault, ExitCorrupt},
	{ErrMalformedEntry, ExitMalformed},
	{ErrInvalidEntryName, ExitMalformed},
	{ErrInit, ExitIO},
	{ErrKeyDerivation, ExitIO},
	{ErrVaultBusy, ExitIO},
}

// ExitCode maps an error to the process exit code for its class.
// Unclassified filesystem errors map to ExitIO, anything else to ExitGeneral.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	for _, c := range exitCodes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return ExitIO
	}
	return ExitGeneral
}
