package errors

import (
	"errors"
	"fmt"
)

// Vault errors indicate issues with the vault directory and its layout.
var (
	// ErrInit indicates the vault directory or salt could not be created.
	ErrInit = errors.New("failed to initialize vault")

	// ErrCorruptVault indicates the vault exists but its salt is missing or malformed.
	// It is never repaired automatically.
	ErrCorruptVault = errors.New("vault is corrupt: salt file missing or malformed")

	// ErrVaultNotInitialized indicates no vault exists at the configured path.
	ErrVaultNotInitialized = errors.New("vault has not been initialized")

	// ErrVaultBusy indicates another process holds the vault lock.
	ErrVaultBusy = errors.New("vault is locked by another process")
)

// Cryptographic errors indicate failures during key derivation, encryption or decryption.
var (
	// ErrKeyDerivation indicates the key derivation parameters were rejected.
	ErrKeyDerivation = errors.New("key derivation failed")

	// ErrAuthentication indicates an entry did not authenticate: wrong passphrase
	// or a tampered entry.
	ErrAuthentication = errors.New("authentication failed: wrong passphrase or tampered entry")

	// ErrPassphraseMismatch indicates the confirmation passphrase did not match.
	ErrPassphraseMismatch = errors.New("passphrases do not match")
)

// Entry errors indicate issues with a single entry.
var (
	// ErrMalformedEntry indicates the on-disk framing of an entry is invalid.
	ErrMalformedEntry = errors.New("malformed entry")

	// ErrInvalidEntryName indicates the entry name is not a safe path component.
	ErrInvalidEntryName = errors.New("invalid entry name")

	// ErrNotFound indicates the entry does not exist.
	ErrNotFound = errors.New("entry not found")

	// ErrDuplicateEntry indicates an entry with the same name already exists.
	ErrDuplicateEntry = errors.New("entry already exists")
)

// Input errors indicate issues with user-provided flags.
var (
	// ErrInvalidDateFormat indicates a date filter could not be parsed.
	ErrInvalidDateFormat = errors.New("invalid date format")

	// ErrNoFilesFound indicates no audit log exists yet.
	ErrNoFilesFound = errors.New("no matching files found")
)

// EntryError annotates a failure with the entry it belongs to.
type EntryError struct {
	Name string
	Err  error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("entry %q: %v", e.Name, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}
