// Package vault implements the on-disk secrets vault.
//
// # Layout
//
// A vault is a single directory (default ~/.secman):
//
//	~/.secman/
//	├── .salt       32 random bytes, written once by Init
//	├── github      [nonce][ciphertext||tag]
//	└── aws-prod    [nonce][ciphertext||tag]
//
// Names starting with a dot are reserved: the salt, temp files written by
// Add (.tmp-<uuid>) and, on windows, the .lock file.
//
// # States
//
// State reports one of:
//
//   - StateAbsent: nothing at the path. Init creates the vault.
//   - StateUninitialized: a directory without a valid salt. Every operation
//     fails with ErrCorruptVault; the vault is never repaired automatically.
//   - StateReady: usable.
//
// # Operations
//
// Unlock derives the master key. List, Get, Add and Remove take the key
// explicitly; the Vault itself never holds key material.
//
// Add, Remove and Clean hold an exclusive advisory lock on the vault for their
// duration. List and Get do not lock.
//
// Remove policy: an entry is only deleted after it opens under the supplied
// key. A wrong passphrase therefore cannot delete entries, and malformed
// entries must be deleted by hand.
package vault
