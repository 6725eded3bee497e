// Package secrets implements the cryptographic primitives of the vault.
//
// # Key Derivation
//
// DeriveKey turns a passphrase and the vault's persisted salt into a 32-byte
// MasterKey using Argon2id (golang.org/x/crypto/argon2). Cost parameters are
// explicit (KDFParams); DefaultKDFParams is used for real vaults.
//
// # Entry Cipher
//
// Cipher wraps ChaCha20-Poly1305 with a 96-bit nonce and a 128-bit tag. Vault
// operations build one Cipher and reuse it for every entry they touch; Seal
// and Open are one-shot helpers.
// Nonces come from NewNonce (crypto/rand) and are never reused: every write
// draws a new one. Open reports every tag failure as ErrAuthentication.
//
// # Entry Codec
//
// An entry file is framed as:
//
//	[nonce (12 bytes)][ciphertext || tag (len(payload) + 16 bytes)]
//
// The entry name is the file name and is authenticated as associated data
// (EntryAD), so moving a file to another name makes it fail to open.
// ValidateEntryName rejects names that are not a single portable path
// component.
//
// # Memory
//
// MasterKey is mlock'ed where supported and zeroed by Wipe. Use Wipe for any
// other sensitive buffer (passphrases, decrypted payloads), always via defer.
//
// Known limitation: chacha20poly1305.New copies the key into its own state,
// which is neither locked nor wiped. Keeping one Cipher per operation bounds
// this to a single copy that lives until the garbage collector reclaims it.
package secrets
