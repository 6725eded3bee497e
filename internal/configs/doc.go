// Package configs manages the secman configuration.
//
// Configuration is a single TOML file, by default at
// $XDG_CONFIG_HOME/secman/config.toml:
//
//	vault_path     = "~/.secman"
//	audit          = true
//	audit_path     = ""  # default $XDG_DATA_HOME/secman/audit.jsonl
//	confirm_remove = true
//
// A missing file, or a missing key, means the default.
//
// # Vault Path
//
// Resolve picks the vault directory from, in order: the --vault flag, the
// SECMAN_VAULT environment variable, vault_path, and ~/.secman. The result is
// always absolute, and Settings.VaultSource records which one won.
//
// Passphrases are never read from the configuration or the environment.
package configs
