// Package utils provides shared utility functions for secman.
//
// This package contains general-purpose helpers used across multiple packages.
// Functions are organized into logical groups:
//
// # Path Utilities
//
//   - ExpandHome: expands a leading ~ to the user's home directory
//   - FormatPaths: formats file paths for human-readable output
//
// # System Utilities
//
//   - DisableCoreDumps: sets RLIMIT_CORE to zero where supported
//
// # I/O Utilities
//
//   - ReadStdin: reads a piped secret value from standard input
//
// # Terminal Utilities
//
//   - ReadPassphrase: prompts for a passphrase without echo
//   - ReadPassphraseFromTTY: the same, from /dev/tty when stdin is piped
//   - IsTerminal: checks if stdin is a terminal
package utils
