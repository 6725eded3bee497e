// Package audit provides the audit trail for secman operations.
//
// Every operation that touches the vault (init, add, get, remove, clean) is
// recorded in a per-user audit log. Entries record what happened and to which
// entry name, never the secret values themselves.
//
// # Log Format
//
// The audit log is stored as JSON Lines (one JSON object per line), by
// default at:
//
//	$XDG_DATA_HOME/secman/audit.jsonl
//
// Each entry contains:
//   - Timestamp (RFC3339 with microseconds, UTC)
//   - A per-operation UUID
//   - Operation name and vault path
//   - The entry name or removed count, depending on the operation
//
// # Usage
//
//	entry := audit.NewEntry(audit.OpAdd, v.Path())
//	entry.Name = "github"
//	audit.Log(cfg.AuditPath, entry)
//
// # Failure Handling
//
// Audit logging is best-effort. If logging fails (permissions, disk full,
// etc.), the operation continues without error.
//
// # Reading Logs
//
// Use ReadEntries to parse the audit log for display. Malformed lines are
// silently skipped to handle partial writes.
package audit
