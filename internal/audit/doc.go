// Package audit records SecureHide CLI operations in a local audit log.
//
// Every hide, reveal and capacity run appends one entry describing the
// carrier, the output and the outcome. Messages and passwords are never
// written.
//
// # Log Format
//
// The audit log is stored as JSON Lines (one JSON object per line) at:
//
//	$XDG_DATA_HOME/securehide/audit.jsonl
//
// # Usage
//
//	entry := audit.LogWithUser(audit.OpHide)
//	entry.Image = inputPath
//	entry.Outcome = audit.OutcomeSuccess
//	audit.Log(entry)
//
// # Failure Handling
//
// Audit logging is best-effort. If logging fails (permissions, disk full,
// etc.), the operation continues without error.
//
// # Reading Logs
//
// Use ReadEntries() to parse the audit log for display. Malformed entries
// are silently skipped to handle partial writes.
package audit
