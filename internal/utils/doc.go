// Package utils provides shared helpers for the SecureHide CLI.
//
// # Filesystem Utilities
//
//   - FileExists: checks for an existing path
//   - DefaultOutputPath: derives "<name>.hidden.<ext>" next to the carrier
//   - FormatPaths: lists file paths, e.g. carriers the capacity command could not read
//
// # System Utilities
//
//   - GetUsername: returns the current system username
//   - GetHostname: returns the system hostname recorded in audit entries
//
// # I/O Utilities
//
//   - ReadStdin: reads a piped message from standard input
//
// # Terminal Utilities
//
//   - GetPassword: SECUREHIDE_PASSWORD, or a no-echo prompt with optional confirmation
//   - IsTerminal / IsTTYAvailable: terminal detection
package utils
