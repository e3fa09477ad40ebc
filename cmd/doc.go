// Package cmd implements the securehide command line.
//
// Commands are thin: they parse flags, read the password, call the matching
// function in internal/workflows or internal/server, and format the result.
// Expected failures are shown as a final spinner message and end the process
// with exit status 1.
package cmd
