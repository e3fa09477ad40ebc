// Package logger provides verbosity-gated logging for SecureHide.
//
// Output is formatted with coloured level prefixes from fatih/color.
//
// # Verbosity Levels
//
//   - --verbose: Shows info and warning messages
//   - --debug: Shows all messages including debug details and errors
//
// Without flags, only WarnfAlways output is shown. Command results are
// printed by the cmd package, not through the logger.
//
// # Usage
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Embedding %d bits", n)
//
// The HTTP server tags lines with the request id:
//
//	reqLog := log.With(requestID)
package logger
