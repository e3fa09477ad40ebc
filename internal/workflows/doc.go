// Package workflows provides high-level orchestration for SecureHide commands.
//
// Workflows coordinate the carrier, stego, configs and audit packages to
// implement complete file-level features. Each workflow handles a single
// command's business logic, independent of CLI concerns like flag parsing,
// spinners, and output formatting.
//
// # Available Workflows
//
//   - Hide: seals a message and writes a stego image next to the carrier
//   - Reveal: recovers the message from a stego image
//   - Capacity: reports carrier capacity for files, globs or bare dimensions
//   - Log: reads and filters the audit trail
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package, allowing
// the CLI layer to provide appropriate user-facing messages without string
// matching:
//
//	result, err := workflows.Reveal(ctx, opts)
//	if errors.Is(err, kerrors.ErrAuthentication) {
//	    // Wrong password, or the image was modified
//	}
//
// # Secrets
//
// Hide and Reveal wipe the password buffer they are given before returning.
// Audit entries never contain messages or passwords.
package workflows
