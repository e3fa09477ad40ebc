// Package errors provides typed error values for SecureHide.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. The HTTP
// layer maps each sentinel onto a status code and the CLI onto a
// user-facing hint.
//
// # Error Categories
//
//   - Input errors: ErrInvalidInput, ErrInvalidImage, ErrUnsupportedFormat
//   - Capacity errors: ErrCapacityExceeded, carried by *CapacityError
//   - Decode errors: ErrAuthentication, ErrTruncatedCarrier, ErrMalformedEnvelope
//   - File errors: ErrOutputExists, ErrFileNotFound, ErrNoFilesFound, ErrNoAuditLog
//
// ErrAuthentication deliberately covers both a wrong password and a tampered
// carrier. Callers must not try to tell them apart.
//
// # Usage
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("password must be at least %d characters: %w", min, errors.ErrInvalidInput)
//
// Recover capacity numbers:
//
//	var capErr *kerrors.CapacityError
//	if errors.As(err, &capErr) {
//	    fmt.Printf("short by %d bits\n", capErr.Deficit())
//	}
package errors
