package errors

import (
	"errors"
	"fmt"
)

// Input errors indicate the caller supplied something the codec cannot work with.
var (
	// ErrInvalidInput indicates a policy violation such as an empty message or a short password.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidImage indicates the carrier could not be decoded as a raster image.
	ErrInvalidImage = errors.New("invalid image")

	// ErrUnsupportedFormat indicates the carrier decoded but uses a lossy or palette format.
	ErrUnsupportedFormat = errors.New("unsupported carrier format")
)

// Capacity errors indicate the carrier is too small for the envelope.
var (
	// ErrCapacityExceeded indicates the envelope needs more bits than the carrier holds.
	ErrCapacityExceeded = errors.New("message does not fit in carrier image")
)

// Decode errors indicate extraction could not recover a message.
var (
	// ErrAuthentication indicates the envelope failed verification. The password may be
	// wrong or the carrier may have been modified; the two cases are indistinguishable.
	ErrAuthentication = errors.New("wrong password or no hidden message found")

	// ErrTruncatedCarrier indicates the carrier ran out of bits before the envelope ended.
	ErrTruncatedCarrier = errors.New("carrier image is too small for the declared envelope")

	// ErrMalformedEnvelope indicates the carrier does not hold a recognisable envelope.
	ErrMalformedEnvelope = errors.New("no valid envelope found in carrier image")
)

// File errors indicate issues with reading or writing files.
var (
	// ErrOutputExists indicates the output file already exists and --force was not given.
	ErrOutputExists = errors.New("output file already exists")

	// ErrFileNotFound indicates a specific file could not be located.
	ErrFileNotFound = errors.New("file not found")

	// ErrNoFilesFound indicates no files matched the provided patterns.
	ErrNoFilesFound = errors.New("no matching files found")

	// ErrNoAuditLog indicates the audit log has not been written yet.
	ErrNoAuditLog = errors.New("no audit log found")
)

// CapacityError reports how far an envelope overshoots its carrier.
type CapacityError struct {
	CapacityBits int
	RequiredBits int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s: need %d bits, carrier holds %d bits", ErrCapacityExceeded, e.RequiredBits, e.CapacityBits)
}

// Unwrap lets errors.Is match ErrCapacityExceeded.
func (e *CapacityError) Unwrap() error {
	return ErrCapacityExceeded
}

// Deficit returns the number of missing bits.
func (e *CapacityError) Deficit() int {
	return e.RequiredBits - e.CapacityBits
}
