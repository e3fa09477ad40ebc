package stego

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/PolarWolf314/securehide/internal/carrier"
	kerrors "github.com/PolarWolf314/securehide/internal/errors"
)

// DefaultMinPasswordLength is the shortest password Hide accepts, in characters.
const DefaultMinPasswordLength = 6

// Options configures Hide.
type Options struct {
	// KDF sets the Argon2id cost written into the envelope.
	KDF KDFParams

	// MinPasswordLength is measured in characters. Values below
	// DefaultMinPasswordLength are raised to it.
	MinPasswordLength int
}

// DefaultOptions returns Options with the default KDF cost and password policy.
func DefaultOptions() Options {
	return Options{
		KDF:               DefaultKDFParams(),
		MinPasswordLength: DefaultMinPasswordLength,
	}
}

func (o Options) minPasswordLength() int {
	return effectiveMinPasswordLength(o.MinPasswordLength)
}

// effectiveMinPasswordLength never goes below DefaultMinPasswordLength.
func effectiveMinPasswordLength(n int) int {
	if n < DefaultMinPasswordLength {
		return DefaultMinPasswordLength
	}
	return n
}

// ValidateHideInput applies the message and password policy. It does no crypto
// work so callers can reject bad input before reading large uploads.
// minPasswordLength can raise the floor but not lower it.
func ValidateHideInput(message, password []byte, minPasswordLength int) error {
	minPasswordLength = effectiveMinPasswordLength(minPasswordLength)
	if len(message) == 0 {
		return fmt.Errorf("message cannot be empty: %w", kerrors.ErrInvalidInput)
	}
	if uint64(len(message)) > MaxMessageSize {
		return fmt.Errorf("message of %d bytes is too large: %w", len(message), kerrors.ErrInvalidInput)
	}
	if utf8.RuneCount(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters: %w", minPasswordLength, kerrors.ErrInvalidInput)
	}
	return nil
}

// Hide seals message under password and embeds the envelope into a copy of img.
//
// Input policy and carrier capacity are checked before any key derivation, so
// a message that cannot fit fails fast with a *CapacityError. ctx is consulted
// between phases only. img is never modified.
func Hide(ctx context.Context, img *carrier.Image, message, password []byte, opts Options) (*carrier.Image, error) {
	if err := ValidateHideInput(message, password, opts.minPasswordLength()); err != nil {
		return nil, err
	}
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if err := CheckFit(img.CapacityBits(), len(message)); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	env, err := Seal(message, password, opts.KDF)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return Embed(img, env.Bytes())
}

// Reveal extracts and opens the envelope in img.
//
// Structural problems surface as ErrTruncatedCarrier or ErrMalformedEnvelope
// before any key derivation; a wrong password or a tampered carrier surfaces
// as ErrAuthentication.
func Reveal(ctx context.Context, img *carrier.Image, password []byte) ([]byte, error) {
	if len(password) == 0 {
		return nil, fmt.Errorf("password is required: %w", kerrors.ErrInvalidInput)
	}

	raw, err := Unpack(img)
	if err != nil {
		return nil, err
	}

	env, err := ParseEnvelope(raw)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return Open(env, password)
}

// Fit summarises whether a message of a given size fits a carrier.
type Fit struct {
	Width           int  `json:"width"`
	Height          int  `json:"height"`
	CapacityBits    int  `json:"capacity_bits"`
	RequiredBits    int  `json:"required_bits"`
	MaxMessageBytes int  `json:"max_message_bytes"`
	Fits            bool `json:"fits"`
}

// Estimate reports the exact fit of an n-byte message in a width x height carrier.
func Estimate(width, height, n int) Fit {
	capacity := carrier.CapacityBits(width, height)
	required := RequiredBits(n)
	return Fit{
		Width:           width,
		Height:          height,
		CapacityBits:    capacity,
		RequiredBits:    required,
		MaxMessageBytes: MaxMessageBytes(capacity),
		Fits:            required <= capacity,
	}
}
