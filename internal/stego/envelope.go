package stego

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	kerrors "github.com/PolarWolf314/securehide/internal/errors"

	"golang.org/x/crypto/chacha20poly1305"
)

// Envelope layout, version 1. All integers are big-endian.
//
//	offset  size  field
//	0       3     magic "SHD"
//	3       1     version
//	4       4     argon2 time
//	8       4     argon2 memory (KiB)
//	12      1     argon2 threads
//	13      16    salt
//	29      24    nonce
//	53      4     ciphertext length, tag excluded
//	57      n     ciphertext
//	57+n    16    poly1305 tag
//
// The 57 header bytes are authenticated as associated data.
const (
	Version = 1

	NonceSize = chacha20poly1305.NonceSizeX
	TagSize   = chacha20poly1305.Overhead

	magicSize  = 3
	paramsSize = 4 + 4 + 1
	lengthSize = 4

	HeaderSize = magicSize + 1 + paramsSize + SaltSize + NonceSize + lengthSize
	HeaderBits = HeaderSize * 8

	// Overhead is the fixed number of envelope bytes around the ciphertext.
	Overhead = HeaderSize + TagSize

	// MaxMessageSize is the largest message the length prefix can describe.
	MaxMessageSize = math.MaxUint32
)

var magic = [magicSize]byte{'S', 'H', 'D'}

// Header is the fixed-width prefix of an envelope.
type Header struct {
	Params KDFParams
	Salt   [SaltSize]byte
	Nonce  [NonceSize]byte
	Length uint32
}

// Envelope is a header plus the sealed ciphertext (ciphertext || tag).
type Envelope struct {
	Header Header
	Sealed []byte
}

// MarshalBinary encodes h into its HeaderSize-byte wire form.
func (h Header) MarshalBinary() []byte {
	b := make([]byte, 0, HeaderSize)
	b = append(b, magic[:]...)
	b = append(b, Version)
	b = binary.BigEndian.AppendUint32(b, h.Params.Time)
	b = binary.BigEndian.AppendUint32(b, h.Params.MemoryKiB)
	b = append(b, h.Params.Threads)
	b = append(b, h.Salt[:]...)
	b = append(b, h.Nonce[:]...)
	b = binary.BigEndian.AppendUint32(b, h.Length)
	return b
}

// ParseHeader decodes the first HeaderSize bytes of b.
//
// Returns ErrMalformedEnvelope when b is too short, the magic or version is
// wrong, or the KDF parameters fall outside the accepted bounds.
func ParseHeader(b []byte) (Header, error) {
	var h Header
	if len(b) < HeaderSize {
		return h, fmt.Errorf("envelope header needs %d bytes, got %d: %w", HeaderSize, len(b), kerrors.ErrMalformedEnvelope)
	}
	if !bytes.Equal(b[:magicSize], magic[:]) {
		return h, fmt.Errorf("missing envelope marker: %w", kerrors.ErrMalformedEnvelope)
	}
	if b[magicSize] != Version {
		return h, fmt.Errorf("unsupported envelope version %d: %w", b[magicSize], kerrors.ErrMalformedEnvelope)
	}

	off := magicSize + 1
	h.Params.Time = binary.BigEndian.Uint32(b[off:])
	h.Params.MemoryKiB = binary.BigEndian.Uint32(b[off+4:])
	h.Params.Threads = b[off+8]
	off += paramsSize

	if err := h.Params.Validate(); err != nil {
		return h, fmt.Errorf("%v: %w", err, kerrors.ErrMalformedEnvelope)
	}

	off += copy(h.Salt[:], b[off:])
	off += copy(h.Nonce[:], b[off:])
	h.Length = binary.BigEndian.Uint32(b[off:])

	return h, nil
}

// Size returns the total envelope length in bytes described by h.
func (h Header) Size() uint64 {
	return uint64(HeaderSize) + uint64(h.Length) + uint64(TagSize)
}

// Bytes serialises the envelope.
func (e *Envelope) Bytes() []byte {
	b := e.Header.MarshalBinary()
	return append(b, e.Sealed...)
}

// Size returns the envelope length in bytes.
func (e *Envelope) Size() int {
	return HeaderSize + len(e.Sealed)
}

// Bits returns the envelope length in bits.
func (e *Envelope) Bits() int {
	return e.Size() * 8
}

// ParseEnvelope decodes a complete envelope. The length prefix must account
// for every byte after the header.
func ParseEnvelope(b []byte) (*Envelope, error) {
	h, err := ParseHeader(b)
	if err != nil {
		return nil, err
	}
	if uint64(len(b)) != h.Size() {
		return nil, fmt.Errorf("length prefix declares %d bytes, buffer holds %d: %w", h.Size(), len(b), kerrors.ErrMalformedEnvelope)
	}

	sealed := make([]byte, len(b)-HeaderSize)
	copy(sealed, b[HeaderSize:])

	return &Envelope{Header: h, Sealed: sealed}, nil
}

// EnvelopeSize returns the exact envelope size in bytes for an n-byte message.
func EnvelopeSize(n int) int {
	return Overhead + n
}

// RequiredBits returns the exact number of carrier bits an n-byte message needs.
func RequiredBits(n int) int {
	return EnvelopeSize(n) * 8
}

// MaxMessageBytes returns the largest message that fits in capacityBits.
func MaxMessageBytes(capacityBits int) int {
	n := capacityBits/8 - Overhead
	if n < 0 {
		return 0
	}
	return n
}

// CheckFit returns a *CapacityError when an n-byte message does not fit in capacityBits.
func CheckFit(capacityBits, n int) error {
	required := RequiredBits(n)
	if required > capacityBits {
		return &kerrors.CapacityError{CapacityBits: capacityBits, RequiredBits: required}
	}
	return nil
}
