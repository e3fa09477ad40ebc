package stego

import (
	"crypto/rand"
	"fmt"
	"io"

	kerrors "github.com/PolarWolf314/securehide/internal/errors"

	"golang.org/x/crypto/chacha20poly1305"
)

// Seal encrypts message under a key derived from password and returns the envelope.
//
// A fresh salt and nonce are drawn for every call, so sealing the same message
// twice never yields the same envelope. Oversized messages and invalid KDF
// parameters are rejected with ErrInvalidInput before any key derivation.
func Seal(message, password []byte, params KDFParams) (*Envelope, error) {
	if uint64(len(message)) > MaxMessageSize {
		return nil, fmt.Errorf("message of %d bytes exceeds the %d byte envelope limit: %w",
			len(message), uint64(MaxMessageSize), kerrors.ErrInvalidInput)
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", err, kerrors.ErrInvalidInput)
	}

	h := Header{Params: params, Length: uint32(len(message))}
	if _, err := io.ReadFull(rand.Reader, h.Salt[:]); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	if _, err := io.ReadFull(rand.Reader, h.Nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	key, err := deriveKey(password, h.Salt[:], params)
	if err != nil {
		return nil, err
	}
	defer Wipe(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	sealed := aead.Seal(nil, h.Nonce[:], message, h.MarshalBinary())
	return &Envelope{Header: h, Sealed: sealed}, nil
}

// Open verifies and decrypts env. No plaintext is returned unless the tag
// verifies; any verification failure is reported as ErrAuthentication.
func Open(env *Envelope, password []byte) ([]byte, error) {
	if uint64(len(env.Sealed)) != uint64(env.Header.Length)+TagSize {
		return nil, fmt.Errorf("sealed payload holds %d bytes, header declares %d: %w",
			len(env.Sealed), uint64(env.Header.Length)+TagSize, kerrors.ErrMalformedEnvelope)
	}
	if err := env.Header.Params.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", err, kerrors.ErrMalformedEnvelope)
	}

	key, err := deriveKey(password, env.Header.Salt[:], env.Header.Params)
	if err != nil {
		return nil, err
	}
	defer Wipe(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	plaintext, err := aead.Open(nil, env.Header.Nonce[:], env.Sealed, env.Header.MarshalBinary())
	if err != nil {
		return nil, kerrors.ErrAuthentication
	}
	return plaintext, nil
}

// OpenBytes parses a serialised envelope and opens it.
func OpenBytes(b, password []byte) ([]byte, error) {
	env, err := ParseEnvelope(b)
	if err != nil {
		return nil, err
	}
	return Open(env, password)
}
