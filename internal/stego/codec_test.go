package stego

import (
	"bytes"
	"errors"
	"testing"

	kerrors "github.com/PolarWolf314/securehide/internal/errors"
)

func TestSealOpenRoundTrip(t *testing.T) {
	messages := [][]byte{
		[]byte("hello"),
		[]byte("üñíçødé ✓ 秘密"),
		bytes.Repeat([]byte{0x00, 0xff}, 512),
		{},
	}

	for _, msg := range messages {
		env, err := Seal(msg, []byte("correct-horse"), fastKDF)
		if err != nil {
			t.Fatalf("Seal failed: %v", err)
		}
		if env.Size() != EnvelopeSize(len(msg)) {
			t.Errorf("envelope size = %d, want %d", env.Size(), EnvelopeSize(len(msg)))
		}

		got, err := OpenBytes(env.Bytes(), []byte("correct-horse"))
		if err != nil {
			t.Fatalf("OpenBytes failed: %v", err)
		}
		if !bytes.Equal(got, msg) {
			t.Errorf("OpenBytes() = %q, want %q", got, msg)
		}
	}
}

func TestOpenWrongPassword(t *testing.T) {
	env, err := Seal([]byte("hello"), []byte("correct-horse"), fastKDF)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	got, err := Open(env, []byte("wrong-password"))
	if !errors.Is(err, kerrors.ErrAuthentication) {
		t.Fatalf("expected ErrAuthentication, got %v", err)
	}
	if got != nil {
		t.Errorf("no plaintext should be released on failure, got %q", got)
	}
}

func TestOpenDetectsTampering(t *testing.T) {
	env, err := Seal([]byte("attack at dawn"), []byte("correct-horse"), fastKDF)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	original := env.Bytes()

	tests := []struct {
		name  string
		index int
	}{
		{"salt", 13},
		{"nonce", 29},
		{"ciphertext", HeaderSize},
		{"tag", len(original) - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := append([]byte(nil), original...)
			b[tt.index] ^= 0x01

			_, err := OpenBytes(b, []byte("correct-horse"))
			if !errors.Is(err, kerrors.ErrAuthentication) {
				t.Errorf("expected ErrAuthentication, got %v", err)
			}
		})
	}
}

func TestOpenDetectsHeaderParamTampering(t *testing.T) {
	env, err := Seal([]byte("attack at dawn"), []byte("correct-horse"), fastKDF)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	// Still valid parameters, but not the ones the key was derived with.
	env.Header.Params.Time = 2

	if _, err := Open(env, []byte("correct-horse")); !errors.Is(err, kerrors.ErrAuthentication) {
		t.Errorf("expected ErrAuthentication, got %v", err)
	}
}

func TestSealIsRandomised(t *testing.T) {
	a, err := Seal([]byte("hello"), []byte("correct-horse"), fastKDF)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	b, err := Seal([]byte("hello"), []byte("correct-horse"), fastKDF)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	if a.Header.Salt == b.Header.Salt {
		t.Error("two envelopes share a salt")
	}
	if a.Header.Nonce == b.Header.Nonce {
		t.Error("two envelopes share a nonce")
	}
	if bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("two envelopes are identical")
	}
}

func TestSealRejectsInvalidParams(t *testing.T) {
	_, err := Seal([]byte("hello"), []byte("correct-horse"), KDFParams{})
	if !errors.Is(err, kerrors.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestOpenRejectsInconsistentEnvelope(t *testing.T) {
	env, err := Seal([]byte("hello"), []byte("correct-horse"), fastKDF)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	env.Sealed = env.Sealed[:len(env.Sealed)-1]

	if _, err := Open(env, []byte("correct-horse")); !errors.Is(err, kerrors.ErrMalformedEnvelope) {
		t.Errorf("expected ErrMalformedEnvelope, got %v", err)
	}
}

func TestWipe(t *testing.T) {
	b := []byte("secret key material")
	Wipe(b)
	for i, c := range b {
		if c != 0 {
			t.Fatalf("byte %d not wiped: %x", i, c)
		}
	}
}
