package stego

import (
	"fmt"

	kerrors "github.com/PolarWolf314/securehide/internal/errors"

	"golang.org/x/crypto/argon2"
)

const (
	// KeySize is the derived key length, sized for XChaCha20-Poly1305.
	KeySize = 32

	// SaltSize is the per-envelope Argon2id salt length.
	SaltSize = 16

	// Bounds accepted for KDF parameters, both when sealing and when reading them
	// back out of an untrusted carrier.
	MaxKDFTime      = 16
	MaxKDFThreads   = 64
	MaxKDFMemoryKiB = 1024 * 1024 // 1 GiB
)

// KDFParams are the Argon2id cost parameters. They travel inside every
// envelope so extraction never depends on local configuration.
type KDFParams struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
}

// DefaultKDFParams returns the parameters used when configuration does not override them.
func DefaultKDFParams() KDFParams {
	return KDFParams{
		Time:      3,
		MemoryKiB: 64 * 1024,
		Threads:   4,
	}
}

// Validate checks p against the accepted bounds.
func (p KDFParams) Validate() error {
	if p.Time < 1 || p.Time > MaxKDFTime {
		return fmt.Errorf("argon2 time cost %d outside 1..%d", p.Time, MaxKDFTime)
	}
	if p.Threads < 1 || p.Threads > MaxKDFThreads {
		return fmt.Errorf("argon2 parallelism %d outside 1..%d", p.Threads, MaxKDFThreads)
	}
	if p.MemoryKiB < 8*uint32(p.Threads) || p.MemoryKiB > MaxKDFMemoryKiB {
		return fmt.Errorf("argon2 memory %d KiB outside %d..%d", p.MemoryKiB, 8*uint32(p.Threads), MaxKDFMemoryKiB)
	}
	return nil
}

func (p KDFParams) String() string {
	return fmt.Sprintf("argon2id(t=%d, m=%dKiB, p=%d)", p.Time, p.MemoryKiB, p.Threads)
}

// deriveKey runs Argon2id. The caller owns the returned key and must Wipe it.
func deriveKey(password, salt []byte, p KDFParams) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", err, kerrors.ErrInvalidInput)
	}
	return argon2.IDKey(password, salt, p.Time, p.MemoryKiB, p.Threads, KeySize), nil
}
