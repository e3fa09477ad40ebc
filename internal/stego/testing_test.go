package stego

import (
	"math/rand"
	"testing"

	"github.com/PolarWolf314/securehide/internal/carrier"
)

// fastKDF keeps Argon2id cheap in tests.
var fastKDF = KDFParams{Time: 1, MemoryKiB: 64, Threads: 1}

func fastOptions() Options {
	return Options{KDF: fastKDF, MinPasswordLength: DefaultMinPasswordLength}
}

// noiseImage returns a deterministic pseudo-random carrier.
func noiseImage(t *testing.T, w, h, channels int, seed int64) *carrier.Image {
	t.Helper()
	pix := make([]byte, w*h*channels)
	rand.New(rand.NewSource(seed)).Read(pix)

	img, err := carrier.New(w, h, channels, pix)
	if err != nil {
		t.Fatalf("carrier.New failed: %v", err)
	}
	return img
}
