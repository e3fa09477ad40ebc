package stego

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/PolarWolf314/securehide/internal/carrier"
	kerrors "github.com/PolarWolf314/securehide/internal/errors"
)

func TestHideRevealScenario(t *testing.T) {
	ctx := context.Background()
	img := noiseImage(t, 100, 100, 3, 42)

	if img.CapacityBits() != 30000 {
		t.Fatalf("CapacityBits() = %d, want 30000", img.CapacityBits())
	}

	stego, err := Hide(ctx, img, []byte("hello"), []byte("correct-horse"), fastOptions())
	if err != nil {
		t.Fatalf("Hide failed: %v", err)
	}
	if stego.Width != 100 || stego.Height != 100 || len(stego.Pix) != len(img.Pix) {
		t.Fatalf("Hide changed geometry: %dx%d", stego.Width, stego.Height)
	}

	got, err := Reveal(ctx, stego, []byte("correct-horse"))
	if err != nil {
		t.Fatalf("Reveal failed: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("Reveal() = %q, want %q", got, "hello")
	}

	got, err = Reveal(ctx, stego, []byte("wrong-password"))
	if !errors.Is(err, kerrors.ErrAuthentication) {
		t.Errorf("expected ErrAuthentication, got %v", err)
	}
	if got != nil {
		t.Errorf("wrong password must not yield a message, got %q", got)
	}
}

func TestHideRevealRoundTripMatrix(t *testing.T) {
	ctx := context.Background()
	messages := []string{
		"x",
		"hello, world",
		"emoji 🔐 and accents éàü",
		string(bytes.Repeat([]byte("lorem ipsum "), 80)),
	}
	passwords := []string{"123456", "correct-horse", "пароль", "p@ss w0rd with spaces"}

	for _, channels := range []int{3, 4} {
		img := noiseImage(t, 64, 64, channels, int64(channels))
		for _, msg := range messages {
			for _, pw := range passwords {
				name := fmt.Sprintf("%dch/%d-bytes/%s", channels, len(msg), pw)
				t.Run(name, func(t *testing.T) {
					out, err := Hide(ctx, img, []byte(msg), []byte(pw), fastOptions())
					if err != nil {
						t.Fatalf("Hide failed: %v", err)
					}
					got, err := Reveal(ctx, out, []byte(pw))
					if err != nil {
						t.Fatalf("Reveal failed: %v", err)
					}
					if string(got) != msg {
						t.Errorf("Reveal() = %q, want %q", got, msg)
					}
				})
			}
		}
	}
}

func TestHideCapacityBoundary(t *testing.T) {
	ctx := context.Background()
	msg := []byte("hi")

	// (73 + 2) * 8 = 600 bits = 200 pixels exactly.
	exact := noiseImage(t, 20, 10, 3, 7)
	if exact.CapacityBits() != RequiredBits(len(msg)) {
		t.Fatalf("test carrier capacity %d != required %d", exact.CapacityBits(), RequiredBits(len(msg)))
	}

	out, err := Hide(ctx, exact, msg, []byte("correct-horse"), fastOptions())
	if err != nil {
		t.Fatalf("Hide at exact capacity failed: %v", err)
	}
	got, err := Reveal(ctx, out, []byte("correct-horse"))
	if err != nil || string(got) != "hi" {
		t.Fatalf("Reveal at exact capacity = %q, %v", got, err)
	}

	// One pixel short: 597 bits.
	short := noiseImage(t, 199, 1, 3, 8)
	before := append([]byte(nil), short.Pix...)

	_, err = Hide(ctx, short, msg, []byte("correct-horse"), fastOptions())
	var capErr *kerrors.CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected *CapacityError, got %v", err)
	}
	if capErr.CapacityBits != 597 || capErr.RequiredBits != 600 || capErr.Deficit() != 3 {
		t.Errorf("unexpected capacity report: %+v", capErr)
	}
	if !bytes.Equal(short.Pix, before) {
		t.Error("carrier modified on capacity failure")
	}
}

func TestHideIsNonDeterministic(t *testing.T) {
	ctx := context.Background()
	img := noiseImage(t, 50, 50, 3, 9)

	a, err := Hide(ctx, img, []byte("same"), []byte("correct-horse"), fastOptions())
	if err != nil {
		t.Fatalf("Hide failed: %v", err)
	}
	b, err := Hide(ctx, img, []byte("same"), []byte("correct-horse"), fastOptions())
	if err != nil {
		t.Fatalf("Hide failed: %v", err)
	}

	if bytes.Equal(a.Pix, b.Pix) {
		t.Error("two embeddings produced identical pixels")
	}

	for _, out := range []*carrier.Image{a, b} {
		got, err := Reveal(ctx, out, []byte("correct-horse"))
		if err != nil || string(got) != "same" {
			t.Errorf("Reveal() = %q, %v", got, err)
		}
	}
}

func TestHideDoesNotMutateCarrier(t *testing.T) {
	img := noiseImage(t, 30, 30, 4, 10)
	before := append([]byte(nil), img.Pix...)

	if _, err := Hide(context.Background(), img, []byte("hello"), []byte("correct-horse"), fastOptions()); err != nil {
		t.Fatalf("Hide failed: %v", err)
	}
	if !bytes.Equal(img.Pix, before) {
		t.Error("Hide modified the caller's carrier")
	}
}

func TestHideInputPolicy(t *testing.T) {
	img := noiseImage(t, 50, 50, 3, 11)

	tests := []struct {
		name     string
		message  string
		password string
	}{
		{"empty message", "", "correct-horse"},
		{"short password", "hello", "12345"},
		{"short multibyte password", "hello", "ñññ"},
		{"empty password", "hello", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Hide(context.Background(), img, []byte(tt.message), []byte(tt.password), fastOptions())
			if !errors.Is(err, kerrors.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestHideCustomPasswordPolicy(t *testing.T) {
	img := noiseImage(t, 50, 50, 3, 12)
	opts := fastOptions()
	opts.MinPasswordLength = 10

	_, err := Hide(context.Background(), img, []byte("hello"), []byte("correct"), opts)
	if !errors.Is(err, kerrors.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for 7-character password, got %v", err)
	}
}

func TestHidePasswordFloorCannotBeLowered(t *testing.T) {
	img := noiseImage(t, 50, 50, 3, 18)

	for _, min := range []int{-1, 0, 1, 5} {
		opts := fastOptions()
		opts.MinPasswordLength = min

		_, err := Hide(context.Background(), img, []byte("hello"), []byte("a"), opts)
		if !errors.Is(err, kerrors.ErrInvalidInput) {
			t.Errorf("MinPasswordLength=%d: expected ErrInvalidInput for 1-character password, got %v", min, err)
		}
		if err := ValidateHideInput([]byte("hello"), []byte("12345"), min); !errors.Is(err, kerrors.ErrInvalidInput) {
			t.Errorf("ValidateHideInput(min=%d) accepted a 5-character password", min)
		}
	}
}

func TestRevealNonStegoImage(t *testing.T) {
	img := noiseImage(t, 100, 100, 3, 13)

	msg, err := Reveal(context.Background(), img, []byte("correct-horse"))
	if !errors.Is(err, kerrors.ErrMalformedEnvelope) && !errors.Is(err, kerrors.ErrTruncatedCarrier) {
		t.Errorf("expected a structural error, got %v", err)
	}
	if msg != nil {
		t.Errorf("no message expected, got %q", msg)
	}
}

func TestRevealTamperedCarrier(t *testing.T) {
	ctx := context.Background()
	img := noiseImage(t, 40, 40, 3, 14)

	out, err := Hide(ctx, img, []byte("hello"), []byte("correct-horse"), fastOptions())
	if err != nil {
		t.Fatalf("Hide failed: %v", err)
	}

	// Flip the low bit holding the first ciphertext bit.
	idx := channelOffset(out, HeaderBits)
	out.Pix[idx] ^= 1

	if _, err := Reveal(ctx, out, []byte("correct-horse")); !errors.Is(err, kerrors.ErrAuthentication) {
		t.Errorf("expected ErrAuthentication, got %v", err)
	}
}

func TestRevealRequiresPassword(t *testing.T) {
	img := noiseImage(t, 40, 40, 3, 15)
	if _, err := Reveal(context.Background(), img, nil); !errors.Is(err, kerrors.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	img := noiseImage(t, 40, 40, 3, 16)

	if _, err := Hide(ctx, img, []byte("hello"), []byte("correct-horse"), fastOptions()); !errors.Is(err, context.Canceled) {
		t.Errorf("Hide: expected context.Canceled, got %v", err)
	}

	out, err := Hide(context.Background(), img, []byte("hello"), []byte("correct-horse"), fastOptions())
	if err != nil {
		t.Fatalf("Hide failed: %v", err)
	}
	if _, err := Reveal(ctx, out, []byte("correct-horse")); !errors.Is(err, context.Canceled) {
		t.Errorf("Reveal: expected context.Canceled, got %v", err)
	}
}

func TestConcurrentHideReveal(t *testing.T) {
	ctx := context.Background()
	img := noiseImage(t, 60, 60, 3, 17)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			msg := []byte(fmt.Sprintf("message %d", i))
			pw := []byte(fmt.Sprintf("password-%d", i))

			out, err := Hide(ctx, img, msg, pw, fastOptions())
			if err != nil {
				errs <- err
				return
			}
			got, err := Reveal(ctx, out, pw)
			if err != nil {
				errs <- err
				return
			}
			if !bytes.Equal(got, msg) {
				errs <- fmt.Errorf("goroutine %d: got %q", i, got)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestEstimate(t *testing.T) {
	fit := Estimate(100, 100, 5)
	want := Fit{
		Width:           100,
		Height:          100,
		CapacityBits:    30000,
		RequiredBits:    624,
		MaxMessageBytes: 3677,
		Fits:            true,
	}
	if fit != want {
		t.Errorf("Estimate() = %+v, want %+v", fit, want)
	}

	if Estimate(10, 10, 5).Fits {
		t.Error("a 10x10 carrier cannot fit any envelope")
	}
}
