package workflows

import (
	"context"

	"github.com/PolarWolf314/securehide/internal/audit"
	"github.com/PolarWolf314/securehide/internal/carrier"
	"github.com/PolarWolf314/securehide/internal/configs"
	"github.com/PolarWolf314/securehide/internal/stego"
)

// RevealOptions configures the reveal workflow.
type RevealOptions struct {
	// InputPath is the stego image to read.
	InputPath string

	// Password is wiped by Reveal once the envelope is opened.
	Password []byte

	// Config supplies the pixel limit. Nil means defaults.
	Config *configs.Config
}

// RevealResult contains the outcome of a reveal operation.
type RevealResult struct {
	InputPath string
	Format    string
	Width     int
	Height    int

	// Message is the recovered plaintext.
	Message []byte
}

// Reveal extracts and decrypts the message hidden in a stego image.
//
// Returns ErrFileNotFound if the image does not exist.
// Returns ErrTruncatedCarrier or ErrMalformedEnvelope if no envelope is present.
// Returns ErrAuthentication for a wrong password or a modified image.
func Reveal(ctx context.Context, opts RevealOptions) (*RevealResult, error) {
	defer stego.Wipe(opts.Password)

	cfg := configOrDefault(opts.Config)
	entry := audit.LogWithUser(audit.OpReveal)
	entry.Image = opts.InputPath

	img, err := carrier.Load(opts.InputPath, cfg.Policy.MaxImagePixels)
	if err != nil {
		logOutcome(entry, err)
		return nil, err
	}

	entry.Format = img.Format
	entry.Width = img.Width
	entry.Height = img.Height
	entry.CapacityBits = img.CapacityBits()

	message, err := stego.Reveal(ctx, img, opts.Password)
	logOutcome(entry, err)
	if err != nil {
		return nil, err
	}

	return &RevealResult{
		InputPath: opts.InputPath,
		Format:    img.Format,
		Width:     img.Width,
		Height:    img.Height,
		Message:   message,
	}, nil
}
