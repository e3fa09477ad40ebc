package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/securehide/internal/audit"
	"github.com/PolarWolf314/securehide/internal/carrier"
	"github.com/PolarWolf314/securehide/internal/configs"
	kerrors "github.com/PolarWolf314/securehide/internal/errors"
	"github.com/PolarWolf314/securehide/internal/stego"
	"github.com/PolarWolf314/securehide/internal/utils"
)

// HideOptions configures the hide workflow.
type HideOptions struct {
	// InputPath is the carrier image to read.
	InputPath string

	// OutputPath is where the stego image is written. If empty, it defaults to
	// "<name>.hidden.<ext>" next to the input.
	OutputPath string

	// Message is the plaintext to hide.
	Message []byte

	// Password is wiped by Hide once the envelope is sealed.
	Password []byte

	// Force overwrites an existing output file.
	Force bool

	// Config supplies the KDF cost and input policy. Nil means defaults.
	Config *configs.Config
}

// HideResult contains the outcome of a hide operation.
type HideResult struct {
	InputPath    string
	OutputPath   string
	Format       string
	Width        int
	Height       int
	CapacityBits int
	EnvelopeBits int
}

// Hide embeds an encrypted message into a carrier file and writes the result.
//
// The output keeps the carrier's dimensions. Its format follows the output
// path's extension, or the carrier's own format when no output path is given.
//
// Returns ErrFileNotFound if the carrier does not exist.
// Returns ErrOutputExists if the output exists and Force is false.
// Returns ErrInvalidImage or ErrUnsupportedFormat for unusable carriers.
// Returns a *CapacityError if the message does not fit.
func Hide(ctx context.Context, opts HideOptions) (*HideResult, error) {
	defer stego.Wipe(opts.Password)

	cfg := configOrDefault(opts.Config)
	entry := audit.LogWithUser(audit.OpHide)
	entry.Image = opts.InputPath

	result, err := hide(ctx, opts, cfg)
	if result != nil {
		entry.Output = result.OutputPath
		entry.Format = result.Format
		entry.Width = result.Width
		entry.Height = result.Height
		entry.CapacityBits = result.CapacityBits
		entry.EnvelopeBits = result.EnvelopeBits
	}
	logOutcome(entry, err)

	if err != nil {
		return nil, err
	}
	return result, nil
}

func hide(ctx context.Context, opts HideOptions, cfg *configs.Config) (*HideResult, error) {
	// Reject bad input before decoding a potentially large image.
	if err := stego.ValidateHideInput(opts.Message, opts.Password, cfg.Policy.MinPasswordLength); err != nil {
		return nil, err
	}

	img, err := carrier.Load(opts.InputPath, cfg.Policy.MaxImagePixels)
	if err != nil {
		return nil, err
	}

	result := &HideResult{
		InputPath:    opts.InputPath,
		Format:       img.Format,
		Width:        img.Width,
		Height:       img.Height,
		CapacityBits: img.CapacityBits(),
		EnvelopeBits: stego.RequiredBits(len(opts.Message)),
	}

	format, err := outputFormat(opts.OutputPath, img.Format)
	if err != nil {
		return result, err
	}
	result.Format = format.Name

	result.OutputPath = opts.OutputPath
	if result.OutputPath == "" {
		result.OutputPath = utils.DefaultOutputPath(opts.InputPath, "")
	}
	if !opts.Force && utils.FileExists(result.OutputPath) {
		return result, fmt.Errorf("%s: %w", result.OutputPath, kerrors.ErrOutputExists)
	}

	stegoImg, err := stego.Hide(ctx, img, opts.Message, opts.Password, cfg.StegoOptions())
	if err != nil {
		return result, err
	}
	stegoImg.Format = format.Name

	if err := carrier.Save(result.OutputPath, stegoImg); err != nil {
		return result, err
	}

	return result, nil
}

// outputFormat picks the encoder for path, falling back to the carrier's format.
func outputFormat(path, carrierFormat string) (carrier.Format, error) {
	if path != "" {
		f, ok := carrier.FormatForPath(path)
		if !ok {
			return carrier.Format{}, fmt.Errorf("output %s must be .png, .bmp or .tiff: %w", path, kerrors.ErrUnsupportedFormat)
		}
		return f, nil
	}

	f, ok := carrier.LookupFormat(carrierFormat)
	if !ok {
		f, _ = carrier.LookupFormat(carrier.DefaultFormat)
	}
	return f, nil
}
