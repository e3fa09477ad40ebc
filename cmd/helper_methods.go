package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/PolarWolf314/securehide/internal/configs"
	kerrors "github.com/PolarWolf314/securehide/internal/errors"
	"github.com/PolarWolf314/securehide/internal/ui"

	"github.com/briandowns/spinner"
)

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// IMPORTANT: spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// automatically calls ui.EnsureNewline() on the final message before printing it.
func startSpinner(message string, verbose bool) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	if !verbose && !debug {
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		if !verbose && !debug {
			log.SetOutput(os.Stdout)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if !verbose && !debug {
			s.Stop()
		}

		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// loadConfig reads the config file, falling back to defaults when it does not exist.
func loadConfig() (*configs.Config, error) {
	Logger.Debugf("Loading config from %s", configs.SecureHideSettings.ConfigPath)
	cfg, err := configs.Load()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// formatError renders a workflow error for the spinner's final message.
func formatError(err error) string {
	var capErr *kerrors.CapacityError
	switch {
	case errors.As(err, &capErr):
		return ui.Error.Sprint("✗") + " Message does not fit in this image\n" +
			"  needs " + ui.Highlight.Sprint(ui.FormatBits(capErr.RequiredBits)) +
			", image holds " + ui.Highlight.Sprint(ui.FormatBits(capErr.CapacityBits)) + "\n" +
			ui.Info.Sprint("→") + " Use a larger image or a shorter message; " +
			ui.Code.Sprint("securehide capacity") + " shows the limit"

	case errors.Is(err, kerrors.ErrAuthentication):
		return ui.Error.Sprint("✗") + " Wrong password or no hidden message found"

	case errors.Is(err, kerrors.ErrMalformedEnvelope), errors.Is(err, kerrors.ErrTruncatedCarrier):
		return ui.Error.Sprint("✗") + " No hidden message found in this image\n" +
			ui.Muted.Sprint(err.Error())

	case errors.Is(err, kerrors.ErrUnsupportedFormat):
		return ui.Error.Sprint("✗") + " " + err.Error() + "\n" +
			ui.Info.Sprint("→") + " Convert the image to PNG, BMP or TIFF first"

	case errors.Is(err, kerrors.ErrInvalidImage):
		return ui.Error.Sprint("✗") + " Not a usable image: " + err.Error()

	case errors.Is(err, kerrors.ErrInvalidInput):
		return ui.Error.Sprint("✗") + " " + err.Error()

	case errors.Is(err, kerrors.ErrFileNotFound):
		return ui.Error.Sprint("✗") + " File not found: " + err.Error()

	case errors.Is(err, kerrors.ErrOutputExists):
		return ui.Error.Sprint("✗") + " " + err.Error() + "\n" +
			ui.Info.Sprint("→") + " Pass " + ui.Flag.Sprint("--force") + " to overwrite it"

	case errors.Is(err, kerrors.ErrNoFilesFound):
		return ui.Error.Sprint("✗") + " No images matched the given patterns"

	default:
		return ui.Error.Sprint("✗") + " " + err.Error()
	}
}
