package cmd

import (
	"context"
	"os"

	"github.com/PolarWolf314/securehide/internal/ui"
	"github.com/PolarWolf314/securehide/internal/utils"
	"github.com/PolarWolf314/securehide/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	hideInput       string
	hideMessage     string
	hideMessageFile string
	hideOutput      string
	hideForce       bool
)

func init() {
	hideCmd.Flags().StringVarP(&hideInput, "input", "i", "", "carrier image (PNG, BMP or TIFF)")
	hideCmd.Flags().StringVarP(&hideMessage, "message", "m", "", "message to hide")
	hideCmd.Flags().StringVarP(&hideMessageFile, "file", "f", "", "read the message from a file")
	hideCmd.Flags().StringVarP(&hideOutput, "output", "o", "", "output image (default <input>.hidden.<ext>)")
	hideCmd.Flags().BoolVar(&hideForce, "force", false, "overwrite the output if it exists")
	_ = hideCmd.MarkFlagRequired("input")
	hideCmd.MarkFlagsMutuallyExclusive("message", "file")
}

// resetHideCommandState resets the hide command's global state for testing.
func resetHideCommandState() {
	hideInput = ""
	hideMessage = ""
	hideMessageFile = ""
	hideOutput = ""
	hideForce = false
}

var hideCmd = &cobra.Command{
	Use:   "hide",
	Short: "Encrypt a message and hide it in an image",
	Long: `Encrypts a message with a password and hides it in the low bits of an image.

The message comes from --message, --file, or standard input. The password is
read from SECUREHIDE_PASSWORD, or prompted for twice on the terminal.

The output keeps the carrier's dimensions. Its format follows the output
file's extension (.png, .bmp, .tif/.tiff).

Examples:
  securehide hide -i cat.png -m "meet at noon"
  securehide hide -i cat.png -f letter.txt -o postcard.png
  echo "secret" | securehide hide -i scan.bmp --force`,
	RunE: runHide,
}

func runHide(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting hide command")

	message, err := readMessage()
	if err != nil {
		return Logger.ErrorfAndReturn("Failed to read message: %v", err)
	}
	Logger.Debugf("Message is %d bytes", len(message))

	cfg, err := loadConfig()
	if err != nil {
		return Logger.ErrorfAndReturn("Failed to load config: %v", err)
	}

	password, err := utils.GetPassword(true)
	if err != nil {
		return Logger.ErrorfAndReturn("Failed to read password: %v", err)
	}

	spinner, cleanup := startSpinner("Encrypting and hiding message...", verbose)
	defer cleanup()

	Logger.Debugf("Hiding in %s with KDF %s", hideInput, cfg.KDFParams())
	result, err := workflows.Hide(context.Background(), workflows.HideOptions{
		InputPath:  hideInput,
		OutputPath: hideOutput,
		Message:    message,
		Password:   password,
		Force:      hideForce,
		Config:     cfg,
	})
	if err != nil {
		Logger.Errorf("Hide failed: %v", err)
		spinner.FinalMSG = formatError(err)
		return errReported
	}

	Logger.Infof("Hide command completed successfully")
	spinner.FinalMSG = ui.Success.Sprint("✓") + " Message hidden in " + ui.Path.Sprint(result.OutputPath) + "\n" +
		"  " + ui.FormatDimensions(result.Width, result.Height) + " " + result.Format +
		", used " + ui.FormatUsage(result.EnvelopeBits, result.CapacityBits) + "\n" +
		ui.Info.Sprint("→") + " Recover it with " + ui.Code.Sprint("securehide reveal -i "+result.OutputPath)
	return nil
}

// readMessage returns the message from --message, --file, or piped stdin.
func readMessage() ([]byte, error) {
	switch {
	case hideMessage != "":
		return []byte(hideMessage), nil
	case hideMessageFile != "":
		data, err := os.ReadFile(hideMessageFile)
		if err != nil {
			return nil, err
		}
		return data, nil
	default:
		return utils.ReadStdin()
	}
}
