package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/PolarWolf314/securehide/internal/ui"
	"github.com/PolarWolf314/securehide/internal/utils"
	"github.com/PolarWolf314/securehide/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	revealInput  string
	revealOutput string
)

func init() {
	revealCmd.Flags().StringVarP(&revealInput, "input", "i", "", "image holding a hidden message")
	revealCmd.Flags().StringVarP(&revealOutput, "output", "o", "", "write the message to a file instead of stdout")
	_ = revealCmd.MarkFlagRequired("input")
}

// resetRevealCommandState resets the reveal command's global state for testing.
func resetRevealCommandState() {
	revealInput = ""
	revealOutput = ""
}

var revealCmd = &cobra.Command{
	Use:     "reveal",
	Aliases: []string{"extract"},
	Short:   "Recover a message hidden in an image",
	Long: `Extracts and decrypts a message hidden with 'securehide hide'.

The password is read from SECUREHIDE_PASSWORD, or prompted for on the terminal.
A wrong password and a modified image give the same error.

Examples:
  securehide reveal -i cat.hidden.png
  securehide extract -i postcard.png -o letter.txt`,
	RunE: runReveal,
}

func runReveal(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting reveal command")

	cfg, err := loadConfig()
	if err != nil {
		return Logger.ErrorfAndReturn("Failed to load config: %v", err)
	}

	password, err := utils.GetPassword(false)
	if err != nil {
		return Logger.ErrorfAndReturn("Failed to read password: %v", err)
	}

	spinner, cleanup := startSpinner("Revealing message...", verbose)
	defer cleanup()

	result, err := workflows.Reveal(context.Background(), workflows.RevealOptions{
		InputPath: revealInput,
		Password:  password,
		Config:    cfg,
	})
	if err != nil {
		Logger.Errorf("Reveal failed: %v", err)
		spinner.FinalMSG = formatError(err)
		return errReported
	}

	if revealOutput != "" {
		Logger.Debugf("Writing %d bytes to %s", len(result.Message), revealOutput)
		if err := os.WriteFile(revealOutput, result.Message, 0600); err != nil {
			spinner.FinalMSG = formatError(fmt.Errorf("failed to write %s: %w", revealOutput, err))
			return errReported
		}
		spinner.FinalMSG = ui.Success.Sprint("✓") + " Message written to " + ui.Path.Sprint(revealOutput)
		return nil
	}

	Logger.Infof("Reveal command completed successfully")
	spinner.FinalMSG = ui.Success.Sprint("✓") + " Hidden message:\n" + string(result.Message)
	return nil
}
