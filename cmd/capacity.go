package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PolarWolf314/securehide/internal/stego"
	"github.com/PolarWolf314/securehide/internal/ui"
	"github.com/PolarWolf314/securehide/internal/utils"
	"github.com/PolarWolf314/securehide/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	capacityWidth   int
	capacityHeight  int
	capacityMessage string
	capacityBytes   int
	capacityJSON    bool
)

func init() {
	capacityCmd.Flags().IntVar(&capacityWidth, "width", 0, "carrier width in pixels, when no image is given")
	capacityCmd.Flags().IntVar(&capacityHeight, "height", 0, "carrier height in pixels, when no image is given")
	capacityCmd.Flags().StringVarP(&capacityMessage, "message", "m", "", "check whether this message fits")
	capacityCmd.Flags().IntVar(&capacityBytes, "message-bytes", 0, "check whether a message of this many bytes fits")
	capacityCmd.Flags().BoolVar(&capacityJSON, "json", false, "output as JSON array")
	capacityCmd.MarkFlagsMutuallyExclusive("message", "message-bytes")
}

// resetCapacityCommandState resets the capacity command's global state for testing.
func resetCapacityCommandState() {
	capacityWidth = 0
	capacityHeight = 0
	capacityMessage = ""
	capacityBytes = 0
	capacityJSON = false
}

var capacityCmd = &cobra.Command{
	Use:   "capacity [PATTERN...]",
	Short: "Show how much an image can hold",
	Long: `Reports the capacity of carrier images and whether a message fits.

Patterns may be plain paths or globs, including ** for recursive matches.
Only image headers are read. Without patterns, --width and --height
describe a hypothetical image.

Examples:
  securehide capacity cat.png
  securehide capacity "photos/**/*.png" -m "meet at noon"
  securehide capacity --width 1920 --height 1080 --json`,
	RunE: runCapacity,
}

type capacityJSONEntry struct {
	Path   string `json:"path,omitempty"`
	Format string `json:"format,omitempty"`
	Error  string `json:"error,omitempty"`
	stego.Fit
}

func runCapacity(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting capacity command")

	n := capacityBytes
	if capacityMessage != "" {
		n = len(capacityMessage)
	}

	result, err := workflows.Capacity(context.Background(), workflows.CapacityOptions{
		Patterns:     args,
		Width:        capacityWidth,
		Height:       capacityHeight,
		MessageBytes: n,
	})
	if err != nil {
		Logger.Errorf("Capacity failed: %v", err)
		fmt.Println(formatError(err))
		return errReported
	}
	Logger.Debugf("Inspected %d carriers", len(result.Reports))

	if capacityJSON {
		return outputCapacityJSON(result.Reports)
	}

	var unusable []string
	for _, r := range result.Reports {
		if r.Err != nil {
			Logger.Warnf("%s: %v", r.Path, r.Err)
			unusable = append(unusable, r.Path)
			continue
		}
		fmt.Println(formatCapacityReport(r, n))
	}

	if len(unusable) > 0 {
		fmt.Printf("%s %d file(s) cannot carry a message:%s", ui.Error.Sprint("✗"), len(unusable), utils.FormatPaths(unusable))
		if !verbose && !debug {
			fmt.Println(ui.Info.Sprint("→") + " Run with " + ui.Flag.Sprint("--verbose") + " to see why")
		}
	}
	return nil
}

func formatCapacityReport(r workflows.CapacityReport, n int) string {
	name := r.Path
	if name == "" {
		name = ui.FormatDimensions(r.Width, r.Height) + " image"
	}

	var b strings.Builder
	b.WriteString(ui.Path.Sprint(name))
	if r.Format != "" {
		b.WriteString(" " + ui.Muted.Sprint(r.Format))
	}
	fmt.Fprintf(&b, "\n  %s, holds %s, messages up to %s bytes",
		ui.FormatDimensions(r.Width, r.Height), ui.FormatBits(r.CapacityBits), ui.Highlight.Sprint(r.MaxMessageBytes))

	if n > 0 {
		b.WriteString("\n  " + ui.FormatFit(n, r.Fits, r.RequiredBits))
	}
	return b.String()
}

func outputCapacityJSON(reports []workflows.CapacityReport) error {
	entries := make([]capacityJSONEntry, len(reports))
	for i, r := range reports {
		entries[i] = capacityJSONEntry{Path: r.Path, Format: r.Format, Fit: r.Fit}
		if r.Err != nil {
			entries[i].Error = r.Err.Error()
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal capacity to JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
