package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/PolarWolf314/securehide/internal/audit"
	kerrors "github.com/PolarWolf314/securehide/internal/errors"
	"github.com/PolarWolf314/securehide/internal/ui"
	"github.com/PolarWolf314/securehide/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	logLimit     int
	logOperation string
	logJSON      bool
)

func init() {
	logCmd.Flags().IntVarP(&logLimit, "number", "n", 0, "limit number of entries shown")
	logCmd.Flags().StringVar(&logOperation, "op", "", "filter by operation (comma-separated: hide,reveal,capacity)")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "output as JSON array")
}

// resetLogCommandState resets the log command's global state for testing.
func resetLogCommandState() {
	logLimit = 0
	logOperation = ""
	logJSON = false
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View the audit log",
	Long: `Displays the local audit log of hide, reveal and capacity runs.

Entries record the image, the outcome and the user. Messages and passwords
are never logged.

Examples:
  securehide log                 # View full log
  securehide log -n 10           # Last 10 entries
  securehide log --op reveal     # Only reveal attempts
  securehide log --json          # JSON output`,
	RunE: runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting log command")
	Logger.Debugf("Reading audit log at %s", audit.LogPath())

	result, err := workflows.Log(context.Background(), workflows.LogOptions{
		Limit:      logLimit,
		Operations: logOperation,
	})
	if err != nil {
		if errors.Is(err, kerrors.ErrNoAuditLog) {
			fmt.Println(ui.Info.Sprint("ℹ") + " No audit log found. Operations will be logged after running hide, reveal or capacity.")
			return nil
		}
		fmt.Println(ui.Error.Sprint("✗") + " Failed to read audit log: " + err.Error())
		return errReported
	}

	Logger.Debugf("Parsed %d entries, %d after filtering", result.TotalEntriesBeforeFilter, len(result.Entries))

	if len(result.Entries) == 0 {
		if result.TotalEntriesBeforeFilter == 0 {
			fmt.Println("No audit log entries found.")
		} else {
			fmt.Println("No audit log entries found matching the filters.")
		}
		return nil
	}

	if logJSON {
		return outputLogJSON(result.Entries)
	}

	outputLogDefault(result.Entries)
	return nil
}

func outputLogJSON(entries []audit.Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal entries to JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func outputLogDefault(entries []audit.Entry) {
	for _, e := range entries {
		datetime := workflows.FormatDateTime(e.Timestamp)
		outcome := ui.Success.Sprint("✓")
		if e.Outcome == audit.OutcomeFailure {
			outcome = ui.Error.Sprint("✗")
		}
		fmt.Printf("%-19s  %-24s  %-8s %s  %s\n", datetime, workflows.FormatActor(e), e.Operation, outcome, workflows.FormatDetails(e))
	}
}
