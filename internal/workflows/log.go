package workflows

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/PolarWolf314/securehide/internal/audit"
	kerrors "github.com/PolarWolf314/securehide/internal/errors"
	"github.com/PolarWolf314/securehide/internal/ui"
)

// LogOptions configures the log workflow.
type LogOptions struct {
	// Limit is the maximum number of entries to return. 0 means no limit.
	Limit int

	// Operations filters entries by operation types (comma-separated).
	Operations string
}

// LogResult contains the outcome of a log operation.
type LogResult struct {
	// Entries are the filtered audit log entries, oldest first.
	Entries []audit.Entry

	// TotalEntriesBeforeFilter is the count of entries before filtering.
	TotalEntriesBeforeFilter int
}

// Log reads and filters the audit log.
//
// Returns ErrNoAuditLog if nothing has been logged yet.
func Log(ctx context.Context, opts LogOptions) (*LogResult, error) {
	logPath := audit.LogPath()
	if logPath == "" {
		return nil, kerrors.ErrNoAuditLog
	}
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		return nil, kerrors.ErrNoAuditLog
	}

	entries, err := audit.ReadEntries()
	if err != nil {
		return nil, fmt.Errorf("reading audit log: %w", err)
	}

	result := &LogResult{TotalEntriesBeforeFilter: len(entries)}

	filtered := entries
	if opts.Operations != "" {
		filtered = filterByOperations(filtered, strings.Split(opts.Operations, ","))
	}
	result.Entries = audit.Filter(filtered, "", opts.Limit)

	return result, nil
}

// filterByOperations filters entries by operation types.
func filterByOperations(entries []audit.Entry, ops []string) []audit.Entry {
	opSet := make(map[string]bool)
	for _, op := range ops {
		opSet[strings.ToLower(strings.TrimSpace(op))] = true
	}

	var result []audit.Entry
	for _, e := range entries {
		if opSet[strings.ToLower(e.Operation)] {
			result = append(result, e)
		}
	}
	return result
}

// FormatDateTime formats a timestamp string to YYYY-MM-DD HH:MM:SS format.
func FormatDateTime(ts string) string {
	t, err := time.Parse("2006-01-02T15:04:05.000000Z", ts)
	if err != nil {
		t, err = time.Parse(time.RFC3339, ts)
	}
	if err != nil {
		if len(ts) >= 19 {
			return ts[:19]
		}
		return ts
	}
	return t.Format("2006-01-02 15:04:05")
}

// FormatActor renders who ran an entry as "user@host", or just the user when no host was recorded.
func FormatActor(e audit.Entry) string {
	if e.Host == "" {
		return e.User
	}
	return e.User + "@" + e.Host
}

// FormatDetails summarises the carrier and outcome of a log entry.
func FormatDetails(e audit.Entry) string {
	var parts []string
	if e.Image != "" {
		parts = append(parts, e.Image)
	}
	if e.Output != "" {
		parts = append(parts, "-> "+e.Output)
	}
	if e.Width > 0 && e.Height > 0 {
		parts = append(parts, ui.FormatDimensions(e.Width, e.Height))
	}
	if e.EnvelopeBits > 0 {
		parts = append(parts, ui.FormatUsage(e.EnvelopeBits, e.CapacityBits))
	}
	if e.Error != "" {
		parts = append(parts, "("+e.Error+")")
	}
	return strings.Join(parts, " ")
}
