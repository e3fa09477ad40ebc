package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/PolarWolf314/securehide/internal/configs"
	"github.com/PolarWolf314/securehide/internal/utils"

	"github.com/google/uuid"
)

// Operation names recorded in the log.
const (
	OpHide     = "hide"
	OpReveal   = "reveal"
	OpCapacity = "capacity"
)

// Outcomes recorded in the log.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Entry represents a single audit log entry. It never carries a message or a password.
type Entry struct {
	Timestamp string `json:"ts"`   // RFC3339 with microseconds.
	ID        string `json:"id"`   // Random UUID per entry.
	User      string `json:"user"` // OS username running the command.
	Host      string `json:"host,omitempty"` // Machine the command ran on.
	Operation string `json:"op"`   // Operation name.
	Outcome   string `json:"outcome,omitempty"`

	// Optional fields depending on operation.
	Image        string `json:"image,omitempty"`         // Carrier path.
	Output       string `json:"output,omitempty"`        // For hide.
	Format       string `json:"format,omitempty"`        // Carrier format.
	Width        int    `json:"width,omitempty"`         // Carrier width in pixels.
	Height       int    `json:"height,omitempty"`        // Carrier height in pixels.
	CapacityBits int    `json:"capacity_bits,omitempty"` // Carrier capacity.
	EnvelopeBits int    `json:"envelope_bits,omitempty"` // For hide.
	Error        string `json:"error,omitempty"`         // Failure kind.
}

// Log appends an entry to the audit log.
// If logging fails, it does not return an error.
// Operations should not fail just because audit logging failed.
func Log(entry Entry) {
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	logPath := LogPath()
	if logPath == "" {
		return
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	_, _ = f.Write(append(data, '\n'))
}

// LogWithUser returns an entry for op with the current OS user and hostname filled in.
// Either is left empty when it cannot be determined.
func LogWithUser(op string) Entry {
	entry := Entry{Operation: op}

	if username, err := utils.GetUsername(); err == nil {
		entry.User = username
	}
	if hostname, err := utils.GetHostname(); err == nil {
		entry.Host = hostname
	}

	return entry
}

// LogPath returns the path to the audit log file.
// Returns empty string if no data directory is configured.
func LogPath() string {
	if configs.SecureHideSettings == nil || configs.SecureHideSettings.DataPath == "" {
		return ""
	}
	return filepath.Join(configs.SecureHideSettings.DataPath, "audit.jsonl")
}

// ReadEntries reads all entries from the audit log.
// Returns an empty slice if the log doesn't exist.
func ReadEntries() ([]Entry, error) {
	logPath := LogPath()
	if logPath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(logPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}

// Filter returns the last n entries matching op. Empty op matches all; n <= 0 keeps all.
func Filter(entries []Entry, op string, n int) []Entry {
	var out []Entry
	for _, e := range entries {
		if op == "" || e.Operation == op {
			out = append(out, e)
		}
	}
	if n > 0 && len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}
