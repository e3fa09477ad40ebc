package cmd

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PolarWolf314/securehide/internal/audit"
	"github.com/PolarWolf314/securehide/internal/configs"
	"github.com/PolarWolf314/securehide/internal/utils"

	"github.com/maxatome/go-testdeep/td"
)

func TestHideAndReveal(t *testing.T) {
	dir := setupTestEnvironment(t)
	input := writeTestCarrier(t, dir, "cat.png", 100, 100)
	output := filepath.Join(dir, "cat.hidden.png")

	out, err := runCLI(t, "hide", "-i", input, "-m", "meet at noon")
	if err != nil {
		t.Fatalf("hide failed: %v\n%s", err, out)
	}
	td.Cmp(t, out, td.Contains("✓ Message hidden in "+output))
	td.Cmp(t, out, td.Contains("100x100 png"))

	out, err = runCLI(t, "reveal", "-i", output)
	if err != nil {
		t.Fatalf("reveal failed: %v\n%s", err, out)
	}
	td.Cmp(t, out, td.Contains("meet at noon"))

	out, err = runCLI(t, "extract", "-i", output)
	if err != nil {
		t.Fatalf("extract alias failed: %v\n%s", err, out)
	}
	td.Cmp(t, out, td.Contains("meet at noon"))
}

func TestHideFromFileRevealToFile(t *testing.T) {
	dir := setupTestEnvironment(t)
	input := writeTestCarrier(t, dir, "scan.bmp", 80, 80)

	letter := filepath.Join(dir, "letter.txt")
	if err := os.WriteFile(letter, []byte("line one\nline two\n"), 0600); err != nil {
		t.Fatalf("Failed to write message file: %v", err)
	}
	stegoPath := filepath.Join(dir, "postcard.tiff")

	if out, err := runCLI(t, "hide", "-i", input, "-f", letter, "-o", stegoPath); err != nil {
		t.Fatalf("hide failed: %v\n%s", err, out)
	}

	recovered := filepath.Join(dir, "recovered.txt")
	if out, err := runCLI(t, "reveal", "-i", stegoPath, "-o", recovered); err != nil {
		t.Fatalf("reveal failed: %v\n%s", err, out)
	}

	data, err := os.ReadFile(recovered)
	if err != nil {
		t.Fatalf("Failed to read recovered message: %v", err)
	}
	td.Cmp(t, string(data), "line one\nline two\n")
}

func TestRevealWrongPassword(t *testing.T) {
	dir := setupTestEnvironment(t)
	input := writeTestCarrier(t, dir, "cat.png", 60, 60)

	if out, err := runCLI(t, "hide", "-i", input, "-m", "hello"); err != nil {
		t.Fatalf("hide failed: %v\n%s", err, out)
	}

	t.Setenv(utils.PasswordEnvVar, "wrong-password")
	out, err := runCLI(t, "reveal", "-i", filepath.Join(dir, "cat.hidden.png"))
	if !errors.Is(err, errReported) {
		t.Fatalf("expected errReported, got %v", err)
	}
	td.Cmp(t, out, td.Contains("✗ Wrong password or no hidden message found"))
	td.Cmp(t, out, td.Not(td.Contains("hello")))
}

func TestHideFailures(t *testing.T) {
	dir := setupTestEnvironment(t)
	small := writeTestCarrier(t, dir, "small.png", 10, 10)
	taken := writeTestCarrier(t, dir, "taken.png", 50, 50)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"message too large", []string{"hide", "-i", small, "-m", "hello"}, "Message does not fit in this image"},
		{"output exists", []string{"hide", "-i", small, "-m", "hi", "-o", taken}, "--force"},
		{"missing carrier", []string{"hide", "-i", filepath.Join(dir, "missing.png"), "-m", "hi"}, "File not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, tt.args...)
			if !errors.Is(err, errReported) {
				t.Fatalf("expected errReported, got %v\n%s", err, out)
			}
			td.Cmp(t, out, td.Contains(tt.want))
		})
	}
}

func TestHideShortPassword(t *testing.T) {
	dir := setupTestEnvironment(t)
	input := writeTestCarrier(t, dir, "cat.png", 50, 50)
	t.Setenv(utils.PasswordEnvVar, "12345")

	out, err := runCLI(t, "hide", "-i", input, "-m", "hi")
	if !errors.Is(err, errReported) {
		t.Fatalf("expected errReported, got %v", err)
	}
	td.Cmp(t, out, td.Contains("password must be at least 6 characters"))
}

func TestCapacityCommand(t *testing.T) {
	dir := setupTestEnvironment(t)
	writeTestCarrier(t, dir, "a.png", 20, 10)

	out, err := runCLI(t, "capacity", filepath.Join(dir, "*.png"), "-m", "hi")
	if err != nil {
		t.Fatalf("capacity failed: %v\n%s", err, out)
	}
	td.Cmp(t, out, td.Contains("600 bits (75 bytes)"))
	td.Cmp(t, out, td.Contains("✓ a 2 byte message fits"))

	broken := filepath.Join(dir, "broken.png")
	if err := os.WriteFile(broken, []byte("not an image"), 0600); err != nil {
		t.Fatalf("Failed to write broken carrier: %v", err)
	}
	out, err = runCLI(t, "capacity", filepath.Join(dir, "*.png"))
	if err != nil {
		t.Fatalf("capacity failed: %v\n%s", err, out)
	}
	td.Cmp(t, out, td.Contains("✗ 1 file(s) cannot carry a message:\n    - "+broken+"\n"))
	td.Cmp(t, out, td.Contains("Run with --verbose to see why"))
	if err := os.Remove(broken); err != nil {
		t.Fatalf("Failed to remove broken carrier: %v", err)
	}

	out, err = runCLI(t, "capacity", "--width", "100", "--height", "100", "--message-bytes", "5", "--json")
	if err != nil {
		t.Fatalf("capacity failed: %v\n%s", err, out)
	}
	td.Cmp(t, json.RawMessage(out), td.JSON(`[{
		"width": 100,
		"height": 100,
		"capacity_bits": 30000,
		"required_bits": 624,
		"max_message_bytes": 3677,
		"fits": true
	}]`))

	_, err = runCLI(t, "capacity")
	if !errors.Is(err, errReported) {
		t.Errorf("expected errReported without patterns or dimensions, got %v", err)
	}
}

func TestLogCommand(t *testing.T) {
	dir := setupTestEnvironment(t)

	out, err := runCLI(t, "log")
	if err != nil {
		t.Fatalf("log failed: %v", err)
	}
	td.Cmp(t, out, td.Contains("No audit log found"))

	input := writeTestCarrier(t, dir, "cat.png", 50, 50)
	if out, err := runCLI(t, "hide", "-i", input, "-m", "top secret"); err != nil {
		t.Fatalf("hide failed: %v\n%s", err, out)
	}
	t.Setenv(utils.PasswordEnvVar, "wrong-password")
	_, _ = runCLI(t, "reveal", "-i", filepath.Join(dir, "cat.hidden.png"))

	out, err = runCLI(t, "log", "--json")
	if err != nil {
		t.Fatalf("log failed: %v", err)
	}
	td.Cmp(t, out, td.Not(td.Contains("top secret")))
	td.Cmp(t, out, td.Not(td.Contains("correct-horse")))

	var entries []audit.Entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("log --json output is not JSON: %v\n%s", err, out)
	}
	td.Cmp(t, entries, td.Len(2))
	td.Cmp(t, entries[0].Operation, audit.OpHide)
	td.Cmp(t, entries[1].Error, "authentication_failed")

	out, err = runCLI(t, "log", "--op", "reveal")
	if err != nil {
		t.Fatalf("log failed: %v", err)
	}
	td.Cmp(t, strings.Count(strings.TrimSpace(out), "\n"), 0, "one line")
	td.Cmp(t, out, td.Contains("reveal"))
}

func TestConfigCommands(t *testing.T) {
	dir := setupTestEnvironment(t)
	path := filepath.Join(dir, "fresh", "config.toml")

	out, err := runCLI(t, "--config", path, "config", "init")
	if err != nil {
		t.Fatalf("config init failed: %v\n%s", err, out)
	}
	td.Cmp(t, out, td.Contains("Config written to "+path))

	loaded, err := configs.LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	td.Cmp(t, loaded, configs.Default())

	_, err = runCLI(t, "--config", path, "config", "init")
	if !errors.Is(err, errReported) {
		t.Errorf("expected errReported when config exists, got %v", err)
	}

	out, err = runCLI(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	td.Cmp(t, out, td.Contains("min_password_length = 6"))
	td.Cmp(t, out, td.Contains(`listen = ":8080"`))
}
