package cmd

import (
	"bytes"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/securehide/internal/carrier"
	"github.com/PolarWolf314/securehide/internal/configs"
	logger "github.com/PolarWolf314/securehide/internal/logging"
	"github.com/PolarWolf314/securehide/internal/utils"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// setupTestEnvironment points settings at a temp dir, writes a fast KDF config,
// and supplies the password through the environment. Returns the temp dir.
func setupTestEnvironment(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()

	original := configs.SecureHideSettings
	configs.SecureHideSettings = &configs.Settings{
		ConfigPath: filepath.Join(tempDir, "config", "config.toml"),
		DataPath:   filepath.Join(tempDir, "data"),
	}
	t.Cleanup(func() {
		configs.SecureHideSettings = original
		ResetGlobalState()
	})

	cfg := configs.Default()
	cfg.KDF = configs.KDFConfig{Time: 1, MemoryKiB: 64, Threads: 1}
	if err := configs.Save(configs.SecureHideSettings.ConfigPath, cfg); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	t.Setenv("NO_COLOR", "1")
	t.Setenv(utils.PasswordEnvVar, "correct-horse")
	return tempDir
}

// writeTestCarrier saves a noisy w x h image at dir/name.
func writeTestCarrier(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	r := rand.New(rand.NewSource(int64(w * h)))
	pix := make([]byte, w*h*3)
	r.Read(pix)

	img, err := carrier.New(w, h, 3, pix)
	if err != nil {
		t.Fatalf("carrier.New failed: %v", err)
	}
	if f, ok := carrier.FormatForPath(name); ok {
		img.Format = f.Name
	}

	path := filepath.Join(dir, name)
	if err := carrier.Save(path, img); err != nil {
		t.Fatalf("Failed to save carrier: %v", err)
	}
	return path
}

// resetFlags clears parsed values and Changed markers left by a previous run.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// createTestCLI returns the root command primed to run args.
func createTestCLI(args ...string) *cobra.Command {
	ResetGlobalState()
	resetFlags(RootCmd)
	SetLogger(logger.Logger{})

	RootCmd.SetArgs(args)
	return RootCmd
}

// runCLI executes args and returns the combined output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return captureOutput(func() error {
		return createTestCLI(args...).Execute()
	})
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	stdoutChan := make(chan string, 1)
	stderrChan := make(chan string, 1)

	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, stdoutReader)
		stdoutChan <- buf.String()
	}()
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, stderrReader)
		stderrChan <- buf.String()
	}()

	err := fn()

	stdoutWriter.Close()
	stderrWriter.Close()

	os.Stdout = originalStdout
	os.Stderr = originalStderr

	return <-stdoutChan + <-stderrChan, err
}
