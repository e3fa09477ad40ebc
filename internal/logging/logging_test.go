package logger

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func captureStreams(t *testing.T, fn func()) string {
	t.Helper()
	originalStdout, originalStderr := os.Stdout, os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdout, os.Stderr = w, w
	defer func() {
		os.Stdout, os.Stderr = originalStdout, originalStderr
	}()

	fn()
	w.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("Failed to read pipe: %v", err)
	}
	return buf.String()
}

func TestQuietLoggerOnlyPrintsAlwaysWarnings(t *testing.T) {
	color.NoColor = true
	l := Logger{}

	out := captureStreams(t, func() {
		l.Infof("info line")
		l.Debugf("debug line")
		l.Warnf("warn line")
		l.Errorf("error line")
		l.WarnfAlways("critical line")
		l.With("req-1").ErrorfAlways("server fault")
	})

	if strings.Contains(out, "info line") || strings.Contains(out, "debug line") ||
		strings.Contains(out, "warn line") || strings.Contains(out, "error line") {
		t.Errorf("quiet logger leaked gated output: %q", out)
	}
	if !strings.Contains(out, "[warn] critical line") {
		t.Errorf("expected critical warning, got %q", out)
	}
	if !strings.Contains(out, "[error] (req-1) server fault") {
		t.Errorf("expected unconditional error, got %q", out)
	}
}

func TestDebugLoggerPrintsEverything(t *testing.T) {
	color.NoColor = true
	l := Logger{Debug: true}

	out := captureStreams(t, func() {
		l.Infof("info %d", 1)
		l.Debugf("debug %d", 2)
		l.Errorf("error %d", 3)
	})

	for _, want := range []string{"[info] info 1", "[debug] debug 2", "[error] error 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output %q", want, out)
		}
	}
}

func TestWithPrefix(t *testing.T) {
	color.NoColor = true
	l := Logger{Verbose: true}.With("req-42")

	out := captureStreams(t, func() {
		l.Infof("handled")
	})

	if !strings.Contains(out, "(req-42) handled") {
		t.Errorf("expected prefixed line, got %q", out)
	}
}

func TestErrorfAndReturn(t *testing.T) {
	l := Logger{}
	err := l.ErrorfAndReturn("failed to read %s", "in.png")
	if err == nil || err.Error() != "failed to read in.png" {
		t.Errorf("ErrorfAndReturn() = %v", err)
	}
}
