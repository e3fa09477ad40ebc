package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Formatter colours text, or falls back to a plain prefix and suffix when colour is off.
type Formatter struct {
	color  *color.Color
	prefix string
	suffix string
}

// Sprint formats a like fmt.Sprint.
func (f Formatter) Sprint(a ...interface{}) string {
	return f.render(fmt.Sprint(a...))
}

// Sprintf formats like fmt.Sprintf.
func (f Formatter) Sprintf(format string, a ...interface{}) string {
	return f.render(fmt.Sprintf(format, a...))
}

func (f Formatter) render(text string) string {
	if noColor() {
		return f.prefix + text + f.suffix
	}
	return f.color.Sprint(text)
}

// EnsureNewline appends a newline to s unless it already ends with one.
func EnsureNewline(s string) string {
	if len(s) == 0 || s[len(s)-1] != '\n' {
		return s + "\n"
	}
	return s
}

// noColor honours NO_COLOR (https://no-color.org/) and fatih/color's terminal detection.
func noColor() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return true
	}
	return color.NoColor
}

// Status formatters.
var (
	// Success marks completed operations. Green.
	Success = Formatter{color.New(color.FgGreen), "", ""}

	// Error marks failed operations. Red.
	Error = Formatter{color.New(color.FgRed), "", ""}

	// Warning marks recoverable problems. Yellow.
	Warning = Formatter{color.New(color.FgYellow), "", ""}

	// Info marks hints and next steps. Cyan.
	Info = Formatter{color.New(color.FgCyan), "", ""}
)

// Value formatters.
var (
	// Code is a command the user can run. Yellow, or `backticks` without colour.
	Code = Formatter{color.New(color.FgYellow), "`", "`"}

	// Path is a carrier, output or config path. Yellow.
	Path = Formatter{color.New(color.FgYellow), "", ""}

	// Flag is a CLI flag such as --force. Yellow.
	Flag = Formatter{color.New(color.FgYellow), "", ""}

	// Highlight is a user value such as a format name or bit count.
	// Cyan, or 'single quotes' without colour.
	Highlight = Formatter{color.New(color.FgCyan), "'", "'"}

	// Muted is secondary text. Gray, or (parentheses) without colour.
	Muted = Formatter{color.New(color.FgHiBlack), "(", ")"}
)

// FormatBits renders a bit count with its byte equivalent, e.g. "30000 bits (3750 bytes)".
func FormatBits(bits int) string {
	return fmt.Sprintf("%d bits (%d bytes)", bits, bits/8)
}

// FormatDimensions renders image geometry as "WxH".
func FormatDimensions(width, height int) string {
	return fmt.Sprintf("%dx%d", width, height)
}

// FormatUsage renders how much of a carrier an envelope takes,
// e.g. "624 bits (78 bytes) of 30000 bits (3750 bytes)".
func FormatUsage(usedBits, capacityBits int) string {
	return FormatBits(usedBits) + " of " + FormatBits(capacityBits)
}

// FormatFit renders whether an n-byte message fits, with the bits it needs.
func FormatFit(n int, fits bool, requiredBits int) string {
	if fits {
		return fmt.Sprintf("%s a %d byte message fits (%s)", Success.Sprint("✓"), n, FormatBits(requiredBits))
	}
	return fmt.Sprintf("%s a %d byte message needs %s", Error.Sprint("✗"), n, FormatBits(requiredBits))
}
