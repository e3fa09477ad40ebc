package logger

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

type Logger struct {
	Verbose bool
	Debug   bool

	// Prefix is printed after the level tag, e.g. a request id.
	Prefix string
}

// With returns a copy of the logger that tags every line with prefix.
func (l Logger) With(prefix string) Logger {
	l.Prefix = prefix
	return l
}

func (l Logger) tag(msg string) string {
	if l.Prefix == "" {
		return msg
	}
	return "(" + l.Prefix + ") " + msg
}

func (l Logger) Infof(msg string, args ...any) {
	if l.Verbose || l.Debug {
		fmt.Fprintf(os.Stdout, color.GreenString("[info] ")+l.tag(msg)+"\n", args...)
	}
}

func (l Logger) Debugf(msg string, args ...any) {
	if l.Debug {
		fmt.Fprintf(os.Stdout, color.CyanString("[debug] ")+l.tag(msg)+"\n", args...)
	}
}

func (l Logger) Warnf(msg string, args ...any) {
	if l.Verbose || l.Debug {
		fmt.Fprintf(os.Stderr, color.YellowString("[warn] ")+l.tag(msg)+"\n", args...)
	}
}

// WarnfAlways prints a warning regardless of verbosity.
func (l Logger) WarnfAlways(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, color.YellowString("[warn] ")+l.tag(msg)+"\n", args...)
}

func (l Logger) Errorf(msg string, args ...any) {
	if l.Debug {
		fmt.Fprintf(os.Stderr, color.RedString("[error] ")+l.tag(msg)+"\n", args...)
	}
}

// ErrorfAlways prints an error regardless of verbosity.
func (l Logger) ErrorfAlways(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, color.RedString("[error] ")+l.tag(msg)+"\n", args...)
}

// ErrorfAndReturn logs like Errorf and returns the formatted message as an error.
func (l Logger) ErrorfAndReturn(msg string, args ...any) error {
	l.Errorf(msg, args...)
	return fmt.Errorf(msg, args...)
}
