package workflows

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/PolarWolf314/securehide/internal/audit"
	"github.com/PolarWolf314/securehide/internal/carrier"
	kerrors "github.com/PolarWolf314/securehide/internal/errors"
	"github.com/PolarWolf314/securehide/internal/stego"

	"github.com/bmatcuk/doublestar/v4"
)

// CapacityOptions configures the capacity workflow.
type CapacityOptions struct {
	// Patterns are file paths or doublestar globs ("photos/**/*.png").
	Patterns []string

	// Width and Height describe a hypothetical carrier when no patterns are given.
	Width  int
	Height int

	// MessageBytes is the message size to check against each carrier.
	MessageBytes int
}

// CapacityReport describes one carrier.
type CapacityReport struct {
	// Path is empty for a hypothetical carrier.
	Path   string
	Format string
	stego.Fit

	// Err is set when the file could not be used as a carrier.
	Err error
}

// CapacityResult contains the outcome of a capacity operation.
type CapacityResult struct {
	Reports []CapacityReport
}

// Capacity reports how much each carrier can hold and whether a message of
// MessageBytes fits. Only image headers are read.
//
// Returns ErrInvalidInput if neither patterns nor dimensions are given.
// Returns ErrNoFilesFound if no pattern matches a file.
func Capacity(ctx context.Context, opts CapacityOptions) (*CapacityResult, error) {
	if opts.MessageBytes < 0 {
		return nil, fmt.Errorf("message size cannot be negative: %w", kerrors.ErrInvalidInput)
	}

	if len(opts.Patterns) == 0 {
		if opts.Width <= 0 || opts.Height <= 0 {
			return nil, fmt.Errorf("give image paths or a positive --width and --height: %w", kerrors.ErrInvalidInput)
		}
		return &CapacityResult{
			Reports: []CapacityReport{{Fit: stego.Estimate(opts.Width, opts.Height, opts.MessageBytes)}},
		}, nil
	}

	files, err := resolveImages(opts.Patterns)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, kerrors.ErrNoFilesFound
	}

	result := &CapacityResult{}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.Reports = append(result.Reports, inspect(path, opts.MessageBytes))
	}

	entry := audit.LogWithUser(audit.OpCapacity)
	if len(files) == 1 {
		entry.Image = files[0]
		entry.Width = result.Reports[0].Width
		entry.Height = result.Reports[0].Height
		entry.CapacityBits = result.Reports[0].CapacityBits
	}
	logOutcome(entry, nil)

	return result, nil
}

// inspect reads the header of one carrier.
func inspect(path string, messageBytes int) CapacityReport {
	report := CapacityReport{Path: path}

	cfg, format, err := carrier.ConfigFile(path)
	if err != nil {
		report.Err = err
		return report
	}
	report.Format = format
	if _, ok := carrier.LookupFormat(format); !ok {
		report.Err = fmt.Errorf("%s: %w", format, kerrors.ErrUnsupportedFormat)
		return report
	}

	report.Fit = stego.Estimate(cfg.Width, cfg.Height, messageBytes)
	return report
}

// resolveImages expands patterns into a sorted, de-duplicated list of regular files.
func resolveImages(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, kerrors.ErrInvalidInput)
		}

		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}

	sort.Strings(files)
	return files, nil
}
