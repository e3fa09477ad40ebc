package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// FileExists reports whether path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// DefaultOutputPath derives the stego output path from the carrier path,
// e.g. photos/cat.png -> photos/cat.hidden.png. ext replaces the carrier's
// extension when non-empty.
func DefaultOutputPath(inputPath, ext string) string {
	dir := filepath.Dir(inputPath)
	base := filepath.Base(inputPath)
	oldExt := filepath.Ext(base)
	stem := strings.TrimSuffix(base, oldExt)

	if ext == "" {
		ext = oldExt
	}
	return filepath.Join(dir, stem+".hidden"+ext)
}
