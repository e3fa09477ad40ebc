package utils

import (
	"bytes"
	"fmt"
	"os"
	"runtime"

	"github.com/PolarWolf314/securehide/internal/stego"

	"golang.org/x/term"
)

// PasswordEnvVar lets scripts supply the password without a prompt.
const PasswordEnvVar = "SECUREHIDE_PASSWORD"

// GetPassword returns the password from SECUREHIDE_PASSWORD, or prompts for it
// on the terminal. With confirm set, the prompt is repeated and both entries
// must match. The caller owns the returned slice and should wipe it.
func GetPassword(confirm bool) ([]byte, error) {
	if envPass := os.Getenv(PasswordEnvVar); envPass != "" {
		return []byte(envPass), nil
	}

	password, err := readPassphraseAnyTTY("Enter password: ")
	if err != nil {
		return nil, err
	}
	if !confirm {
		return password, nil
	}

	again, err := readPassphraseAnyTTY("Confirm password: ")
	if err != nil {
		stego.Wipe(password)
		return nil, err
	}
	defer stego.Wipe(again)

	if !bytes.Equal(password, again) {
		stego.Wipe(password)
		return nil, fmt.Errorf("passwords do not match")
	}
	return password, nil
}

func readPassphraseAnyTTY(prompt string) ([]byte, error) {
	if IsTerminal() {
		return ReadPassphrase(prompt)
	}
	if IsTTYAvailable() {
		return ReadPassphraseFromTTY(prompt)
	}
	return nil, fmt.Errorf("cannot prompt for a password without a terminal; set %s", PasswordEnvVar)
}

// ReadPassphrase prompts the user for a passphrase without echoing input.
// Returns an error if stdin is not a terminal.
func ReadPassphrase(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd())

	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("cannot read passphrase: stdin is not a terminal")
	}

	fmt.Fprint(os.Stderr, prompt)
	passphrase, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr) // Add newline after hidden input

	if err != nil {
		return nil, fmt.Errorf("failed to read passphrase: %w", err)
	}

	return passphrase, nil
}

// ReadPassphraseFromTTY prompts the user for a passphrase from /dev/tty (or CON on Windows).
// This is useful when stdin is being used for other input (e.g., piping a message).
func ReadPassphraseFromTTY(prompt string) ([]byte, error) {
	ttyPath := "/dev/tty"
	if runtime.GOOS == "windows" {
		ttyPath = "CON"
	}

	tty, err := os.Open(ttyPath)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s for passphrase input: %w", ttyPath, err)
	}
	defer tty.Close()

	fd := int(tty.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("%s is not a terminal", ttyPath)
	}

	fmt.Fprint(os.Stderr, prompt)
	passphrase, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr) // Add newline after hidden input

	if err != nil {
		return nil, fmt.Errorf("failed to read passphrase: %w", err)
	}

	return passphrase, nil
}

// IsTerminal returns true if stdin is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsTTYAvailable returns true if /dev/tty (or CON on Windows) is available for reading.
func IsTTYAvailable() bool {
	ttyPath := "/dev/tty"
	if runtime.GOOS == "windows" {
		ttyPath = "CON"
	}

	tty, err := os.Open(ttyPath)
	if err != nil {
		return false
	}
	defer tty.Close()

	return term.IsTerminal(int(tty.Fd()))
}
