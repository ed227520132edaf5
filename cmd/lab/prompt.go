package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"lab-go/internal/encryption"
	"lab-go/internal/lab"
)

// confirm asks the user to approve a destructive action. --yes skips the
// question; without a terminal and without --yes the action is refused.
func confirm(cmd *cobra.Command, question string) error {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("%w: pass --yes to run non-interactively", lab.ErrConfirmationRequired)
	}

	fmt.Fprintf(os.Stderr, "%s [y/N]: ", question)
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "c", "có":
		return nil
	default:
		return lab.ErrConfirmationRequired
	}
}

// readPassphrase prompts for a passphrase without echo. LAB_PASSPHRASE is used
// when stdin is not a terminal.
func readPassphrase(prompt string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		if p := os.Getenv("LAB_PASSPHRASE"); p != "" {
			return p, nil
		}
		return "", fmt.Errorf("no terminal for passphrase prompt; set LAB_PASSPHRASE")
	}

	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(b), nil
}

// readNewPassphrase prompts twice and checks the minimum length.
func readNewPassphrase() (string, error) {
	p, err := readPassphrase("New passphrase: ")
	if err != nil {
		return "", err
	}
	if len(p) < encryption.MinPassphraseLength {
		return "", fmt.Errorf("passphrase must be at least %d characters", encryption.MinPassphraseLength)
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return p, nil
	}
	again, err := readPassphrase("Repeat passphrase: ")
	if err != nil {
		return "", err
	}
	if again != p {
		return "", fmt.Errorf("passphrases do not match")
	}
	return p, nil
}
