package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/typemaster/internal/ai"
)

func newKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the API key used by AI challenges",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "set [api-key]",
			Short: "Validate and store an API key",
			Args:  cobra.MaximumNArgs(1),
			RunE:  runKeySetCmd,
		},
		&cobra.Command{
			Use:   "check",
			Short: "Check the stored API key against the service",
			Args:  cobra.NoArgs,
			RunE:  runKeyCheckCmd,
		},
		&cobra.Command{
			Use:   "remove",
			Short: "Delete the stored API key",
			Args:  cobra.NoArgs,
			RunE:  runKeyRemoveCmd,
		},
	)
	return cmd
}

func runKeySetCmd(cmd *cobra.Command, args []string) error {
	var apiKey string
	if len(args) == 1 {
		apiKey = args[0]
	} else {
		v, err := readSecret(cmd.InOrStdin(), cmd.ErrOrStderr(), "API key: ")
		if err != nil {
			return fmt.Errorf("failed to read API key: %w", err)
		}
		apiKey = v
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.creds.SaveValidated(cmd.Context(), a.client, apiKey); err != nil {
		return err
	}
	return statusLine(cmd.OutOrStdout(), "API key saved.")
}

func runKeyCheckCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ok, err := a.creds.Check(cmd.Context(), a.client)
	switch {
	case errors.Is(err, ai.ErrNoCredential):
		return statusLine(cmd.OutOrStdout(), "No API key stored.")
	case err != nil:
		return err
	case !ok:
		return ai.ErrInvalidCredential
	}
	return statusLine(cmd.OutOrStdout(), "API key is valid.")
}

func runKeyRemoveCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.creds.Remove(); err != nil {
		return fmt.Errorf("failed to remove API key: %w", err)
	}
	return statusLine(cmd.OutOrStdout(), "API key removed.")
}

// readSecret hides input on a terminal and falls back to one plain line otherwise.
func readSecret(in io.Reader, prompt io.Writer, label string) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if _, err := fmt.Fprint(prompt, label); err != nil {
			return "", err
		}
		b, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
