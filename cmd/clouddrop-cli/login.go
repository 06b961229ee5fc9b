package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Verify the configured secret against the server",
	Long: `Verify the configured shared secret against the server.

Useful to check a profile or environment configuration before
uploading. Exits non-zero if the secret is rejected.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

func runLogin(_ *cobra.Command, _ []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	if err := client.Login(context.Background()); err != nil {
		formatter := getFormatter()
		_ = formatter.FormatError(os.Stderr, err)
		return &exitError{code: 1}
	}

	if !quiet {
		fmt.Println("Login OK")
	}
	return nil
}
