package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/clouddrop/clouddrop/clientcli"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <key> [key...]",
	Aliases: []string{"rm"},
	Short:   "Delete objects from the server",
	Long: `Delete one or more objects by key.

Deletes continue past individual failures; the exit code is non-zero
if any key failed. Deleting a key that does not exist succeeds.

Examples:
  clouddrop-cli delete 2024-03-01/1709287200000-photo.jpg
  clouddrop-cli delete 2024-03-01/1-a.txt 2024-03-01/2-b.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

func runDelete(_ *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	results, err := client.Delete(context.Background(), clientcli.DeleteOptions{Keys: args})
	formatter := getFormatter()
	if err != nil {
		_ = formatter.FormatError(os.Stderr, err)
		return &exitError{code: 1}
	}

	if formatErr := formatter.FormatDelete(os.Stdout, results); formatErr != nil {
		return formatErr
	}

	if clientcli.HasDeleteErrors(results) {
		return &exitError{code: 1}
	}
	return nil
}
