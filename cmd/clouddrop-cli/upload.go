package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/clouddrop/clouddrop/clientcli"
)

var (
	uploadRecursive   bool
	uploadContentType string
)

var uploadCmd = &cobra.Command{
	Use:   "upload <local-path>",
	Short: "Upload files to the server",
	Long: `Upload files to the server.

The server assigns each file a date-prefixed key and returns it. Only
the base name of the local file is kept; with --recursive, directory
structure flattens into the upload day's date bucket.

Examples:
  clouddrop-cli upload photo.jpg
  clouddrop-cli upload notes.txt -t text/plain
  clouddrop-cli upload ./vacation -r`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().BoolVarP(&uploadRecursive, "recursive", "r", false, "upload directory contents recursively")
	uploadCmd.Flags().StringVarP(&uploadContentType, "content-type", "t", "", "content type (default: auto-detect from extension)")
}

func runUpload(_ *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	opts := clientcli.UploadOptions{
		LocalPath:   args[0],
		ContentType: uploadContentType,
		Recursive:   uploadRecursive,
	}

	results, err := client.Upload(context.Background(), opts)
	formatter := getFormatter()
	if err != nil {
		_ = formatter.FormatError(os.Stderr, err)
		return &exitError{code: 1}
	}

	if formatErr := formatter.FormatUpload(os.Stdout, results); formatErr != nil {
		return formatErr
	}

	if clientcli.HasUploadErrors(results) {
		return &exitError{code: 1}
	}
	return nil
}
