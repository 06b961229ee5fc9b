package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/clouddrop/clouddrop/clientcli"
)

var downloadOutput string

var downloadCmd = &cobra.Command{
	Use:   "download <key> [local-path]",
	Short: "Download an object from the server",
	Long: `Download an object by its key.

Without a local path, the file is saved under the key's base name in
the current directory. Use "-" to stream the content to stdout.

Examples:
  clouddrop-cli download 2024-03-01/1709287200000-photo.jpg
  clouddrop-cli download 2024-03-01/1709287200000-photo.jpg ./photo.jpg
  clouddrop-cli download 2024-03-01/1709287200000-notes.txt -o notes.txt
  clouddrop-cli download 2024-03-01/1709287200000-notes.txt - | less`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "local path to save to (\"-\" for stdout)")
}

func runDownload(_ *cobra.Command, args []string) error {
	localPath := downloadOutput
	if len(args) > 1 {
		localPath = args[1]
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	opts := clientcli.DownloadOptions{
		Key:       args[0],
		LocalPath: localPath,
	}

	result, body, err := client.Download(context.Background(), opts)
	formatter := getFormatter()
	if err != nil {
		_ = formatter.FormatError(os.Stderr, err)
		return &exitError{code: 1}
	}

	if body != nil {
		defer func() { _ = body.Close() }()

		written, copyErr := io.Copy(os.Stdout, body)
		if copyErr != nil {
			return copyErr
		}
		result.Size = written

		// Metadata goes to stderr so the content stream stays clean.
		if jsonOutput {
			return formatter.FormatDownload(os.Stderr, result)
		}
		return nil
	}

	return formatter.FormatDownload(os.Stdout, result)
}
