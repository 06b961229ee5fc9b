package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/clouddrop/clouddrop/config"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Rebuild the metadata index from storage files",
	Long: `Scan the storage directory and populate the metadata index
with entries for all existing files. This is useful when:
  - Setting up CloudDrop over an existing file tree
  - Recovering the index after database loss
  - Importing files placed in storage out of band`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	if _, err = os.Stat(cfg.Storage.Path); os.IsNotExist(err) {
		return fmt.Errorf("storage directory does not exist: %s", cfg.Storage.Path)
	}

	service, closeService, err := buildService(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeService()

	slog.Info("scanning storage directory", "path", cfg.Storage.Path)

	indexed, err := service.Sync(ctx)
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	slog.Info("sync complete", "files_indexed", indexed)
	return nil
}
