package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/clouddrop/clouddrop/config"
)

var version = "dev"

var configFiles []string

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "clouddrop",
	Short:   "Authenticated file sharing server over an object bucket",
	Long: `CloudDrop is a small file sharing server. Files live in a local
object bucket, metadata lives in a SQLite index, and a shared-secret
protected HTTP API exposes upload, download, delete and a date-grouped
timeline.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configFiles, cmd.Flags())
		if err != nil {
			return err
		}

		setupLogging(cfg.Log.Level)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&configFiles, "config", nil, "config file path (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("storage-path", "", "storage directory path (default: ./data, env: CLOUDDROP_STORAGE_PATH)")
	rootCmd.PersistentFlags().String("index-dsn", "", "sqlite index path (default: clouddrop.db, env: CLOUDDROP_INDEX_DSN)")
	rootCmd.PersistentFlags().String("index-table", "", "sqlite index table name (env: CLOUDDROP_INDEX_TABLE)")
	rootCmd.PersistentFlags().String("secret", "", "shared auth secret (env: CLOUDDROP_AUTH_SECRET)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
