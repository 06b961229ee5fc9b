package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/clouddrop/clouddrop"
	"github.com/clouddrop/clouddrop/bucket"
	"github.com/clouddrop/clouddrop/config"
	clouddrophttp "github.com/clouddrop/clouddrop/http"
	"github.com/clouddrop/clouddrop/index"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the CloudDrop HTTP server.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8080, "HTTP server port")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	service, closeService, err := buildService(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeService()

	if cfg.Auth.Secret == "" {
		slog.Warn("auth secret is not set, all authenticated requests will be rejected")
	}

	handlerConfig := clouddrophttp.HandlerConfig{
		AuthSecret:    cfg.Auth.Secret,
		MaxUploadSize: cfg.Server.MaxUploadSize,
		CORS:          cfg.CORS,
	}

	handler := clouddrophttp.NewHandler(&handlerConfig, service)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      handler.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
		cancel()
	}()

	slog.Info("starting server", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// buildService opens the index and the storage root and assembles the
// service. The returned close function releases both.
func buildService(ctx context.Context, cfg *config.Config) (*clouddrop.Service, func(), error) {
	ix, err := index.Open(ctx, cfg.Index)
	if err != nil {
		return nil, nil, fmt.Errorf("open index: %w", err)
	}
	slog.Info("opened index", "dsn", cfg.Index.DSN, "table", cfg.Index.Table)

	if err = os.MkdirAll(cfg.Storage.Path, 0o750); err != nil {
		_ = ix.Close()
		return nil, nil, fmt.Errorf("create storage directory: %w", err)
	}

	root, err := os.OpenRoot(cfg.Storage.Path)
	if err != nil {
		_ = ix.Close()
		return nil, nil, fmt.Errorf("open storage root: %w", err)
	}

	store := bucket.NewStore(root)

	serviceCfg := clouddrop.ServiceConfig{
		CleanupTimeout: time.Duration(cfg.Service.CleanupTimeout) * time.Second,
	}
	service := clouddrop.NewService(ix, store, serviceCfg)

	closeAll := func() {
		_ = root.Close()
		_ = ix.Close()
	}

	return service, closeAll, nil
}
