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

	"github.com/sagarc03/stowage/config"
	stowagehttp "github.com/sagarc03/stowage/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP gateway",
	Long:  `Start the stowage HTTP gateway over the configured backend.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 5710, "HTTP server port")
	serveCmd.Flags().Bool("proxy", false, "stream object bodies instead of redirecting")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	configFiles, _ := cmd.Flags().GetStringSlice("config")

	cfg, err := config.Load(configFiles, cmd.Flags())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	storage, cleanup, err := config.OpenStorage(cfg.Storage)
	if err != nil {
		return err
	}
	defer cleanup()
	slog.Info("storage backend ready", "backend", cfg.Storage.Backend)

	if proxy, perr := cmd.Flags().GetBool("proxy"); perr == nil && cmd.Flags().Changed("proxy") {
		cfg.Server.Proxy = proxy
	}

	handler := stowagehttp.NewHandler(&stowagehttp.HandlerConfig{
		Proxy: cfg.Server.Proxy,
	}, storage)

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
	}()

	slog.Info("starting gateway", "addr", addr, "proxy", cfg.Server.Proxy)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
