/*
serve.go - HTTP API server

Runs the report API: report generation on demand plus the SQLite archive
of previous runs. Shuts down gracefully on SIGINT/SIGTERM.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/loyalty-reporter/api"
	"github.com/warp/loyalty-reporter/store/sqlite"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the report HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	runner, err := newRunner()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." && cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create data dir: %w", err)
		}
	}
	archive, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer archive.Close()

	addr := cfg.Listen
	if listenAddr != "" {
		addr = listenAddr
	}

	handler := api.NewHandler(runner, archive, logger)
	server := &http.Server{
		Addr:    addr,
		Handler: api.NewRouter(handler),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", addr))
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(ctx)
	}
}
