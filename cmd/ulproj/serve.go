package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ulproj/ul-projector/internal/api"
	"github.com/ulproj/ul-projector/internal/calculation"
	"github.com/ulproj/ul-projector/internal/config"
	"github.com/ulproj/ul-projector/internal/telemetry"
)

const shutdownTimeout = 30 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP projection service",
		Long: "Serve projections over HTTP. Configured from ULPROJ_* environment variables: " +
			"ULPROJ_HTTP_ADDR, ULPROJ_DB_PATH or ULPROJ_RATES_DIR, ULPROJ_CORS_ORIGINS, " +
			"ULPROJ_PROJECTION_TIMEOUT, ULPROJ_WORKERS.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadServerConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			shutdownTracing, err := telemetry.Setup(ctx, serviceName)
			if err != nil {
				return err
			}
			defer shutdownTracing(context.Background())

			book, err := openRateBook(ctx, cfg.RatesDir, cfg.DBPath)
			if err != nil {
				return err
			}

			logger := simpleCLILogger{}
			engine := calculation.NewProjectionEngine(book)
			engine.Workers = cfg.Workers
			engine.SetLogger(logger)

			handler := api.NewHandler(book, engine, cfg.ProjectionTimeout)
			handler.Logger = logger

			server := &http.Server{
				Addr:         cfg.HTTPAddr,
				Handler:      api.NewRouter(handler, cfg.CORSOrigins),
				ReadTimeout:  cfg.ReadTimeout,
				WriteTimeout: cfg.WriteTimeout,
				IdleTimeout:  60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Printf("Server starting on %s (%d products)", cfg.HTTPAddr, len(book.Products()))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			log.Println("Shutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server forced to shutdown: %w", err)
			}
			log.Println("Server stopped")
			return nil
		},
	}
}
