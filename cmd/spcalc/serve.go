package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spcalc/spcalc/internal/api"
	"github.com/spcalc/spcalc/pkg/config"
	"github.com/spcalc/spcalc/pkg/spcode"
)

func newServeCmd() *cobra.Command {
	var (
		port        string
		catalogPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start a local API server for the calculator web UI",
		Long: `Starts an HTTP server on localhost that serves the calculation and module
search endpoints. Point the web UI at this server during development.

Use spcalcd for deployments that need Postgres, metrics or an API key.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if catalogPath != "" {
				cfg.Catalog.Source = config.SourceFile
				cfg.Catalog.Path = catalogPath
			}

			cat := loadOptionalCatalog(cmd.Context(), cfg.Catalog)

			logger, err := zap.NewDevelopment()
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			opts := api.Options{
				Precision:    cfg.Calculation.Precision,
				MaxBodyBytes: cfg.Server.MaxBodyBytes,
				Logger:       logger,
				Cache:        api.NewSearchCache(cfg.Server.SearchCacheSize),
			}
			// A nil *catalog.Catalog must not become a non-nil interface.
			var catalog api.Catalog
			if cat != nil {
				catalog = cat
			}
			h := api.NewHandler(spcode.New(cfg.Calculation.OptimizerConfig()), catalog, opts)

			mux := http.NewServeMux()
			h.RegisterRoutes(mux)
			h.RegisterHealth(mux)

			addr := "localhost:" + firstNonEmpty(port, cfg.Server.Port)
			fmt.Fprintf(os.Stderr, "spcalc API server\n")
			fmt.Fprintf(os.Stderr, "  Credit cap: %g\n", cfg.Calculation.CreditCap)
			if cat != nil {
				fmt.Fprintf(os.Stderr, "  Catalog:    %d modules\n", cat.Len())
			} else {
				fmt.Fprintf(os.Stderr, "  Catalog:    none (module search disabled)\n")
			}
			fmt.Fprintf(os.Stderr, "  Listening:  http://%s\n", addr)

			return serveUntilSignal(cmd.Context(), &http.Server{
				Addr:              addr,
				Handler:           api.Chain(mux, api.RequestLogger(logger), api.CORS),
				ReadHeaderTimeout: 10 * time.Second,
			})
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Port to serve on (default: server.port from config, 7800)")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Path to a module catalog file (overrides config)")

	return cmd
}

// serveUntilSignal runs srv until SIGINT or SIGTERM, then shuts it down.
func serveUntilSignal(ctx context.Context, srv *http.Server) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	fmt.Fprintln(os.Stderr, "shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
