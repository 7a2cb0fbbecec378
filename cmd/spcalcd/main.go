// Command spcalcd is the spcalc API service. It serves SP-coding
// calculations, module catalog search, a health check and Prometheus
// metrics.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spcalc/spcalc/internal/api"
	"github.com/spcalc/spcalc/internal/catalogdb"
	"github.com/spcalc/spcalc/internal/catalogstore"
	"github.com/spcalc/spcalc/internal/platform"
	"github.com/spcalc/spcalc/pkg/catalog"
	"github.com/spcalc/spcalc/pkg/config"
	"github.com/spcalc/spcalc/pkg/spcode"
)

func main() {
	// A missing .env is normal in production.
	_ = godotenv.Load()

	logger, err := newLogger(os.Getenv("LOG_FORMAT"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger); err != nil {
		logger.Fatal("spcalcd exited", zap.Error(err))
	}
}

func newLogger(format string) (*zap.Logger, error) {
	if format == "console" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if path := os.Getenv("SPCALC_CONFIG"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	return cfg, nil
}

func run(logger *zap.Logger) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		db     *sql.DB
		health func(context.Context) error
	)
	if cfg.Catalog.DatabaseURL != "" {
		db, err = platform.OpenDB(cfg.Catalog.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := platform.AutoMigrate(db); err != nil {
			return err
		}
		logger.Info("database migrated")
		health = catalogdb.NewRepository(db).Ping
	}

	cat, err := loadCatalog(ctx, cfg.Catalog, db, logger)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	logger.Info("catalog loaded", zap.String("source", cfg.Catalog.Source), zap.Int("modules", cat.Len()))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	h := api.NewHandler(spcode.New(cfg.Calculation.OptimizerConfig()), cat, api.Options{
		Precision:    cfg.Calculation.Precision,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Logger:       logger,
		Metrics:      api.NewMetrics(reg),
		Cache:        api.NewSearchCache(cfg.Server.SearchCacheSize),
		Health:       health,
	})

	apiMux := http.NewServeMux()
	h.RegisterRoutes(apiMux)

	mux := http.NewServeMux()
	mux.Handle("/api/", api.Chain(apiMux,
		api.RateLimit(cfg.Server.RateLimit, cfg.Server.Burst),
		api.APIKeyAuth(cfg.Server.APIKey),
	))
	h.RegisterHealth(mux)
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           api.Chain(mux, api.RequestLogger(logger), api.CORS),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting spcalcd", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// loadCatalog resolves the catalog for the service. With a database the
// configured blob source, if any, is imported first and Postgres is the
// source of truth. Without one the catalog comes straight from the blob
// store or file.
func loadCatalog(ctx context.Context, cfg config.CatalogConfig, db *sql.DB, logger *zap.Logger) (*catalog.Catalog, error) {
	if db == nil {
		if cfg.Source == config.SourcePostgres {
			return nil, errors.New("catalog source postgres needs DATABASE_URL")
		}
		return loadSource(ctx, cfg)
	}

	repo := catalogdb.NewRepository(db)
	if cfg.Source != config.SourcePostgres {
		src, err := loadSource(ctx, cfg)
		switch {
		case errors.Is(err, os.ErrNotExist), errors.Is(err, catalogstore.ErrNotFound):
			logger.Warn("catalog source missing, serving stored catalog", zap.Error(err))
		case err != nil:
			return nil, err
		default:
			importID, err := repo.ReplaceCatalog(ctx, cfg.Source+":"+sourceName(cfg), src.All())
			if err != nil {
				return nil, fmt.Errorf("import catalog: %w", err)
			}
			logger.Info("catalog imported", zap.String("import_id", importID), zap.Int("modules", src.Len()))
		}
	} else if imp, err := repo.LatestImport(ctx); err == nil {
		logger.Info("using stored catalog",
			zap.String("import_id", imp.ID),
			zap.String("source", imp.Source),
			zap.Time("imported_at", imp.ImportedAt),
		)
	}
	return repo.LoadCatalog(ctx)
}

func loadSource(ctx context.Context, cfg config.CatalogConfig) (*catalog.Catalog, error) {
	if cfg.Source == config.SourceFile {
		return catalog.LoadFile(cfg.Path)
	}
	store, err := catalogstore.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if c, ok := store.(io.Closer); ok {
		defer c.Close()
	}
	return catalogstore.Load(ctx, store, cfg.Object)
}

func sourceName(cfg config.CatalogConfig) string {
	if cfg.Source == config.SourceFile {
		return cfg.Path
	}
	return cfg.Object
}
