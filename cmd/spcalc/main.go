// Package main provides the spcalc CLI entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/spcalc/spcalc/internal/catalogdb"
	"github.com/spcalc/spcalc/internal/catalogstore"
	"github.com/spcalc/spcalc/internal/platform"
	"github.com/spcalc/spcalc/pkg/catalog"
	"github.com/spcalc/spcalc/pkg/config"
)

var version = "dev"

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "spcalc",
		Short: "Find which modules to SP-code for the best semester average",
		Long: `spcalc enumerates every set of modules that can be removed from a semester
under the SP-coding credit cap and shows the credit-weighted average that remains.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: search for .spcalc/config.yaml)")

	rootCmd.AddCommand(
		newCalcCmd(),
		newSearchCmd(),
		newServeCmd(),
		newCatalogCmd(),
	)
	return rootCmd
}

// loadConfig reads the config named by --config, or the nearest
// .spcalc/config.yaml above the working directory.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		path = config.FindConfigFile(cwd)
	}
	if path == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return cfg, nil
}

// loadCatalog loads the module catalog from whichever source the config
// names.
func loadCatalog(ctx context.Context, cfg config.CatalogConfig) (*catalog.Catalog, error) {
	switch cfg.Source {
	case config.SourceFile:
		return catalog.LoadFile(cfg.Path)
	case config.SourcePostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("catalog source postgres needs database_url")
		}
		db, err := platform.OpenDB(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return catalogdb.NewRepository(db).LoadCatalog(ctx)
	default:
		store, err := catalogstore.Open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if c, ok := store.(io.Closer); ok {
			defer c.Close()
		}
		return catalogstore.Load(ctx, store, firstNonEmpty(cfg.Object, "modules"))
	}
}

// loadOptionalCatalog is loadCatalog for commands that work without one. A
// missing catalog file is not an error; any other failure is reported as a
// warning.
func loadOptionalCatalog(ctx context.Context, cfg config.CatalogConfig) *catalog.Catalog {
	cat, err := loadCatalog(ctx, cfg)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Warning: module catalog not loaded: %v\n", err)
		}
		return nil
	}
	return cat
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
