package main

import (
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

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the published module catalog",
	}
	cmd.AddCommand(newCatalogPushCmd(), newCatalogPullCmd())
	return cmd
}

// catalogTargetFlags are shared by push and pull to pick a store without
// editing the config file.
type catalogTargetFlags struct {
	source      string
	bucket      string
	object      string
	baseDir     string
	databaseURL string
}

func (f *catalogTargetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.source, "source", "", "Catalog store: local, s3, gcs or postgres (default: catalog.source from config)")
	cmd.Flags().StringVar(&f.bucket, "bucket", "", "Bucket name for s3 and gcs")
	cmd.Flags().StringVar(&f.object, "object", "", "Catalog name within the store")
	cmd.Flags().StringVar(&f.baseDir, "base-dir", "", "Directory for the local store")
	cmd.Flags().StringVar(&f.databaseURL, "database-url", "", "Postgres URL for the postgres store")
}

func (f *catalogTargetFlags) apply(cfg *config.CatalogConfig) {
	cfg.Source = firstNonEmpty(f.source, cfg.Source)
	cfg.Bucket = firstNonEmpty(f.bucket, cfg.Bucket)
	cfg.Object = firstNonEmpty(f.object, cfg.Object, "modules")
	cfg.BaseDir = firstNonEmpty(f.baseDir, cfg.BaseDir)
	cfg.DatabaseURL = firstNonEmpty(f.databaseURL, cfg.DatabaseURL, os.Getenv("DATABASE_URL"))
}

func newCatalogPushCmd() *cobra.Command {
	var target catalogTargetFlags

	cmd := &cobra.Command{
		Use:   "push <file>",
		Short: "Validate a catalog file and publish it to the configured store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			target.apply(&cfg.Catalog)

			cat, err := catalog.LoadFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Loaded %d modules from %s\n", cat.Len(), args[0])

			ctx := cmd.Context()
			switch cfg.Catalog.Source {
			case config.SourceFile:
				return fmt.Errorf("catalog source %q cannot be pushed to; pass --source", cfg.Catalog.Source)
			case config.SourcePostgres:
				db, err := platform.OpenDB(cfg.Catalog.DatabaseURL)
				if err != nil {
					return err
				}
				defer db.Close()
				if err := platform.AutoMigrate(db); err != nil {
					return err
				}
				importID, err := catalogdb.NewRepository(db).ReplaceCatalog(ctx, args[0], cat.All())
				if err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "Imported into Postgres (import %s)\n", importID)
				return nil
			}

			store, err := catalogstore.Open(ctx, cfg.Catalog)
			if err != nil {
				return err
			}
			if c, ok := store.(io.Closer); ok {
				defer c.Close()
			}
			if err := catalogstore.Publish(ctx, store, cfg.Catalog.Object, cat); err != nil {
				return fmt.Errorf("publishing catalog: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Published %s to %s store\n", cfg.Catalog.Object, cfg.Catalog.Source)
			return nil
		},
	}
	target.register(cmd)

	return cmd
}

func newCatalogPullCmd() *cobra.Command {
	var (
		target  catalogTargetFlags
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Fetch the published catalog and write it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			target.apply(&cfg.Catalog)

			cat, err := loadCatalog(cmd.Context(), cfg.Catalog)
			if err != nil {
				return fmt.Errorf("loading catalog: %w", err)
			}
			data, err := cat.Marshal()
			if err != nil {
				return err
			}
			data = append(data, '\n')

			if outPath == "" || outPath == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("writing catalog: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Wrote %d modules to %s\n", cat.Len(), outPath)
			return nil
		},
	}
	target.register(cmd)
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default: stdout)")

	return cmd
}
