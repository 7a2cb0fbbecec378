package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spcalc/spcalc/pkg/catalog"
	"github.com/spcalc/spcalc/pkg/config"
)

func newSearchCmd() *cobra.Command {
	var (
		catalogPath string
		limit       int
		outputFmt   string
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the module catalog by code or title",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg.Catalog.Path = firstNonEmpty(catalogPath, cfg.Catalog.Path)
			if catalogPath != "" {
				cfg.Catalog.Source = config.SourceFile
			}

			cat, err := loadCatalog(cmd.Context(), cfg.Catalog)
			if err != nil {
				return fmt.Errorf("loading catalog: %w", err)
			}

			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			return printModules(cmd.OutOrStdout(), cat.Search(query, limit), outputFmt)
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Path to a module catalog file (overrides config)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of results (0 for all)")
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text or json")

	return cmd
}

func printModules(w io.Writer, modules []catalog.Module, format string) error {
	if format == "json" {
		if modules == nil {
			modules = []catalog.Module{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(modules)
	}

	if len(modules) == 0 {
		fmt.Fprintln(w, "No modules found.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tCREDITS\tSEM\tTITLE")
	for _, m := range modules {
		fmt.Fprintf(tw, "%s\t%g\t%s\t%s\n", m.Code, m.Credits, firstNonEmpty(m.Semester, "-"), strings.TrimSpace(m.Title))
	}
	return tw.Flush()
}
