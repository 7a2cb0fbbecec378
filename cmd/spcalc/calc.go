package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/spcalc/spcalc/pkg/catalog"
	"github.com/spcalc/spcalc/pkg/config"
	"github.com/spcalc/spcalc/pkg/spcode"
	"github.com/spcalc/spcalc/pkg/surface"
)

func newCalcCmd() *cobra.Command {
	var opts calcOpts

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Rank every SP-coding option for the given modules",
		Long: `Reads module entries (moduleCode, grade, credits, semester) from a JSON or
YAML file and prints, per semester, every set of modules that can be SP-coded
within the credit cap together with the resulting average.

Entries that name a catalog module may omit credits and semester.`,
		Example: `  spcalc calc --modules grades.json
  spcalc calc --modules grades.yaml --cap 20 --output json
  cat grades.json | spcalc calc --modules -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("cap") {
				cfg.Calculation.CreditCap = opts.creditCap
			}
			if cmd.Flags().Changed("precision") {
				cfg.Calculation.Precision = opts.precision
			}
			if opts.catalogPath != "" {
				cfg.Catalog.Source = config.SourceFile
				cfg.Catalog.Path = opts.catalogPath
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			entries, err := readEntries(opts.modulesPath, cmd.InOrStdin())
			if err != nil {
				return err
			}

			var cat *catalog.Catalog
			if !opts.noCatalog {
				cat = loadOptionalCatalog(cmd.Context(), cfg.Catalog)
			}
			return runCalc(cmd.OutOrStdout(), calcInput{
				entries:   entries,
				catalog:   cat,
				optimizer: spcode.New(cfg.Calculation.OptimizerConfig()),
				renderer:  surface.ForFormat(opts.outputFmt, cfg.Calculation.Precision),
			})
		},
	}

	cmd.Flags().StringVar(&opts.modulesPath, "modules", "", "Path to a JSON or YAML file of module entries, or - for stdin (required)")
	cmd.Flags().StringVar(&opts.catalogPath, "catalog", "", "Path to a module catalog file (overrides config)")
	cmd.Flags().BoolVar(&opts.noCatalog, "no-catalog", false, "Do not load the module catalog")
	cmd.Flags().Float64Var(&opts.creditCap, "cap", spcode.DefaultCreditCap, "Maximum credits that may be SP-coded per semester")
	cmd.Flags().IntVar(&opts.precision, "precision", spcode.DefaultPrecision, "Decimal places shown for grades")
	cmd.Flags().StringVar(&opts.outputFmt, "output", "text", "Output format: text, json or markdown")
	_ = cmd.MarkFlagRequired("modules")

	return cmd
}

type calcOpts struct {
	modulesPath string
	catalogPath string
	noCatalog   bool
	creditCap   float64
	precision   int
	outputFmt   string
}

type calcInput struct {
	entries   []spcode.Entry
	catalog   *catalog.Catalog
	optimizer *spcode.Optimizer
	renderer  surface.Renderer
}

func runCalc(w io.Writer, in calcInput) error {
	entries := in.entries
	if in.catalog != nil {
		for i, e := range entries {
			if completed, ok := in.catalog.Complete(e); ok {
				entries[i] = completed
			} else {
				fmt.Fprintf(os.Stderr, "Note: %s is not in the catalog\n", e.ModuleCode)
			}
		}
	}

	report, err := in.optimizer.Calculate(entries)
	if err != nil {
		var verr *spcode.ValidationError
		if errors.As(err, &verr) {
			for _, f := range verr.Fields {
				fmt.Fprintf(os.Stderr, "  entry %d: %s: %s\n", f.Index, f.Field, f.Message)
			}
		}
		return fmt.Errorf("calculating: %w", err)
	}

	if err := in.renderer.Render(w, report); err != nil {
		return fmt.Errorf("rendering: %w", err)
	}
	return nil
}

// readEntries loads module entries from path, or from stdin when path is
// "-". JSON is tried first since it is the format the web form exports.
func readEntries(path string, stdin io.Reader) ([]spcode.Entry, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading modules: %w", err)
	}
	return parseEntries(data)
}

func parseEntries(data []byte) ([]spcode.Entry, error) {
	var entries []spcode.Entry
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		// Accept both a bare array and the API request shape.
		if trimmed[0] == '{' {
			var req struct {
				Modules []spcode.Entry `json:"modules"`
			}
			if err := json.Unmarshal(trimmed, &req); err != nil {
				return nil, fmt.Errorf("parsing modules json: %w", err)
			}
			return req.Modules, nil
		}
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("parsing modules json: %w", err)
		}
		return entries, nil
	}
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing modules yaml: %w", err)
	}
	return entries, nil
}
