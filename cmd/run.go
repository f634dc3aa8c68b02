package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"landfunnel/internal/logging"
	"landfunnel/internal/output"
	"landfunnel/internal/pipeline"
	"landfunnel/internal/sheets"
	"landfunnel/internal/types"
)

func (a *app) newRunCmd() *cobra.Command {
	var inputPath, resultsPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Reconcile Input with Results and write the stage files",
		Example: `  landfunnel run --input parcels.xlsx --results owners.xlsx
  landfunnel run --input parcels.shp --results owners.xlsx --out exports --interactive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, inputPath, resultsPath)
		},
	}

	f := cmd.Flags()
	f.StringVar(&inputPath, "input", "", "Input parcel register (.xlsx or .shp)")
	f.StringVar(&resultsPath, "results", "", "Results workbook from the owner search (.xlsx)")
	f.String("out", "", "output directory")
	f.String("prefix", "", "prefix for output file names")
	f.String("delimiter", "", "CRM file delimiter")
	f.String("aliases", "", "YAML file with extra province aliases")
	f.Bool("interactive", false, "browse the stages after the run")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("results")
	return cmd
}

func (a *app) run(cmd *cobra.Command, inputPath, resultsPath string) error {
	input, err := sheets.ReadFile(inputPath)
	if err != nil {
		return err
	}
	a.log.Info().Str("file", inputPath).Int("sheets", len(input)).Msg("Input loaded")

	results, err := sheets.ReadFile(resultsPath)
	if err != nil {
		return err
	}
	a.log.Info().Str("file", resultsPath).Int("sheets", len(results)).Msg("Results loaded")

	provinces, err := a.provinces()
	if err != nil {
		return err
	}

	res, err := pipeline.New(provinces, logging.Progress(a.log)).Run(input, results)
	if err != nil {
		return err
	}

	files, err := output.WriteStages(res, output.DirSink{Dir: a.cfg.OutputDir}, output.Options{
		Prefix:    a.cfg.FilePrefix,
		Delimiter: a.cfg.CSVDelimiter,
	})
	if err != nil {
		return err
	}
	for _, f := range files {
		a.log.Debug().Str("file", f.Name).Int("rows", f.Rows).Msg("written")
	}
	a.log.Info().Str("dir", a.cfg.OutputDir).Int("files", len(files)).Msg("output written")

	if err := printSummary(cmd.OutOrStdout(), res); err != nil {
		return err
	}

	if a.cfg.Interactive {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			a.log.Warn().Msg("interactive browsing needs a terminal, skipped")
			return nil
		}
		browse(res, provinces)
	}
	return nil
}

// printSummary renders the stage counts and data-quality counters.
func printSummary(w io.Writer, res *pipeline.Result) error {
	table := tablewriter.NewTable(w)
	table.Header("Stage", "Parcels")
	for _, s := range types.Stages {
		if err := table.Append(string(s), strconv.Itoa(len(res.Stage(s)))); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	st := res.Stats
	fmt.Fprintf(w, "Input rows        : %d\n", st.InputRows)
	fmt.Fprintf(w, "Blank keys        : %d\n", st.BlankKeys)
	fmt.Fprintf(w, "Duplicates        : %d\n", st.Duplicates)
	fmt.Fprintf(w, "Ambiguous keys    : %d\n", st.Ambiguous)
	fmt.Fprintf(w, "Geo fallbacks     : %d\n", st.GeoFallbacks)
	fmt.Fprintf(w, "Geo rejected      : %d\n", st.GeoRejected)
	fmt.Fprintf(w, "Corporate owners  : %d\n", st.CorporateWins)
	fmt.Fprintf(w, "Manifest entries  : %d\n", st.ManifestEntries)
	return nil
}
