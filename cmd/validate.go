package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"landfunnel/internal/schema"
	"landfunnel/internal/sheets"
)

func (a *app) newValidateCmd() *cobra.Command {
	var inputPath, resultsPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check Input and Results files against their schemas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if inputPath == "" && resultsPath == "" {
				return fmt.Errorf("nothing to validate: pass --input and/or --results")
			}
			out := cmd.OutOrStdout()
			ok := true
			if inputPath != "" {
				valid, err := validateFile(out, "Input", inputPath, schema.ValidateInput)
				if err != nil {
					return err
				}
				ok = ok && valid
			}
			if resultsPath != "" {
				valid, err := validateFile(out, "Results", resultsPath, schema.ValidateResults)
				if err != nil {
					return err
				}
				ok = ok && valid
			}
			if !ok {
				return fmt.Errorf("validation failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&inputPath, "input", "", "Input parcel register (.xlsx or .shp)")
	cmd.Flags().StringVar(&resultsPath, "results", "", "Results workbook (.xlsx)")
	return cmd
}

// validateFile prints every schema problem of one file.
func validateFile(w io.Writer, label, path string, check func(sheets.Workbook) schema.Result) (bool, error) {
	wb, err := sheets.ReadFile(path)
	if err != nil {
		return false, err
	}
	res := check(wb)
	if res.Valid {
		fmt.Fprintf(w, "%s (%s): %sOK%s\n", label, path, colorGreen, colorReset)
		return true, nil
	}
	fmt.Fprintf(w, "%s (%s): %s%d problem(s)%s\n", label, path, colorRed, len(res.Problems), colorReset)
	for _, p := range res.Problems {
		fmt.Fprintf(w, "  - %s\n", p)
	}
	return false, nil
}
