package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) newProvinceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "province <name-or-code>...",
		Short: "Resolve province names through the reference lookup",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lookup, err := a.provinces()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, raw := range args {
				r := lookup.Resolve(raw)
				tag := colorGreen + "[verified]" + colorReset
				if !r.Verified {
					tag = colorRed + "[unverified]" + colorReset
				}
				fmt.Fprintf(out, "%-24s -> %-2s  %-22s %s %s\n", raw, r.Code, r.Region, r.Name, tag)
			}
			return nil
		},
	}
	cmd.Flags().String("aliases", "", "YAML file with extra province aliases")
	return cmd
}
