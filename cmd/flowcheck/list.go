package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thesyncim/flowcheck/pkg/flows"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available flows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := flows.Select(nil, nil)
			if err != nil {
				return err
			}
			urls := a.cfg.BaseURLs()
			for _, f := range all {
				base := a.cfg.BaseURL
				if u, ok := urls[f.Name]; ok {
					base = u
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s %-24s %s\n", f.Name, base, f.Description)
			}
			return nil
		},
	}
}
