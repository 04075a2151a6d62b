package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"palava-proof/internal/domain/services"
	"palava-proof/internal/ui/terminal"
)

func (a *app) recentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "List confirmed scams from the offline database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			reports, err := services.NewReportService(store, nil, nil, a.log).Recent(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), terminal.RenderReports(reports))
			return nil
		},
	}
}

func (a *app) patternsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "Show the scam indicator categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), terminal.RenderCategories(services.Categories()))
			return nil
		},
	}
}
