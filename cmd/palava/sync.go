package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"palava-proof/internal/domain/services"
	"palava-proof/internal/infrastructure/database"
)

func (a *app) syncCmd() *cobra.Command {
	var batch int

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Push offline reports to the community database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.cfg.Database.Enabled {
				return errors.New("no community database configured (set database.enabled)")
			}
			ctx := cmd.Context()

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			db, err := database.NewPostgres(ctx, a.cfg.Database, a.log)
			if err != nil {
				return err
			}
			defer db.Close()

			repo, err := db.Reports(ctx)
			if err != nil {
				return err
			}

			if batch <= 0 {
				batch = a.cfg.Sync.BatchSize
			}
			backend := services.NewReportService(repo, nil, nil, a.log)
			result, err := services.NewSyncer(store, backend, batch, a.log).RunOnce(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "synced %d of %d pending report(s)", result.Synced, result.Pending)
			if result.Failed > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), ", %d failed", result.Failed)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().IntVar(&batch, "batch", 0, "maximum reports to push (default: sync.batch_size)")
	return cmd
}
