package main

import (
	"context"

	"github.com/jojuma-project/backend/internal/archive"
	"github.com/jojuma-project/backend/internal/config"
	"github.com/jojuma-project/backend/internal/datasource"
	"github.com/jojuma-project/backend/internal/db"
	"github.com/jojuma-project/backend/internal/logger"
	"github.com/spf13/cobra"
)

func newArchiveCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Copy the current pricing snapshot from Postgres into a SQLite file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if out == "" {
				out = cfg.Archive.Path
			}

			pgDB, err := db.ConnectPostgres(cfg)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			meta, ds, err := archive.Sync(ctx, datasource.NewPostgres(pgDB), out)
			if err != nil {
				return err
			}
			logger.Info("Archived snapshot %s to %s %v", meta.SnapshotID, out, ds.Counts())
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Archive file (default ARCHIVE_PATH)")
	return cmd
}
