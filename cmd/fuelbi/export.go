package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jojuma-project/backend/internal/archive"
	"github.com/jojuma-project/backend/internal/config"
	"github.com/jojuma-project/backend/internal/datasource"
	"github.com/jojuma-project/backend/internal/db"
	"github.com/jojuma-project/backend/internal/models"
	"github.com/jojuma-project/backend/internal/pricing"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var (
		filters     filterFlags
		archivePath string
		out         string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the competitor comparison table as CSV",
		Example: `  fuelbi export --permit PL/640 --product regular,premium -o tabla.csv
  fuelbi export --archive snapshot.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := parseProducts(filters.products)
			if err != nil {
				return err
			}

			var (
				src  datasource.Source
				dash config.DashboardConfig
			)
			if archivePath != "" {
				if _, err := os.Stat(archivePath); err != nil {
					return fmt.Errorf("archive %s: %w", archivePath, err)
				}
				a, err := archive.Open(archivePath)
				if err != nil {
					return err
				}
				defer a.Close()
				src, dash = a, config.LoadDashboard()
			} else {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				pgDB, err := db.ConnectPostgres(cfg)
				if err != nil {
					return err
				}
				src, dash = datasource.NewPostgres(pgDB), cfg.Dashboard
			}

			w := cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			return exportComparison(ctx, src, dash.DefaultTablePermit, filters.permits, products, w)
		},
	}

	filters.register(cmd.Flags())
	cmd.Flags().StringVar(&archivePath, "archive", "", "Read from a SQLite archive instead of Postgres")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	return cmd
}

// exportComparison loads src, builds the comparison table and writes it as CSV.
func exportComparison(ctx context.Context, src datasource.Source, defaultPermit string, permits []string, products []models.Product, w io.Writer) error {
	ds, err := datasource.Load(ctx, src)
	if err != nil {
		return err
	}
	allowed := pricing.ResolveSites(ds.Sites, permits, defaultPermit)
	return pricing.AggregateComparison(ds.Work, allowed, products).WriteCSV(w)
}

func parseProducts(raw []string) ([]models.Product, error) {
	out := make([]models.Product, 0, len(raw))
	for _, s := range raw {
		p, ok := models.ParseProduct(s)
		if !ok {
			return nil, fmt.Errorf("unknown product %q", s)
		}
		out = append(out, p)
	}
	return out, nil
}
