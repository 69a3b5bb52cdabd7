package datasource

import (
	"context"

	"github.com/jojuma-project/backend/internal/models"
	"golang.org/x/sync/errgroup"
)

// Dataset is the five row-sets of one extraction.
type Dataset struct {
	Sites        []models.SiteRow    `json:"sites"`
	Work         []models.PriceRow   `json:"work"`
	History      []models.HistoryRow `json:"history"`
	CurrentCosts []models.CostRow    `json:"current_costs"`
	PriorCosts   []models.CostRow    `json:"prior_costs"`
}

// Counts returns the number of rows per set, keyed by set name.
func (d *Dataset) Counts() map[string]int {
	return map[string]int{
		"sites":         len(d.Sites),
		"work":          len(d.Work),
		"history":       len(d.History),
		"current_costs": len(d.CurrentCosts),
		"prior_costs":   len(d.PriorCosts),
	}
}

// Load fetches all five row-sets concurrently. Any failure discards the whole dataset.
func Load(ctx context.Context, src Source) (*Dataset, error) {
	var ds Dataset
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		ds.Sites, err = src.Sites(gctx)
		return err
	})
	g.Go(func() (err error) {
		ds.Work, err = src.WorkTable(gctx)
		return err
	})
	g.Go(func() (err error) {
		ds.History, err = src.History(gctx)
		return err
	})
	g.Go(func() (err error) {
		ds.CurrentCosts, err = src.CurrentCosts(gctx)
		return err
	})
	g.Go(func() (err error) {
		ds.PriorCosts, err = src.PriorCosts(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ds, nil
}
