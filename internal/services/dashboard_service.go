/**
 * @description
 * Dashboard service.
 * Runs each view's filter -> aggregate chain against the current snapshot.
 *
 * @dependencies
 * - backend/internal/pricing
 * - backend/internal/config
 *
 * @notes
 * - Each view has its own default filter token (table: every site, graphs: one permit,
 *   costs: one terminal).
 * - Building a comparison table publishes it for export.
 */

package services

import (
	"context"
	"io"
	"time"

	"github.com/jojuma-project/backend/internal/config"
	"github.com/jojuma-project/backend/internal/logger"
	"github.com/jojuma-project/backend/internal/models"
	"github.com/jojuma-project/backend/internal/pricing"
)

// DashboardService answers the dashboard views.
type DashboardService struct {
	snapshots SnapshotProvider
	active    ActiveTableStore
	centers   pricing.CenterMap
	defaults  config.DashboardConfig
}

// NewDashboardService creates a DashboardService
func NewDashboardService(snapshots SnapshotProvider, active ActiveTableStore, centers pricing.CenterMap, defaults config.DashboardConfig) *DashboardService {
	return &DashboardService{
		snapshots: snapshots,
		active:    active,
		centers:   centers,
		defaults:  defaults,
	}
}

// ComparisonView is the comparison table with the snapshot it came from.
type ComparisonView struct {
	SnapshotID string                   `json:"snapshot_id"`
	Table      *pricing.ComparisonTable `json:"table"`
}

// Comparison builds the competitor table for permit tokens and publishes it for export.
func (s *DashboardService) Comparison(ctx context.Context, permits []string, products []models.Product) (*ComparisonView, error) {
	snap, err := s.snapshots.Current()
	if err != nil {
		return nil, err
	}

	allowed := pricing.ResolveSites(snap.Data.Sites, permits, s.defaults.DefaultTablePermit)
	table := pricing.AggregateComparison(snap.Data.Work, allowed, products)

	if err := s.active.Put(ctx, &ActiveTable{
		SnapshotID:  snap.ID.String(),
		GeneratedAt: time.Now().UTC(),
		Table:       table,
	}); err != nil {
		// Export may be stale; the view itself is fine
		logger.Error("DashboardService: failed to publish active table: %v", err)
	}

	return &ComparisonView{SnapshotID: snap.ID.String(), Table: table}, nil
}

// ExportComparison writes the active table as CSV, or returns pricing.ErrNoActiveTable.
func (s *DashboardService) ExportComparison(ctx context.Context, w io.Writer) error {
	active, err := s.active.Get(ctx)
	if err != nil {
		return err
	}
	return active.Table.WriteCSV(w)
}

// MapView is the marker set for one city.
type MapView struct {
	City    string             `json:"city"`
	Product models.Product     `json:"product"`
	Center  pricing.Center     `json:"center"`
	Points  []pricing.GeoPoint `json:"points"`
}

// Map returns markers for product around city. Unknown cities fail before any filtering.
func (s *DashboardService) Map(_ context.Context, city string, product models.Product) (*MapView, error) {
	center, err := s.centers.Lookup(city)
	if err != nil {
		return nil, err
	}

	snap, err := s.snapshots.Current()
	if err != nil {
		return nil, err
	}

	allowed := pricing.ResolveCity(snap.Data.Sites, city)
	return &MapView{
		City:    city,
		Product: product,
		Center:  center,
		Points:  pricing.FilterForMap(snap.Data.Work, product, allowed),
	}, nil
}

// GraphView is the 30-day brand series for a product.
type GraphView struct {
	Product models.Product        `json:"product"`
	Points  []pricing.SeriesPoint `json:"points"`
}

// Graphs returns the mean daily price per brand for stations competing with the permits.
func (s *DashboardService) Graphs(_ context.Context, permits []string, product models.Product) (*GraphView, error) {
	snap, err := s.snapshots.Current()
	if err != nil {
		return nil, err
	}

	allowed := pricing.ResolveSites(snap.Data.Sites, permits, s.defaults.DefaultGraphPermit)
	return &GraphView{
		Product: product,
		Points:  pricing.AggregateTimeSeries(snap.Data.History, allowed, product),
	}, nil
}

// CostsView holds one indicator per product, in display order.
type CostsView struct {
	Terminals  []string                `json:"terminals"`
	Indicators []pricing.CostIndicator `json:"indicators"`
}

// Costs computes day-over-day tariff indicators for the terminals matching the tokens.
func (s *DashboardService) Costs(_ context.Context, terminals []string) (*CostsView, error) {
	snap, err := s.snapshots.Current()
	if err != nil {
		return nil, err
	}

	// One terminal set filters both periods
	all := make([]models.CostRow, 0, len(snap.Data.CurrentCosts)+len(snap.Data.PriorCosts))
	all = append(all, snap.Data.CurrentCosts...)
	all = append(all, snap.Data.PriorCosts...)
	allowed := pricing.ResolveTerminals(all, terminals, s.defaults.DefaultCostTerminal)

	byProduct, err := pricing.ComputeDeltas(snap.Data.CurrentCosts, snap.Data.PriorCosts, allowed)
	if err != nil {
		return nil, err
	}

	view := &CostsView{Terminals: allowed.Sorted()}
	for _, product := range models.Products {
		view.Indicators = append(view.Indicators, byProduct[product])
	}
	return view, nil
}

// FilterOptions lists the values the UI controls offer.
type FilterOptions struct {
	Permits   []string         `json:"permits"`
	Terminals []string         `json:"terminals"`
	Cities    []string         `json:"cities"`
	Products  []models.Product `json:"products"`
}

// Filters returns the dropdown options from the current snapshot.
func (s *DashboardService) Filters(_ context.Context) (*FilterOptions, error) {
	snap, err := s.snapshots.Current()
	if err != nil {
		return nil, err
	}

	opts := &FilterOptions{
		Permits:   make([]string, 0),
		Terminals: make([]string, 0),
		Cities:    s.centers.Cities(),
		Products:  models.Products,
	}

	seen := make(map[string]struct{})
	for _, site := range snap.Data.Sites {
		if _, ok := seen[site.CreID]; ok {
			continue
		}
		seen[site.CreID] = struct{}{}
		opts.Permits = append(opts.Permits, site.CreID)
	}

	seen = make(map[string]struct{})
	for _, row := range snap.Data.CurrentCosts {
		if _, ok := seen[row.Terminal]; ok {
			continue
		}
		seen[row.Terminal] = struct{}{}
		opts.Terminals = append(opts.Terminals, row.Terminal)
	}

	return opts, nil
}
