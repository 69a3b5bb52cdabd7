package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jojuma-project/backend/internal/config"
	"github.com/jojuma-project/backend/internal/models"
	"github.com/jojuma-project/backend/internal/pricing"
)

func newTestDashboard(t *testing.T) (*DashboardService, *SnapshotService) {
	t.Helper()
	snapshots := NewSnapshotService(&staticSource{}, 0)
	snapshots.Publish(testDataset())
	defaults := config.DashboardConfig{
		DefaultTablePermit:  "",
		DefaultGraphPermit:  "PL/640/EXP/ES/2015",
		DefaultCostTerminal: "AZCAPOTZALCO",
	}
	return NewDashboardService(snapshots, NewMemoryActiveTableStore(), pricing.DefaultCenters(), defaults), snapshots
}

func TestDashboardComparisonPublishesForExport(t *testing.T) {
	svc, _ := newTestDashboard(t)
	ctx := context.Background()

	var buf bytes.Buffer
	if err := svc.ExportComparison(ctx, &buf); !errors.Is(err, pricing.ErrNoActiveTable) {
		t.Fatalf("expected ErrNoActiveTable before any table, got %v", err)
	}

	view, err := svc.Comparison(ctx, nil, []models.Product{models.ProductRegular})
	if err != nil {
		t.Fatalf("comparison failed: %v", err)
	}
	// Empty default token selects every site
	if len(view.Table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(view.Table.Rows))
	}

	if err := svc.ExportComparison(ctx, &buf); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "cre_id,marca,prices|regular,dif|regular" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[1] != "A1,BrandX,20,-0.5" {
		t.Errorf("unexpected first row %q", lines[1])
	}
}

func TestDashboardComparisonNarrowsByPermit(t *testing.T) {
	svc, _ := newTestDashboard(t)
	view, err := svc.Comparison(context.Background(), []string{"1234"}, []models.Product{models.ProductRegular})
	if err != nil {
		t.Fatalf("comparison failed: %v", err)
	}
	if len(view.Table.Rows) != 1 || view.Table.Rows[0].CreID != "B2" {
		t.Errorf("unexpected rows %+v", view.Table.Rows)
	}
}

func TestDashboardMap(t *testing.T) {
	svc, _ := newTestDashboard(t)

	view, err := svc.Map(context.Background(), "Tijuana", models.ProductRegular)
	if err != nil {
		t.Fatalf("map failed: %v", err)
	}
	if len(view.Points) != 1 || view.Points[0].Text != "BrandX A1, Precio: 20.0" {
		t.Errorf("unexpected points %+v", view.Points)
	}
	if view.Center.Lat != 32.51887 {
		t.Errorf("unexpected center %+v", view.Center)
	}

	var cfgErr *pricing.ConfigurationError
	if _, err := svc.Map(context.Background(), "Monterrey", models.ProductRegular); !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigurationError, got %v", err)
	}
}

func TestDashboardGraphsUsesDefaultPermit(t *testing.T) {
	svc, _ := newTestDashboard(t)
	view, err := svc.Graphs(context.Background(), nil, models.ProductRegular)
	if err != nil {
		t.Fatalf("graphs failed: %v", err)
	}
	if len(view.Points) != 1 || view.Points[0].Prices != 20.5 {
		t.Errorf("unexpected series %+v", view.Points)
	}
}

func TestDashboardCosts(t *testing.T) {
	svc, _ := newTestDashboard(t)

	view, err := svc.Costs(context.Background(), nil)
	if err != nil {
		t.Fatalf("costs failed: %v", err)
	}
	if len(view.Indicators) != 3 {
		t.Fatalf("expected 3 indicators, got %d", len(view.Indicators))
	}
	if view.Indicators[0].Product != models.ProductRegular || view.Indicators[0].Delta != 0.1 {
		t.Errorf("unexpected regular indicator %+v", view.Indicators[0])
	}

	// Both terminals selected: regular matches twice
	var lookupErr *pricing.LookupError
	if _, err := svc.Costs(context.Background(), []string{"AZCA", "ROSA"}); !errors.As(err, &lookupErr) {
		t.Errorf("expected LookupError, got %v", err)
	}
}

func TestDashboardFilters(t *testing.T) {
	svc, _ := newTestDashboard(t)
	opts, err := svc.Filters(context.Background())
	if err != nil {
		t.Fatalf("filters failed: %v", err)
	}
	if len(opts.Permits) != 2 || opts.Permits[0] != "PL/640/EXP/ES/2015" {
		t.Errorf("unexpected permits %v", opts.Permits)
	}
	if len(opts.Terminals) != 2 {
		t.Errorf("unexpected terminals %v", opts.Terminals)
	}
	if len(opts.Cities) != 5 {
		t.Errorf("unexpected cities %v", opts.Cities)
	}
}

func TestDashboardWithoutSnapshot(t *testing.T) {
	svc := NewDashboardService(NewSnapshotService(&staticSource{}, 0), NewMemoryActiveTableStore(), pricing.DefaultCenters(), config.DashboardConfig{})
	if _, err := svc.Filters(context.Background()); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("expected ErrNoSnapshot, got %v", err)
	}
}
