package handlers

import (
	"time"

	"github.com/jojuma-project/backend/internal/config"
	"github.com/jojuma-project/backend/internal/datasource"
	"github.com/jojuma-project/backend/internal/models"
	"github.com/jojuma-project/backend/internal/pricing"
	"github.com/jojuma-project/backend/internal/services"
)

func ptr(v float64) *float64 { return &v }

func testDataset() *datasource.Dataset {
	return &datasource.Dataset{
		Sites: []models.SiteRow{
			{PlaceID: 1, CreID: "PL/640/EXP/ES/2015", Municipio: "Tijuana"},
			{PlaceID: 2, CreID: "PL/1234/EXP/ES/2016", Municipio: "Hermosillo"},
		},
		Work: []models.PriceRow{
			{PlaceID: 10, CreID: "A1", Marca: "BrandX", X: -117.01, Y: 32.51, Prices: 20, Product: models.ProductRegular, CompiteA: 1, Dif: ptr(-0.5)},
			{PlaceID: 11, CreID: "B2", Marca: "Pemex", X: -110.9, Y: 29.1, Prices: 22.345, Product: models.ProductRegular, CompiteA: 2, Dif: ptr(1)},
		},
		History: []models.HistoryRow{
			{PlaceID: 10, CreID: "A1", Marca: "BrandX", Prices: 20, Product: models.ProductRegular, CompiteA: 1, Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		},
		CurrentCosts: []models.CostRow{
			{Terminal: "AZCAPOTZALCO", Producto: models.ProductRegular, PrecioTar: 22},
			{Terminal: "AZCAPOTZALCO", Producto: models.ProductPremium, PrecioTar: 24},
			{Terminal: "AZCAPOTZALCO", Producto: models.ProductDiesel, PrecioTar: 23},
		},
		PriorCosts: []models.CostRow{
			{Terminal: "AZCAPOTZALCO", Producto: models.ProductRegular, PrecioTar: 20},
			{Terminal: "AZCAPOTZALCO", Producto: models.ProductPremium, PrecioTar: 0},
			{Terminal: "AZCAPOTZALCO", Producto: models.ProductDiesel, PrecioTar: 25},
		},
	}
}

func testDefaults() config.DashboardConfig {
	return config.DashboardConfig{
		DefaultGraphPermit:  "PL/640/EXP/ES/2015",
		DefaultCostTerminal: "AZCAPOTZALCO",
	}
}

// newLoadedSnapshots returns a snapshot service with testDataset already published.
func newLoadedSnapshots() *services.SnapshotService {
	snapshots := services.NewSnapshotService(nil, 0)
	snapshots.Publish(testDataset())
	return snapshots
}

func newTestDashboardService(snapshots services.SnapshotProvider) *services.DashboardService {
	return services.NewDashboardService(snapshots, services.NewMemoryActiveTableStore(), pricing.DefaultCenters(), testDefaults())
}
