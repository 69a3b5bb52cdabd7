package services

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/jojuma-project/backend/internal/datasource"
	"github.com/jojuma-project/backend/internal/models"
)

func ptr(v float64) *float64 { return &v }

func testDataset() *datasource.Dataset {
	day := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	return &datasource.Dataset{
		Sites: []models.SiteRow{
			{PlaceID: 1, CreID: "PL/640/EXP/ES/2015", Municipio: "Tijuana"},
			{PlaceID: 2, CreID: "PL/1234/EXP/ES/2016", Municipio: "Hermosillo"},
			{PlaceID: 3, CreID: "PL/640/EXP/ES/2015", Municipio: "Tijuana"},
		},
		Work: []models.PriceRow{
			{PlaceID: 10, CreID: "A1", Marca: "BrandX", X: -117.01, Y: 32.51, Prices: 20, Product: models.ProductRegular, CompiteA: 1, Dif: ptr(-0.5)},
			{PlaceID: 11, CreID: "B2", Marca: "Pemex", X: -110.9, Y: 29.1, Prices: 22, Product: models.ProductRegular, CompiteA: 2, Dif: ptr(1)},
		},
		History: []models.HistoryRow{
			{PlaceID: 10, CreID: "A1", Marca: "BrandX", Prices: 20, Product: models.ProductRegular, CompiteA: 1, Date: day},
			{PlaceID: 12, CreID: "A2", Marca: "BrandX", Prices: 21, Product: models.ProductRegular, CompiteA: 1, Date: day},
		},
		CurrentCosts: []models.CostRow{
			{Terminal: "AZCAPOTZALCO", Producto: models.ProductRegular, PrecioTar: 22},
			{Terminal: "AZCAPOTZALCO", Producto: models.ProductPremium, PrecioTar: 24},
			{Terminal: "AZCAPOTZALCO", Producto: models.ProductDiesel, PrecioTar: 23},
			{Terminal: "ROSARITO", Producto: models.ProductRegular, PrecioTar: 21},
		},
		PriorCosts: []models.CostRow{
			{Terminal: "AZCAPOTZALCO", Producto: models.ProductRegular, PrecioTar: 20},
			{Terminal: "AZCAPOTZALCO", Producto: models.ProductPremium, PrecioTar: 24},
			{Terminal: "AZCAPOTZALCO", Producto: models.ProductDiesel, PrecioTar: 25},
			{Terminal: "ROSARITO", Producto: models.ProductRegular, PrecioTar: 20},
		},
	}
}

// staticSource serves testDataset and counts loads; err fails every load.
type staticSource struct {
	loads atomic.Int32
	err   error
}

func (s *staticSource) Sites(context.Context) ([]models.SiteRow, error) {
	s.loads.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return testDataset().Sites, nil
}

func (s *staticSource) WorkTable(context.Context) ([]models.PriceRow, error) {
	return testDataset().Work, nil
}

func (s *staticSource) History(context.Context) ([]models.HistoryRow, error) {
	return testDataset().History, nil
}

func (s *staticSource) CurrentCosts(context.Context) ([]models.CostRow, error) {
	return testDataset().CurrentCosts, nil
}

func (s *staticSource) PriorCosts(context.Context) ([]models.CostRow, error) {
	return testDataset().PriorCosts, nil
}

var errDown = errors.New("database is down")
