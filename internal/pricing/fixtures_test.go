package pricing

import (
	"time"

	"github.com/jojuma-project/backend/internal/models"
)

func ptr(v float64) *float64 { return &v }

func testSites() []models.SiteRow {
	return []models.SiteRow{
		{PlaceID: 1, CreID: "PL/640/EXP/ES/2015", Municipio: "Tijuana"},
		{PlaceID: 2, CreID: "PL/1234/EXP/ES/2016", Municipio: "Tijuana"},
		{PlaceID: 3, CreID: "PL/9999/EXP/ES/2018", Municipio: "Hermosillo"},
	}
}

func testWork() []models.PriceRow {
	return []models.PriceRow{
		{PlaceID: 10, CreID: "A1", Marca: "BrandX", X: -117.01, Y: 32.51, Prices: 20.00, Product: models.ProductRegular, CompiteA: 1, Dif: ptr(-0.5)},
		{PlaceID: 11, CreID: "A1", Marca: "BrandX", X: -117.02, Y: 32.52, Prices: 21.00, Product: models.ProductRegular, CompiteA: 1, Dif: ptr(0.5)},
		{PlaceID: 10, CreID: "A1", Marca: "BrandX", X: -117.01, Y: 32.51, Prices: 23.456, Product: models.ProductPremium, CompiteA: 1},
		{PlaceID: 12, CreID: "B2", Marca: "Pemex", X: -117.03, Y: 32.53, Prices: 21.5, Product: models.ProductRegular, CompiteA: 2, Dif: ptr(0.25)},
		{PlaceID: 13, CreID: "C3", Marca: "Oxxo", X: -110.9, Y: 29.1, Prices: 22, Product: models.ProductRegular, CompiteA: 3, Dif: ptr(1)},
	}
}

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
}
