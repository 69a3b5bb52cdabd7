package pricing

import (
	"fmt"

	"github.com/jojuma-project/backend/internal/models"
)

// CostIndicator is a terminal tariff with its change relative to the prior period.
type CostIndicator struct {
	Product   models.Product `json:"product"`
	Value     float64        `json:"value"`
	Reference float64        `json:"reference"`
	Delta     float64        `json:"delta"` // (Value - Reference) / Reference
}

// ComputeDeltas returns one indicator per product for the allowed terminals.
// Every product must match exactly one row in each period, otherwise a *LookupError is returned.
func ComputeDeltas(current, prior []models.CostRow, allowed KeySet[string]) (map[models.Product]CostIndicator, error) {
	current = filterTerminals(current, allowed)
	prior = filterTerminals(prior, allowed)

	out := make(map[models.Product]CostIndicator, len(models.Products))
	for _, product := range models.Products {
		cur, err := singleCost(current, product, "current")
		if err != nil {
			return nil, err
		}
		ref, err := singleCost(prior, product, "prior")
		if err != nil {
			return nil, err
		}
		if ref.PrecioTar == 0 {
			return nil, fmt.Errorf("%w: prior %s tariff at %s is zero", ErrInvalidReference, product, ref.Terminal)
		}
		out[product] = CostIndicator{
			Product:   product,
			Value:     cur.PrecioTar,
			Reference: ref.PrecioTar,
			Delta:     (cur.PrecioTar - ref.PrecioTar) / ref.PrecioTar,
		}
	}
	return out, nil
}

func filterTerminals(rows []models.CostRow, allowed KeySet[string]) []models.CostRow {
	out := make([]models.CostRow, 0, len(rows))
	for _, row := range rows {
		if allowed.Has(row.Terminal) {
			out = append(out, row)
		}
	}
	return out
}

func singleCost(rows []models.CostRow, product models.Product, period string) (models.CostRow, error) {
	var found models.CostRow
	matches := 0
	for _, row := range rows {
		if row.Producto == product {
			found = row
			matches++
		}
	}
	if matches != 1 {
		return models.CostRow{}, &LookupError{Product: product, Period: period, Matches: matches}
	}
	return found, nil
}
