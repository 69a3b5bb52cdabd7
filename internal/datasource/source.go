/**
 * @description
 * Data source boundary for the pricing views.
 * A Source returns the five row-sets one snapshot is built from.
 *
 * @notes
 * - CostRow.PrecioTar comes back already divided by 1000; implementations that read
 *   raw tariffs normalize exactly once before returning.
 * - An empty result is valid. Errors mean the refresh must be abandoned.
 */

package datasource

import (
	"context"

	"github.com/jojuma-project/backend/internal/models"
)

// Source supplies the raw row-sets for a snapshot.
type Source interface {
	Sites(ctx context.Context) ([]models.SiteRow, error)
	WorkTable(ctx context.Context) ([]models.PriceRow, error)
	History(ctx context.Context) ([]models.HistoryRow, error)
	CurrentCosts(ctx context.Context) ([]models.CostRow, error)
	PriorCosts(ctx context.Context) ([]models.CostRow, error)
}
