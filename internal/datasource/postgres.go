/**
 * @description
 * Postgres-backed Source using GORM raw queries against the pricing schema
 * (demo_competencia, precios_site, demo_sites, costos_pemex).
 *
 * @dependencies
 * - gorm.io/gorm
 * - github.com/jackc/pgx/v5/pgconn
 */

package datasource

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jojuma-project/backend/internal/models"
	"github.com/jojuma-project/backend/internal/pricing"
	"gorm.io/gorm"
)

// HistoryWindowDays is the length of the price history window.
const HistoryWindowDays = 30

// Latest price per station joined to the latest price of its designated competitor.
// dif stays NULL when the competitor has no price for that product on that date.
const workTableSQL = `
SELECT s.place_id, s.cre_id, s.marca, s.x, s.y, s.prices, s.product, s.compite_a,
       (s.prices - comp.prices) AS dif
FROM (
    SELECT c.place_id, c.cre_id, c.marca, c.x, c.y, p.prices, p.product, c.compite_a
    FROM demo_competencia AS c
    JOIN precios_site AS p ON c.place_id = CAST(p.place_id AS INT)
    WHERE p.date = (SELECT MAX(date) FROM precios_site)
) s
LEFT JOIN precios_site AS comp
    ON s.compite_a = CAST(comp.place_id AS INT)
   AND s.product = comp.product
   AND comp.date = (SELECT MAX(date) FROM precios_site)
`

const historySQL = `
SELECT c.place_id, c.cre_id, c.marca, p.date, p.prices, p.product, c.compite_a
FROM demo_competencia AS c
JOIN precios_site AS p ON c.place_id = CAST(p.place_id AS INT)
WHERE p.date > now() - make_interval(days => ?)
`

const sitesSQL = `SELECT * FROM demo_sites`

const currentCostsSQL = `
SELECT terminal, producto, precio_tar, date
FROM costos_pemex
WHERE date = (SELECT MAX(date) FROM costos_pemex)
`

const priorCostsSQL = `
SELECT terminal, producto, precio_tar, date
FROM costos_pemex
WHERE date = (SELECT MAX(date) - 1 FROM costos_pemex)
`

// Postgres reads snapshots from the pricing database.
type Postgres struct {
	db *gorm.DB
}

// NewPostgres creates a Postgres source.
func NewPostgres(db *gorm.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Sites(ctx context.Context) ([]models.SiteRow, error) {
	var rows []models.SiteRow
	if err := p.db.WithContext(ctx).Raw(sitesSQL).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load sites: %w", err)
	}
	return rows, nil
}

func (p *Postgres) WorkTable(ctx context.Context) ([]models.PriceRow, error) {
	var rows []models.PriceRow
	if err := p.db.WithContext(ctx).Raw(workTableSQL).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load work table: %w", err)
	}
	return rows, nil
}

func (p *Postgres) History(ctx context.Context) ([]models.HistoryRow, error) {
	var rows []models.HistoryRow
	if err := p.db.WithContext(ctx).Raw(historySQL, HistoryWindowDays).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load price history: %w", err)
	}
	return rows, nil
}

func (p *Postgres) CurrentCosts(ctx context.Context) ([]models.CostRow, error) {
	return p.costs(ctx, currentCostsSQL, "current")
}

func (p *Postgres) PriorCosts(ctx context.Context) ([]models.CostRow, error) {
	return p.costs(ctx, priorCostsSQL, "prior")
}

func (p *Postgres) costs(ctx context.Context, query, period string) ([]models.CostRow, error) {
	var rows []models.CostRow
	if err := p.db.WithContext(ctx).Raw(query).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load %s costs: %w", period, err)
	}
	return NormalizeCosts(rows), nil
}

// NormalizeCosts converts raw thousandths tariffs to currency units and canonicalizes
// product names. It must be applied once, to rows fresh from the database.
func NormalizeCosts(rows []models.CostRow) []models.CostRow {
	for i := range rows {
		rows[i].PrecioTar = pricing.NormalizeTariff(rows[i].PrecioTar)
		rows[i].Producto = models.Product(strings.ToLower(strings.TrimSpace(string(rows[i].Producto))))
	}
	return rows
}

// IsTransient reports whether a load error is worth retrying: serialization
// failures, deadlocks, and connection exceptions.
func IsTransient(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return errors.Is(err, context.DeadlineExceeded)
	}
	switch {
	case pgErr.Code == "40001", pgErr.Code == "40P01":
		return true
	case strings.HasPrefix(pgErr.Code, "08"):
		return true
	}
	return false
}
