/**
 * @description
 * SQLite snapshot archive.
 * Writes a loaded dataset to a local file and serves it back as a datasource.Source,
 * so exports can run without the pricing database.
 *
 * @dependencies
 * - modernc.org/sqlite: pure-Go SQLite driver
 * - github.com/google/uuid: snapshot ids
 *
 * @notes
 * - Tariffs are stored already normalized and are returned as stored.
 * - Write replaces the whole archive in one transaction.
 */

package archive

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jojuma-project/backend/internal/datasource"
	"github.com/jojuma-project/backend/internal/models"
	_ "modernc.org/sqlite"
)

const (
	periodCurrent = "current"
	periodPrior   = "prior"
)

var schema = []string{
	`DROP TABLE IF EXISTS meta`,
	`DROP TABLE IF EXISTS sites`,
	`DROP TABLE IF EXISTS work`,
	`DROP TABLE IF EXISTS history`,
	`DROP TABLE IF EXISTS costs`,
	`CREATE TABLE meta (snapshot_id TEXT NOT NULL, loaded_at TEXT NOT NULL)`,
	`CREATE TABLE sites (place_id INTEGER, cre_id TEXT, marca TEXT, municipio TEXT, estado TEXT, x REAL, y REAL)`,
	`CREATE TABLE work (place_id INTEGER, cre_id TEXT, marca TEXT, x REAL, y REAL, prices REAL, product TEXT, compite_a INTEGER, dif REAL)`,
	`CREATE TABLE history (place_id INTEGER, cre_id TEXT, marca TEXT, date TEXT, prices REAL, product TEXT, compite_a INTEGER)`,
	`CREATE TABLE costs (period TEXT, terminal TEXT, producto TEXT, precio_tar REAL, date TEXT)`,
	`CREATE INDEX idx_costs_period ON costs(period)`,
}

// Meta identifies the snapshot stored in an archive.
type Meta struct {
	SnapshotID string
	LoadedAt   time.Time
}

// Archive is an open snapshot archive.
type Archive struct {
	db *sql.DB
}

// Open opens (or creates) the archive file at path.
func Open(path string) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", path, err)
	}
	// One writer at a time; SQLite serializes anyway
	db.SetMaxOpenConns(1)
	return &Archive{db: db}, nil
}

// Close releases the file.
func (a *Archive) Close() error {
	return a.db.Close()
}

// Write replaces the archive contents with ds.
func (a *Archive) Write(ctx context.Context, meta Meta, ds *datasource.Dataset) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("archive schema: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO meta (snapshot_id, loaded_at) VALUES (?, ?)`,
		meta.SnapshotID, meta.LoadedAt.UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("archive meta: %w", err)
	}

	if err := insertEach(ctx, tx, `INSERT INTO sites VALUES (?, ?, ?, ?, ?, ?, ?)`, ds.Sites, func(s models.SiteRow) []any {
		return []any{s.PlaceID, s.CreID, s.Marca, s.Municipio, s.Estado, s.X, s.Y}
	}); err != nil {
		return fmt.Errorf("archive sites: %w", err)
	}

	if err := insertEach(ctx, tx, `INSERT INTO work VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, ds.Work, func(r models.PriceRow) []any {
		var dif any
		if r.Dif != nil {
			dif = *r.Dif
		}
		return []any{r.PlaceID, r.CreID, r.Marca, r.X, r.Y, r.Prices, string(r.Product), r.CompiteA, dif}
	}); err != nil {
		return fmt.Errorf("archive work table: %w", err)
	}

	if err := insertEach(ctx, tx, `INSERT INTO history VALUES (?, ?, ?, ?, ?, ?, ?)`, ds.History, func(r models.HistoryRow) []any {
		return []any{r.PlaceID, r.CreID, r.Marca, r.Date.UTC().Format(time.RFC3339Nano), r.Prices, string(r.Product), r.CompiteA}
	}); err != nil {
		return fmt.Errorf("archive history: %w", err)
	}

	for period, rows := range map[string][]models.CostRow{periodCurrent: ds.CurrentCosts, periodPrior: ds.PriorCosts} {
		if err := insertEach(ctx, tx, `INSERT INTO costs VALUES (?, ?, ?, ?, ?)`, rows, func(c models.CostRow) []any {
			return []any{period, c.Terminal, string(c.Producto), c.PrecioTar, c.Date.UTC().Format(time.RFC3339Nano)}
		}); err != nil {
			return fmt.Errorf("archive %s costs: %w", period, err)
		}
	}

	return tx.Commit()
}

func insertEach[T any](ctx context.Context, tx *sql.Tx, query string, rows []T, args func(T) []any) error {
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, args(row)...); err != nil {
			return err
		}
	}
	return nil
}

// Meta returns the identity of the archived snapshot.
func (a *Archive) Meta(ctx context.Context) (Meta, error) {
	var m Meta
	var loadedAt string
	if err := a.db.QueryRowContext(ctx, `SELECT snapshot_id, loaded_at FROM meta LIMIT 1`).Scan(&m.SnapshotID, &loadedAt); err != nil {
		return Meta{}, fmt.Errorf("archive meta: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, loadedAt)
	if err != nil {
		return Meta{}, fmt.Errorf("archive meta: %w", err)
	}
	m.LoadedAt = t
	return m, nil
}

func (a *Archive) Sites(ctx context.Context) ([]models.SiteRow, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT place_id, cre_id, marca, municipio, estado, x, y FROM sites ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.SiteRow, 0)
	for rows.Next() {
		var s models.SiteRow
		if err := rows.Scan(&s.PlaceID, &s.CreID, &s.Marca, &s.Municipio, &s.Estado, &s.X, &s.Y); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (a *Archive) WorkTable(ctx context.Context) ([]models.PriceRow, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT place_id, cre_id, marca, x, y, prices, product, compite_a, dif FROM work ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.PriceRow, 0)
	for rows.Next() {
		var r models.PriceRow
		var product string
		var dif sql.NullFloat64
		if err := rows.Scan(&r.PlaceID, &r.CreID, &r.Marca, &r.X, &r.Y, &r.Prices, &product, &r.CompiteA, &dif); err != nil {
			return nil, err
		}
		r.Product = models.Product(product)
		if dif.Valid {
			v := dif.Float64
			r.Dif = &v
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (a *Archive) History(ctx context.Context) ([]models.HistoryRow, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT place_id, cre_id, marca, date, prices, product, compite_a FROM history ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.HistoryRow, 0)
	for rows.Next() {
		var r models.HistoryRow
		var date, product string
		if err := rows.Scan(&r.PlaceID, &r.CreID, &r.Marca, &date, &r.Prices, &product, &r.CompiteA); err != nil {
			return nil, err
		}
		if r.Date, err = time.Parse(time.RFC3339Nano, date); err != nil {
			return nil, fmt.Errorf("archive history date %q: %w", date, err)
		}
		r.Product = models.Product(product)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (a *Archive) CurrentCosts(ctx context.Context) ([]models.CostRow, error) {
	return a.costs(ctx, periodCurrent)
}

func (a *Archive) PriorCosts(ctx context.Context) ([]models.CostRow, error) {
	return a.costs(ctx, periodPrior)
}

func (a *Archive) costs(ctx context.Context, period string) ([]models.CostRow, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT terminal, producto, precio_tar, date FROM costs WHERE period = ? ORDER BY rowid`, period)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.CostRow, 0)
	for rows.Next() {
		var c models.CostRow
		var product, date string
		if err := rows.Scan(&c.Terminal, &product, &c.PrecioTar, &date); err != nil {
			return nil, err
		}
		if c.Date, err = time.Parse(time.RFC3339Nano, date); err != nil {
			return nil, fmt.Errorf("archive cost date %q: %w", date, err)
		}
		c.Producto = models.Product(product)
		out = append(out, c)
	}
	return out, rows.Err()
}

var _ datasource.Source = (*Archive)(nil)

// Sync loads every row-set from src and writes them to a fresh archive at path.
func Sync(ctx context.Context, src datasource.Source, path string) (Meta, *datasource.Dataset, error) {
	ds, err := datasource.Load(ctx, src)
	if err != nil {
		return Meta{}, nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	a, err := Open(path)
	if err != nil {
		return Meta{}, nil, err
	}
	defer a.Close()

	meta := Meta{SnapshotID: uuid.NewString(), LoadedAt: time.Now().UTC()}
	if err := a.Write(ctx, meta, ds); err != nil {
		return Meta{}, nil, fmt.Errorf("failed to write archive %s: %w", path, err)
	}
	return meta, ds, nil
}
