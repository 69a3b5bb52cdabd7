/**
 * @description
 * Competitor comparison table.
 * Pivots working-table rows into one row per (cre_id, marca) with a prices and a dif
 * column for every selected product.
 *
 * @notes
 * - Column order is fixed: cre_id, marca, prices|<products...>, dif|<products...>.
 * - A (family, product) pair with no data is the sentinel "-", so a selected product
 *   always yields both columns.
 */

package pricing

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/jojuma-project/backend/internal/models"
)

// Sentinel fills combinations that have no data.
const Sentinel = "-"

const headerSeparator = "|"

// Family is the first level of a value column.
type Family string

const (
	FamilyPrices Family = "prices"
	FamilyDif    Family = "dif"
)

// Families in output order.
var Families = []Family{FamilyPrices, FamilyDif}

// Grouping column headers.
const (
	HeaderCreID = "cre_id"
	HeaderMarca = "marca"
)

// FlattenHeader joins column levels with "|" and trims separators left by empty levels.
func FlattenHeader(levels ...string) string {
	return strings.Trim(strings.Join(levels, headerSeparator), headerSeparator)
}

// Cell is one value in the comparison table; an invalid cell renders as the sentinel.
type Cell struct {
	Value float64
	Valid bool
}

// NumberCell wraps a value.
func NumberCell(v float64) Cell {
	return Cell{Value: v, Valid: true}
}

func (c Cell) String() string {
	if !c.Valid {
		return Sentinel
	}
	return strconv.FormatFloat(c.Value, 'f', -1, 64)
}

func (c Cell) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return json.Marshal(Sentinel)
	}
	return json.Marshal(c.Value)
}

func (c *Cell) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != Sentinel {
			return fmt.Errorf("unexpected cell value %q", s)
		}
		*c = Cell{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = NumberCell(v)
	return nil
}

// ValueColumn is one (family, product) column.
type ValueColumn struct {
	Family  Family         `json:"family"`
	Product models.Product `json:"product"`
}

// Header is the flattened column name, e.g. "prices|regular".
func (vc ValueColumn) Header() string {
	return FlattenHeader(string(vc.Family), string(vc.Product))
}

// ComparisonRow is one station/brand line of the table. Values align with ComparisonTable.Columns.
type ComparisonRow struct {
	CreID  string `json:"cre_id"`
	Marca  string `json:"marca"`
	Values []Cell `json:"values"`
}

// ComparisonTable is the pivoted competitor comparison.
type ComparisonTable struct {
	Headers []string        `json:"headers"`
	Columns []ValueColumn   `json:"columns"`
	Rows    []ComparisonRow `json:"rows"`
}

// Records returns the table as string records, header first.
func (t *ComparisonTable) Records() [][]string {
	records := make([][]string, 0, len(t.Rows)+1)
	records = append(records, slices.Clone(t.Headers))
	for _, row := range t.Rows {
		rec := make([]string, 0, len(row.Values)+2)
		rec = append(rec, row.CreID, row.Marca)
		for _, cell := range row.Values {
			rec = append(rec, cell.String())
		}
		records = append(records, rec)
	}
	return records
}

// WriteCSV serializes the table as comma-separated text.
func (t *ComparisonTable) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(t.Records()); err != nil {
		return fmt.Errorf("failed to write comparison csv: %w", err)
	}
	return nil
}

type stationBrand struct {
	creID string
	marca string
}

type productMeans struct {
	prices mean
	dif    mean
}

// AggregateComparison builds the comparison table for stations competing against allowed.
func AggregateComparison(work []models.PriceRow, allowed KeySet[int64], selected []models.Product) *ComparisonTable {
	groups := make(map[stationBrand]map[models.Product]*productMeans)
	for _, row := range work {
		if !allowed.Has(row.CompiteA) {
			continue
		}
		key := stationBrand{creID: row.CreID, marca: row.Marca}
		byProduct, ok := groups[key]
		if !ok {
			byProduct = make(map[models.Product]*productMeans)
			groups[key] = byProduct
		}
		acc, ok := byProduct[row.Product]
		if !ok {
			acc = &productMeans{}
			byProduct[row.Product] = acc
		}
		acc.prices.add(row.Prices)
		if row.Dif != nil {
			acc.dif.add(*row.Dif)
		}
	}

	columns := make([]ValueColumn, 0, len(Families)*len(selected))
	for _, family := range Families {
		for _, product := range selected {
			columns = append(columns, ValueColumn{Family: family, Product: product})
		}
	}

	headers := make([]string, 0, len(columns)+2)
	headers = append(headers, FlattenHeader(HeaderCreID, ""), FlattenHeader(HeaderMarca, ""))
	for _, col := range columns {
		headers = append(headers, col.Header())
	}

	keys := make([]stationBrand, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b stationBrand) int {
		if c := strings.Compare(a.creID, b.creID); c != 0 {
			return c
		}
		return strings.Compare(a.marca, b.marca)
	})

	rows := make([]ComparisonRow, 0, len(keys))
	for _, key := range keys {
		byProduct := groups[key]
		values := make([]Cell, len(columns))
		for i, col := range columns {
			acc, ok := byProduct[col.Product]
			if !ok {
				continue
			}
			m := acc.prices
			if col.Family == FamilyDif {
				m = acc.dif
			}
			if v, ok := m.value(); ok {
				values[i] = NumberCell(Round2(v))
			}
		}
		rows = append(rows, ComparisonRow{CreID: key.creID, Marca: key.marca, Values: values})
	}

	return &ComparisonTable{Headers: headers, Columns: columns, Rows: rows}
}
