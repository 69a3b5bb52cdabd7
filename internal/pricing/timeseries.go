package pricing

import (
	"slices"
	"strings"
	"time"

	"github.com/jojuma-project/backend/internal/models"
)

// SeriesPoint is the mean price of one brand on one date.
type SeriesPoint struct {
	Date   time.Time `json:"date"`
	Marca  string    `json:"marca"`
	Prices float64   `json:"prices"`
}

type dateBrand struct {
	unix  int64
	marca string
}

// AggregateTimeSeries averages product prices by (date, marca) for stations
// competing against allowed. Output is ordered by date, then marca.
func AggregateTimeSeries(history []models.HistoryRow, allowed KeySet[int64], product models.Product) []SeriesPoint {
	groups := make(map[dateBrand]*mean)
	dates := make(map[int64]time.Time)
	for _, row := range history {
		if row.Product != product || !allowed.Has(row.CompiteA) {
			continue
		}
		// Key on the instant, not the time.Time value, so zones and monotonic readings don't split groups
		key := dateBrand{unix: row.Date.UnixNano(), marca: row.Marca}
		acc, ok := groups[key]
		if !ok {
			acc = &mean{}
			groups[key] = acc
			dates[key.unix] = row.Date.UTC()
		}
		acc.add(row.Prices)
	}

	keys := make([]dateBrand, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b dateBrand) int {
		if a.unix != b.unix {
			if a.unix < b.unix {
				return -1
			}
			return 1
		}
		return strings.Compare(a.marca, b.marca)
	})

	points := make([]SeriesPoint, 0, len(keys))
	for _, key := range keys {
		v, _ := groups[key].value()
		points = append(points, SeriesPoint{
			Date:   dates[key.unix],
			Marca:  key.marca,
			Prices: Round2(v),
		})
	}
	return points
}
