package pricing

import "github.com/shopspring/decimal"

// Round2 rounds v to two decimal places. Applying it twice is a no-op.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// NormalizeTariff converts a tariff stored in thousandths to currency units.
// The data source calls it exactly once per row at load time.
func NormalizeTariff(raw float64) float64 {
	return decimal.NewFromFloat(raw).Shift(-3).InexactFloat64()
}

// mean accumulates a running sum for an arithmetic mean.
type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v float64) {
	m.sum += v
	m.n++
}

func (m mean) value() (float64, bool) {
	if m.n == 0 {
		return 0, false
	}
	return m.sum / float64(m.n), true
}
