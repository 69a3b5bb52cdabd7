/**
 * @description
 * Price row models produced by the extraction queries.
 * PriceRow is one station's latest price joined with its designated competitor's price;
 * HistoryRow is one observation from the trailing 30-day window.
 *
 * @dependencies
 * - gorm.io/gorm (column tags only; rows come from raw queries)
 */

package models

import "time"

// PriceRow is one observed price in the working comparison table.
// Dif is nil when the competitor had no price for the same product on the same date.
type PriceRow struct {
	PlaceID  int64    `gorm:"column:place_id" json:"place_id"`
	CreID    string   `gorm:"column:cre_id" json:"cre_id"`
	Marca    string   `gorm:"column:marca" json:"marca"`
	X        float64  `gorm:"column:x" json:"x"`
	Y        float64  `gorm:"column:y" json:"y"`
	Prices   float64  `gorm:"column:prices" json:"prices"`
	Product  Product  `gorm:"column:product" json:"product"`
	CompiteA int64    `gorm:"column:compite_a" json:"compite_a"`
	Dif      *float64 `gorm:"column:dif" json:"dif"`
}

// HistoryRow is one historical price observation.
type HistoryRow struct {
	PlaceID  int64     `gorm:"column:place_id" json:"place_id"`
	CreID    string    `gorm:"column:cre_id" json:"cre_id"`
	Marca    string    `gorm:"column:marca" json:"marca"`
	Date     time.Time `gorm:"column:date" json:"date"`
	Prices   float64   `gorm:"column:prices" json:"prices"`
	Product  Product   `gorm:"column:product" json:"product"`
	CompiteA int64     `gorm:"column:compite_a" json:"compite_a"`
}
