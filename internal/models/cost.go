package models

import "time"

// CostRow is the tariff price of one product at one distribution terminal.
// PrecioTar is already in currency units per litre; the source divides by 1000 on load.
type CostRow struct {
	Terminal  string    `gorm:"column:terminal" json:"terminal"`
	Producto  Product   `gorm:"column:producto" json:"producto"`
	PrecioTar float64   `gorm:"column:precio_tar" json:"precio_tar"`
	Date      time.Time `gorm:"column:date" json:"date"`
}
