package models

// SiteRow is static reference data for one of our own stations.
// Only PlaceID, CreID and Municipio take part in filtering.
type SiteRow struct {
	PlaceID   int64   `gorm:"column:place_id" json:"place_id"`
	CreID     string  `gorm:"column:cre_id" json:"cre_id"`
	Marca     string  `gorm:"column:marca" json:"marca"`
	Municipio string  `gorm:"column:Municipio" json:"municipio"`
	Estado    string  `gorm:"column:Estado" json:"estado,omitempty"`
	X         float64 `gorm:"column:x" json:"x"`
	Y         float64 `gorm:"column:y" json:"y"`
}
