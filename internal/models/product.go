package models

// Product is a fuel grade as stored in the product/producto columns.
type Product string

const (
	ProductRegular Product = "regular"
	ProductPremium Product = "premium"
	ProductDiesel  Product = "diesel"
)

// Products lists every grade in display order.
var Products = []Product{ProductRegular, ProductPremium, ProductDiesel}

// Valid reports whether p is one of the known grades.
func (p Product) Valid() bool {
	for _, known := range Products {
		if p == known {
			return true
		}
	}
	return false
}

// ParseProduct converts a string to a Product, reporting whether it is known.
func ParseProduct(s string) (Product, bool) {
	p := Product(s)
	return p, p.Valid()
}
