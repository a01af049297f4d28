package entity

// Category groups catalog products. Values are the labels shown by the storefront.
type Category string

const (
	CategoryHome        Category = "Hogar"
	CategoryHygiene     Category = "Higiene"
	CategoryAccessories Category = "Accesorios"
)

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{CategoryHome, CategoryAccessories, CategoryHygiene}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryHome, CategoryHygiene, CategoryAccessories:
		return true
	}
	return false
}

// Product is an immutable catalog entry. Price is a whole amount in MXN.
type Product struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Price       int      `json:"price"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
}
