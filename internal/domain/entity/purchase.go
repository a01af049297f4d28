package entity

import "time"

// Purchase is a checkout record. Items is a copy of the cart taken at checkout
// and Total is never recomputed afterwards.
type Purchase struct {
	Owner     string    `json:"user"`
	Items     []Product `json:"items"`
	Total     int       `json:"total"`
	Timestamp time.Time `json:"date"`
}

// NewPurchase snapshots items and sums their prices.
func NewPurchase(owner string, items []Product, at time.Time) Purchase {
	snapshot := make([]Product, len(items))
	copy(snapshot, items)
	return Purchase{
		Owner:     owner,
		Items:     snapshot,
		Total:     SumPrices(snapshot),
		Timestamp: at,
	}
}

// SumPrices returns the total price of products.
func SumPrices(products []Product) int {
	total := 0
	for _, p := range products {
		total += p.Price
	}
	return total
}
