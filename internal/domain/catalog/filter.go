package catalog

import (
	"strconv"
	"strings"

	"github.com/oksasatya/go-ddd-storefront/internal/domain/entity"
)

// AllCategories is the category wildcard.
const AllCategories = "all"

// Filter is the catalog screen's filter state. MaxPrice is kept as typed so
// that an unset or non-numeric value can be told apart from zero.
type Filter struct {
	Category string `form:"category" json:"category"`
	MaxPrice string `form:"max_price" json:"max_price"`
}

// ClearFilters returns the reset filter: every category, no price ceiling.
func ClearFilters() Filter {
	return Filter{Category: AllCategories}
}

// Ceiling returns the parsed price ceiling. ok is false when the filter sets
// no ceiling.
func (f Filter) Ceiling() (limit int, ok bool) {
	s := strings.TrimSpace(f.MaxPrice)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func (f Filter) matchesCategory(c entity.Category) bool {
	if f.Category == "" || f.Category == AllCategories {
		return true
	}
	return string(c) == f.Category
}

// Visible returns the products that pass f, in their original order.
// It has no side effects and never mutates products.
func Visible(products []entity.Product, f Filter) []entity.Product {
	limit, capped := f.Ceiling()
	out := make([]entity.Product, 0, len(products))
	for _, p := range products {
		if !f.matchesCategory(p.Category) {
			continue
		}
		if capped && p.Price > limit {
			continue
		}
		out = append(out, p)
	}
	return out
}
