// Package view tracks which screen a client is presenting.
package view

import (
	"fmt"

	"github.com/oksasatya/go-ddd-storefront/internal/domain/apperr"
	"github.com/oksasatya/go-ddd-storefront/internal/domain/entity"
)

type Screen string

const (
	Login         Screen = "login"
	Catalog       Screen = "catalog"
	ProductDetail Screen = "product"
	Profile       Screen = "profile"
	Cart          Screen = "cart"
	Purchases     Screen = "purchases"
	Contact       Screen = "buzon"
)

// ParseScreen maps a wire name to a screen.
func ParseScreen(s string) (Screen, bool) {
	switch Screen(s) {
	case Login, Catalog, ProductDetail, Profile, Cart, Purchases, Contact:
		return Screen(s), true
	}
	return "", false
}

// transitions lists the screens reachable in one gesture from each screen.
var transitions = map[Screen][]Screen{
	Login:         {Catalog},
	Catalog:       {ProductDetail, Profile, Cart, Purchases, Contact, Login},
	ProductDetail: {Catalog, Cart, Login},
	Profile:       {Catalog, Login},
	Cart:          {Catalog, Purchases, Login},
	Purchases:     {Catalog, Login},
	Contact:       {Catalog, Login},
}

// Router is a single-selection state machine. The zero value is not usable;
// call NewRouter.
type Router struct {
	screen   Screen
	selected *entity.Product
}

func NewRouter() *Router {
	return &Router{screen: Login}
}

// Screen returns the current screen.
func (r *Router) Screen() Screen { return r.screen }

// Selected returns the product shown on the detail screen.
func (r *Router) Selected() (entity.Product, bool) {
	if r.selected == nil {
		return entity.Product{}, false
	}
	return *r.selected, true
}

// CanShow reports whether to is reachable from the current screen.
func (r *Router) CanShow(to Screen) bool {
	if to == r.screen {
		return true
	}
	for _, s := range transitions[r.screen] {
		if s == to {
			return true
		}
	}
	return false
}

// Show moves to a screen that needs no payload. The detail screen must go
// through ShowProduct.
func (r *Router) Show(to Screen) error {
	if to == ProductDetail {
		return apperr.ErrMissingSelection
	}
	if !r.CanShow(to) {
		return fmt.Errorf("%w: %s -> %s", apperr.ErrInvalidTransition, r.screen, to)
	}
	r.screen = to
	r.selected = nil
	return nil
}

// ShowProduct selects p and moves to the detail screen in one step.
func (r *Router) ShowProduct(p entity.Product) error {
	if !r.CanShow(ProductDetail) {
		return fmt.Errorf("%w: %s -> %s", apperr.ErrInvalidTransition, r.screen, ProductDetail)
	}
	r.screen = ProductDetail
	r.selected = &p
	return nil
}

// Reset returns to the login screen from anywhere. Used on logout.
func (r *Router) Reset() {
	r.screen = Login
	r.selected = nil
}
