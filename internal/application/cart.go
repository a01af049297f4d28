package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-storefront/internal/domain/apperr"
	"github.com/oksasatya/go-ddd-storefront/internal/domain/entity"
	"github.com/oksasatya/go-ddd-storefront/internal/domain/view"
)

// Cart returns a copy of the cart and its running total.
func (s *Session) Cart() ([]entity.Product, int) {
	p := s.Profile()
	if p.Cart == nil {
		p.Cart = []entity.Product{}
	}
	return p.Cart, p.CartTotal()
}

// Purchases returns the purchase history, oldest first.
func (s *Session) Purchases() []entity.Purchase {
	p := s.Profile()
	if p.Purchases == nil {
		return []entity.Purchase{}
	}
	return p.Purchases
}

// AddToCart appends a catalog product to the cart. Duplicates are allowed.
func (s *Session) AddToCart(ctx context.Context, productID int) ([]entity.Product, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	p, ok := s.owner.Catalog.Get(productID)
	if !ok {
		return nil, apperr.ErrProductNotFound
	}
	next := s.user.Profile.Clone()
	next.Cart = append(next.Cart, p)
	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}
	return next.Clone().Cart, nil
}

// RemoveFromCart drops the item at index. An index outside the cart leaves
// everything as it is.
func (s *Session) RemoveFromCart(ctx context.Context, index int) ([]entity.Product, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	cur := s.user.Profile
	if index < 0 || index >= len(cur.Cart) {
		return cur.Clone().Cart, nil
	}
	next := cur.Clone()
	next.Cart = append(next.Cart[:index], next.Cart[index+1:]...)
	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}
	return next.Clone().Cart, nil
}

// Checkout turns the cart into a purchase. The new purchase and the emptied
// cart are written in a single store update; if it fails, cart and history
// stay as they were.
func (s *Session) Checkout(ctx context.Context) (entity.Purchase, error) {
	if err := s.lock(); err != nil {
		return entity.Purchase{}, err
	}
	defer s.mu.Unlock()

	cur := s.user.Profile
	if len(cur.Cart) == 0 {
		return entity.Purchase{}, apperr.ErrEmptyCart
	}
	purchase := entity.NewPurchase(s.user.Identifier, cur.Cart, s.owner.now())
	next := cur.Clone()
	next.Purchases = append(next.Purchases, purchase)
	next.Cart = []entity.Product{}
	if err := s.commit(ctx, next); err != nil {
		return entity.Purchase{}, err
	}

	if s.router.CanShow(view.Purchases) {
		_ = s.router.Show(view.Purchases)
	}
	metricCheckouts.Add(1)
	s.owner.Logger.WithFields(logrus.Fields{
		"user_id": s.user.ID,
		"items":   len(purchase.Items),
		"total":   purchase.Total,
	}).Info("checkout completed")
	return purchase, nil
}
