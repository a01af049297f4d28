package application

import (
	"context"

	"github.com/oksasatya/go-ddd-storefront/internal/domain/entity"
	"github.com/oksasatya/go-ddd-storefront/internal/domain/view"
)

// SaveProfile replaces the contact fields and returns to the catalog. Cart
// and purchases are left untouched.
func (s *Session) SaveProfile(ctx context.Context, details entity.ContactDetails) (*entity.Profile, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	next := s.user.Profile.Clone()
	next.ContactDetails = details
	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}
	if s.router.CanShow(view.Catalog) {
		_ = s.router.Show(view.Catalog)
	}
	return next.Clone(), nil
}
