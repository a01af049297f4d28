// Package document maps storefront records onto a repository.Store.
package document

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/oksasatya/go-ddd-storefront/internal/domain/entity"
	"github.com/oksasatya/go-ddd-storefront/internal/domain/repository"
)

func userKey(userID string) string { return "users/" + userID }

// userDocument is the stored shape of one user's record.
type userDocument struct {
	Email        string            `json:"email"`
	Name         string            `json:"name"`
	Address      string            `json:"address"`
	CP           string            `json:"cp"`
	State        string            `json:"state"`
	Municipality string            `json:"municipality"`
	Locality     string            `json:"locality"`
	Cologne      string            `json:"cologne"`
	Phone        string            `json:"phone"`
	Info         string            `json:"info"`
	Cart         []entity.Product  `json:"cart"`
	Purchases    []entity.Purchase `json:"purchases"`
}

func toDocument(identifier string, p *entity.Profile) userDocument {
	d := userDocument{
		Email:        identifier,
		Name:         p.Name,
		Address:      p.Address,
		CP:           p.PostalCode,
		State:        p.State,
		Municipality: p.Municipality,
		Locality:     p.Locality,
		Cologne:      p.Neighborhood,
		Phone:        p.Phone,
		Info:         p.AdditionalInfo,
		Cart:         p.Cart,
		Purchases:    p.Purchases,
	}
	if d.Cart == nil {
		d.Cart = []entity.Product{}
	}
	if d.Purchases == nil {
		d.Purchases = []entity.Purchase{}
	}
	return d
}

func (d userDocument) profile() *entity.Profile {
	return &entity.Profile{
		ContactDetails: entity.ContactDetails{
			Name:           d.Name,
			Address:        d.Address,
			PostalCode:     d.CP,
			State:          d.State,
			Municipality:   d.Municipality,
			Locality:       d.Locality,
			Neighborhood:   d.Cologne,
			Phone:          d.Phone,
			AdditionalInfo: d.Info,
		},
		Cart:      d.Cart,
		Purchases: d.Purchases,
	}
}

type ProfileRepository struct {
	store repository.Store
}

func NewProfileRepository(store repository.Store) *ProfileRepository {
	return &ProfileRepository{store: store}
}

func (r *ProfileRepository) Load(ctx context.Context, userID string) (*entity.Profile, error) {
	b, err := r.store.Get(ctx, userKey(userID))
	if err != nil {
		return nil, err
	}
	var d userDocument
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", userID, err)
	}
	return d.profile(), nil
}

func (r *ProfileRepository) Save(ctx context.Context, userID, identifier string, p *entity.Profile) error {
	b, err := json.Marshal(toDocument(identifier, p))
	if err != nil {
		return err
	}
	return r.store.Put(ctx, userKey(userID), b)
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)
