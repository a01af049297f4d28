package handlers

import (
	"time"

	"github.com/oksasatya/go-ddd-storefront/internal/application"
	"github.com/oksasatya/go-ddd-storefront/internal/domain/catalog"
	"github.com/oksasatya/go-ddd-storefront/internal/domain/entity"
)

type contactDetailsDTO struct {
	Name         string `json:"name" binding:"max=120"`
	Address      string `json:"address" binding:"max=200"`
	CP           string `json:"cp" binding:"omitempty,cp"`
	State        string `json:"state" binding:"max=80"`
	Municipality string `json:"municipality" binding:"max=80"`
	Locality     string `json:"locality" binding:"max=80"`
	Cologne      string `json:"cologne" binding:"max=80"`
	Phone        string `json:"phone" binding:"omitempty,phone"`
	Info         string `json:"info" binding:"max=500"`
}

func toContactDTO(d entity.ContactDetails) contactDetailsDTO {
	return contactDetailsDTO{
		Name:         d.Name,
		Address:      d.Address,
		CP:           d.PostalCode,
		State:        d.State,
		Municipality: d.Municipality,
		Locality:     d.Locality,
		Cologne:      d.Neighborhood,
		Phone:        d.Phone,
		Info:         d.AdditionalInfo,
	}
}

func (d contactDetailsDTO) details() entity.ContactDetails {
	return entity.ContactDetails{
		Name:           d.Name,
		Address:        d.Address,
		PostalCode:     d.CP,
		State:          d.State,
		Municipality:   d.Municipality,
		Locality:       d.Locality,
		Neighborhood:   d.Cologne,
		Phone:          d.Phone,
		AdditionalInfo: d.Info,
	}
}

type profileResponse struct {
	Email string `json:"email"`
	Guest bool   `json:"guest"`
	contactDetailsDTO
	Cart      []entity.Product  `json:"cart"`
	CartTotal int               `json:"cart_total"`
	Purchases []entity.Purchase `json:"purchases"`
}

func toProfileResponse(email string, guest bool, p *entity.Profile) profileResponse {
	out := profileResponse{
		Email:             email,
		Guest:             guest,
		contactDetailsDTO: toContactDTO(p.ContactDetails),
		Cart:              p.Cart,
		CartTotal:         p.CartTotal(),
		Purchases:         p.Purchases,
	}
	if out.Cart == nil {
		out.Cart = []entity.Product{}
	}
	if out.Purchases == nil {
		out.Purchases = []entity.Purchase{}
	}
	return out
}

type sessionResponse struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Guest     bool      `json:"guest"`
	Screen    string    `json:"screen"`
	CreatedAt time.Time `json:"created_at"`
}

func toSessionResponse(s *application.Session) sessionResponse {
	st := s.State()
	return sessionResponse{
		SessionID: st.SessionID,
		UserID:    st.UserID,
		Email:     st.Identifier,
		Guest:     st.Guest,
		Screen:    string(st.Screen),
		CreatedAt: s.CreatedAt,
	}
}

type filterDTO struct {
	Category string `json:"category" form:"category" binding:"omitempty,category"`
	MaxPrice string `json:"max_price" form:"max_price" binding:"max=12"`
}

func (f filterDTO) filter() catalog.Filter {
	return catalog.Filter{Category: f.Category, MaxPrice: f.MaxPrice}
}

type viewResponse struct {
	Screen        string          `json:"screen"`
	Selected      *entity.Product `json:"selected,omitempty"`
	Filter        filterDTO       `json:"filter"`
	CartCount     int             `json:"cart_count"`
	ContactStatus string          `json:"contact_status,omitempty"`
	Guest         bool            `json:"guest"`
}

func toViewResponse(st application.State) viewResponse {
	return viewResponse{
		Screen:        string(st.Screen),
		Selected:      st.Selected,
		Filter:        filterDTO{Category: st.Filter.Category, MaxPrice: st.Filter.MaxPrice},
		CartCount:     len(st.Profile.Cart),
		ContactStatus: string(st.ContactStatus),
		Guest:         st.Guest,
	}
}
