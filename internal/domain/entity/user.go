package entity

import "strings"

// GuestID is the fixed user id of a guest session. Guests are never persisted.
const GuestID = "guest"

// Credentials are only used for the duration of an authentication call.
type Credentials struct {
	Identifier string
	Secret     string
}

// User is the identity of a session together with its owned profile.
type User struct {
	ID         string
	Identifier string
	Guest      bool
	Profile    *Profile
}

// NormalizeIdentifier is the canonical form of an e-mail identifier, used for
// account keys and for everything stored under the user.
func NormalizeIdentifier(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}

// NewGuest returns a transient user with an empty in-memory profile.
func NewGuest() *User {
	return &User{ID: GuestID, Identifier: GuestID, Guest: true, Profile: &Profile{}}
}

// ContactDetails are the user-editable fields of a profile.
type ContactDetails struct {
	Name           string
	Address        string
	PostalCode     string
	State          string
	Municipality   string
	Locality       string
	Neighborhood   string
	Phone          string
	AdditionalInfo string
}

// Profile is the mutable per-user record. Cart keeps insertion order and may
// hold duplicates; Purchases is append-only.
type Profile struct {
	ContactDetails
	Cart      []Product
	Purchases []Purchase
}

// Clone returns a deep copy so callers can build the next state without
// touching the current one.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return &Profile{}
	}
	out := &Profile{ContactDetails: p.ContactDetails}
	if p.Cart != nil {
		out.Cart = make([]Product, len(p.Cart))
		copy(out.Cart, p.Cart)
	}
	if p.Purchases != nil {
		out.Purchases = make([]Purchase, len(p.Purchases))
		copy(out.Purchases, p.Purchases)
	}
	return out
}

// CartTotal sums the prices currently in the cart.
func (p *Profile) CartTotal() int {
	return SumPrices(p.Cart)
}
