// Package auth implements the authentication boundary.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-storefront/internal/domain/apperr"
	"github.com/oksasatya/go-ddd-storefront/internal/domain/entity"
	"github.com/oksasatya/go-ddd-storefront/internal/domain/repository"
	"github.com/oksasatya/go-ddd-storefront/internal/domain/service"
	"github.com/oksasatya/go-ddd-storefront/pkg/helpers"
)

// account is the stored credential record, keyed by normalized identifier.
type account struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	CreatedAt    string `json:"created_at"`
}

func accountKey(identifier string) string {
	return "accounts/" + entity.NormalizeIdentifier(identifier)
}

// Local keeps bcrypt-hashed accounts in the same Store as the profiles.
type Local struct {
	store repository.Store
}

func NewLocal(store repository.Store) *Local {
	return &Local{store: store}
}

func (a *Local) lookup(ctx context.Context, identifier string) (*account, error) {
	b, err := a.store.Get(ctx, accountKey(identifier))
	if err != nil {
		return nil, err
	}
	var acc account
	if err := json.Unmarshal(b, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

func (a *Local) SignUp(ctx context.Context, identifier, secret string) (string, error) {
	_, err := a.lookup(ctx, identifier)
	if err == nil {
		return "", apperr.ErrDuplicateAccount
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return "", apperr.Persistence(err)
	}
	hash, err := helpers.HashPassword(secret)
	if err != nil {
		return "", err
	}
	acc := account{
		ID:           uuid.NewString(),
		Email:        entity.NormalizeIdentifier(identifier),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(acc)
	if err != nil {
		return "", err
	}
	// Create is the authoritative duplicate check.
	if err := a.store.Create(ctx, accountKey(identifier), b); err != nil {
		if errors.Is(err, repository.ErrExists) {
			return "", apperr.ErrDuplicateAccount
		}
		return "", apperr.Persistence(err)
	}
	return acc.ID, nil
}

func (a *Local) SignIn(ctx context.Context, identifier, secret string) (string, error) {
	acc, err := a.lookup(ctx, identifier)
	if errors.Is(err, repository.ErrNotFound) {
		return "", apperr.ErrInvalidCredentials
	}
	if err != nil {
		return "", apperr.Persistence(err)
	}
	if !helpers.CompareHashAndPassword(acc.PasswordHash, secret) {
		return "", apperr.ErrInvalidCredentials
	}
	return acc.ID, nil
}

// SignOut has nothing to revoke for local accounts.
func (a *Local) SignOut(context.Context, string) error { return nil }

var _ service.Authenticator = (*Local)(nil)
