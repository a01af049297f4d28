package service

import "context"

// Authenticator is the authentication boundary. Implementations report
// apperr.ErrInvalidCredentials and apperr.ErrDuplicateAccount for the
// respective failures and never surface provider-specific detail in them.
type Authenticator interface {
	SignUp(ctx context.Context, identifier, secret string) (userID string, err error)
	SignIn(ctx context.Context, identifier, secret string) (userID string, err error)
	SignOut(ctx context.Context, userID string) error
}
