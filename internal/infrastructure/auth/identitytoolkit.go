package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/oksasatya/go-ddd-storefront/internal/domain/apperr"
	"github.com/oksasatya/go-ddd-storefront/internal/domain/service"
)

// TokenRevoker is satisfied by the Firebase admin auth client.
type TokenRevoker interface {
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// Firebase signs users in and up with e-mail/password through the Identity
// Toolkit API. Sign-out revokes refresh tokens when an admin client is set.
type Firebase struct {
	relyingparty *identitytoolkit.RelyingpartyService
	revoker      TokenRevoker
}

// NewFirebase builds the authenticator. revoker may be nil.
func NewFirebase(ctx context.Context, revoker TokenRevoker, opts ...option.ClientOption) (*Firebase, error) {
	svc, err := identitytoolkit.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("identity toolkit: %w", err)
	}
	return &Firebase{relyingparty: svc.Relyingparty, revoker: revoker}, nil
}

// unavailable reports a transport failure or a 5xx from the provider, as
// opposed to a rejection of the request.
func unavailable(code int) bool {
	return code == 0 || code >= http.StatusInternalServerError
}

func providerReason(err error) (int, string) {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return 0, ""
	}
	return gerr.Code, gerr.Message
}

func (f *Firebase) SignUp(ctx context.Context, identifier, secret string) (string, error) {
	resp, err := f.relyingparty.SignupNewUser(&identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{
		Email:    identifier,
		Password: secret,
	}).Context(ctx).Do()
	if err != nil {
		code, reason := providerReason(err)
		switch {
		case strings.Contains(reason, "EMAIL_EXISTS"):
			return "", apperr.ErrDuplicateAccount
		case code == http.StatusBadRequest:
			return "", fmt.Errorf("%w: sign up rejected", apperr.ErrValidation)
		case unavailable(code):
			return "", apperr.Persistence(fmt.Errorf("identity provider: %w", err))
		}
		return "", fmt.Errorf("sign up: %w", err)
	}
	return resp.LocalId, nil
}

// SignIn reports every provider rejection as invalid credentials. An
// unreachable or failing provider is a persistence error instead.
func (f *Firebase) SignIn(ctx context.Context, identifier, secret string) (string, error) {
	resp, err := f.relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             identifier,
		Password:          secret,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		if code, _ := providerReason(err); unavailable(code) {
			return "", apperr.Persistence(fmt.Errorf("identity provider: %w", err))
		}
		return "", apperr.ErrInvalidCredentials
	}
	return resp.LocalId, nil
}

func (f *Firebase) SignOut(ctx context.Context, userID string) error {
	if f.revoker == nil {
		return nil
	}
	return f.revoker.RevokeRefreshTokens(ctx, userID)
}

var _ service.Authenticator = (*Firebase)(nil)
