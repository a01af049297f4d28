package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/option"

	"github.com/oksasatya/go-ddd-storefront/internal/domain/apperr"
	"github.com/oksasatya/go-ddd-storefront/internal/domain/repository"
	"github.com/oksasatya/go-ddd-storefront/internal/infrastructure/memory"
	"github.com/oksasatya/go-ddd-storefront/pkg/helpers"
)

func init() {
	helpers.PasswordCost = bcrypt.MinCost
}

func TestLocal_SignUpThenSignIn(t *testing.T) {
	a := NewLocal(memory.NewStore())
	ctx := context.Background()

	id, err := a.SignUp(ctx, "Ana@Example.mx ", "secreto123")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := a.SignIn(ctx, "ana@example.mx", "secreto123")
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestLocal_Failures(t *testing.T) {
	a := NewLocal(memory.NewStore())
	ctx := context.Background()
	_, err := a.SignUp(ctx, "ana@example.mx", "secreto123")
	require.NoError(t, err)

	_, err = a.SignUp(ctx, "ana@example.mx", "otra")
	assert.ErrorIs(t, err, apperr.ErrDuplicateAccount)

	_, err = a.SignIn(ctx, "ana@example.mx", "wrong")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)

	_, err = a.SignIn(ctx, "nadie@example.mx", "secreto123")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}

func TestLocal_DuplicateKeepsOriginalSecret(t *testing.T) {
	a := NewLocal(memory.NewStore())
	ctx := context.Background()
	id, err := a.SignUp(ctx, "ana@example.mx", "first")
	require.NoError(t, err)

	_, err = a.SignUp(ctx, "ana@example.mx", "second")
	require.ErrorIs(t, err, apperr.ErrDuplicateAccount)

	got, err := a.SignIn(ctx, "ana@example.mx", "first")
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

// staleReads misses every read, as a sign-up racing another one sees it.
type staleReads struct{ *memory.Store }

func (staleReads) Get(context.Context, string) ([]byte, error) {
	return nil, repository.ErrNotFound
}

func TestLocal_SignUpRaceKeepsFirstAccount(t *testing.T) {
	store := memory.NewStore()
	racing := NewLocal(staleReads{store})
	ctx := context.Background()

	id, err := racing.SignUp(ctx, "ana@example.mx", "first")
	require.NoError(t, err)
	_, err = racing.SignUp(ctx, "ana@example.mx", "second")
	require.ErrorIs(t, err, apperr.ErrDuplicateAccount)

	got, err := NewLocal(store).SignIn(ctx, "ana@example.mx", "first")
	require.NoError(t, err)
	assert.Equal(t, id, got)
	assert.Equal(t, 1, store.Len())
}

// identityToolkitServer answers the two relyingparty calls.
func identityToolkitServer(t *testing.T) *httptest.Server {
	t.Helper()
	users := map[string]string{"ana@example.mx": "secreto123"}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		fail := func(msg string) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":400,"message":"` + msg + `"}}`))
		}
		switch {
		case strings.HasSuffix(r.URL.Path, "signupNewUser"):
			if _, ok := users[body.Email]; ok {
				fail("EMAIL_EXISTS")
				return
			}
			if len(body.Password) < 6 {
				fail("WEAK_PASSWORD : Password should be at least 6 characters")
				return
			}
			users[body.Email] = body.Password
			_, _ = w.Write([]byte(`{"localId":"uid-` + body.Email + `"}`))
		case strings.HasSuffix(r.URL.Path, "verifyPassword"):
			if pw, ok := users[body.Email]; !ok || pw != body.Password {
				fail("INVALID_LOGIN_CREDENTIALS")
				return
			}
			_, _ = w.Write([]byte(`{"localId":"uid-` + body.Email + `","idToken":"tok"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

type fakeRevoker struct{ revoked []string }

func (f *fakeRevoker) RevokeRefreshTokens(_ context.Context, uid string) error {
	f.revoked = append(f.revoked, uid)
	return nil
}

func newTestFirebase(t *testing.T, revoker TokenRevoker) *Firebase {
	srv := identityToolkitServer(t)
	f, err := NewFirebase(context.Background(), revoker,
		option.WithEndpoint(srv.URL+"/"),
		option.WithAPIKey("test-key"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return f
}

func TestFirebase_SignInAndUp(t *testing.T) {
	revoker := &fakeRevoker{}
	f := newTestFirebase(t, revoker)
	ctx := context.Background()

	id, err := f.SignIn(ctx, "ana@example.mx", "secreto123")
	require.NoError(t, err)
	assert.Equal(t, "uid-ana@example.mx", id)

	_, err = f.SignIn(ctx, "ana@example.mx", "nope")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)

	_, err = f.SignUp(ctx, "ana@example.mx", "whatever")
	assert.ErrorIs(t, err, apperr.ErrDuplicateAccount)

	_, err = f.SignUp(ctx, "luis@example.mx", "123")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	id, err = f.SignUp(ctx, "luis@example.mx", "largo123")
	require.NoError(t, err)
	assert.Equal(t, "uid-luis@example.mx", id)

	require.NoError(t, f.SignOut(ctx, id))
	assert.Equal(t, []string{id}, revoker.revoked)
}

func TestFirebase_SignOutWithoutRevoker(t *testing.T) {
	f := newTestFirebase(t, nil)
	assert.NoError(t, f.SignOut(context.Background(), "uid"))
}

func TestFirebase_ProviderUnreachable(t *testing.T) {
	f, err := NewFirebase(context.Background(), nil,
		option.WithEndpoint("http://127.0.0.1:1/"),
		option.WithAPIKey("test-key"),
	)
	require.NoError(t, err)

	_, err = f.SignIn(context.Background(), "ana@example.mx", "secreto123")
	assert.ErrorIs(t, err, apperr.ErrPersistence)
	assert.False(t, errors.Is(err, apperr.ErrInvalidCredentials))
	assert.Equal(t, "persistence failure", apperr.Message(err))
	assert.Equal(t, http.StatusBadGateway, apperr.StatusCode(err))

	_, err = f.SignUp(context.Background(), "luis@example.mx", "largo123")
	assert.ErrorIs(t, err, apperr.ErrPersistence)
}

func TestFirebase_ProviderServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"code":503,"message":"BACKEND_UNAVAILABLE"}}`))
	}))
	t.Cleanup(srv.Close)
	f, err := NewFirebase(context.Background(), nil,
		option.WithEndpoint(srv.URL+"/"),
		option.WithAPIKey("test-key"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	_, err = f.SignIn(context.Background(), "ana@example.mx", "secreto123")
	assert.ErrorIs(t, err, apperr.ErrPersistence)
	assert.NotContains(t, apperr.Message(err), "BACKEND_UNAVAILABLE")
}
