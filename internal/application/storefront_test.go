package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-ddd-storefront/internal/domain/apperr"
	"github.com/oksasatya/go-ddd-storefront/internal/domain/catalog"
	"github.com/oksasatya/go-ddd-storefront/internal/domain/entity"
	"github.com/oksasatya/go-ddd-storefront/internal/domain/service"
	"github.com/oksasatya/go-ddd-storefront/internal/domain/view"
	"github.com/oksasatya/go-ddd-storefront/internal/infrastructure/auth"
	"github.com/oksasatya/go-ddd-storefront/internal/infrastructure/document"
	"github.com/oksasatya/go-ddd-storefront/internal/infrastructure/memory"
	"github.com/oksasatya/go-ddd-storefront/pkg/helpers"
)

func init() {
	helpers.PasswordCost = bcrypt.MinCost
}

// hold parks the first store call on a key with prefix until released.
type hold struct {
	prefix  string
	fired   atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func newHold(prefix string) *hold {
	return &hold{prefix: prefix, entered: make(chan struct{}, 1), release: make(chan struct{})}
}

func (h *hold) wait(key string) {
	if h == nil || !strings.HasPrefix(key, h.prefix) || !h.fired.CompareAndSwap(false, true) {
		return
	}
	h.entered <- struct{}{}
	<-h.release
}

// flakyStore wraps the memory store and can be told to fail writes to
// user records or to park a read or delete.
type flakyStore struct {
	*memory.Store
	failUsers  bool
	puts       atomic.Int64
	holdGet    *hold
	holdDelete *hold
}

func (f *flakyStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := f.Store.Get(ctx, key)
	f.holdGet.wait(key)
	return b, err
}

func (f *flakyStore) Put(ctx context.Context, key string, value []byte) error {
	f.puts.Add(1)
	if f.failUsers && strings.HasPrefix(key, "users/") {
		return errors.New("document service unavailable")
	}
	return f.Store.Put(ctx, key, value)
}

func (f *flakyStore) Delete(ctx context.Context, key string) error {
	f.holdDelete.wait(key)
	return f.Store.Delete(ctx, key)
}

type fakeNotifier struct {
	err  error
	sent []service.ContactMessage
}

func (n *fakeNotifier) Submit(_ context.Context, msg service.ContactMessage) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

type fixture struct {
	store    *flakyStore
	notifier *fakeNotifier
	sf       *Storefront
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := &flakyStore{Store: memory.NewStore()}
	notifier := &fakeNotifier{}
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	sf := NewStorefront(
		auth.NewLocal(store),
		document.NewProfileRepository(store),
		document.NewSessionRepository(store),
		catalog.Default(nil),
		notifier,
		jwt,
		nil,
	)
	sf.Now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return &fixture{store: store, notifier: notifier, sf: sf}
}

func (f *fixture) login(t *testing.T) *Session {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.sf.Register(ctx, "ana@example.com", "secreto123"))
	sess, err := f.sf.Login(ctx, "ana@example.com", "secreto123")
	require.NoError(t, err)
	return sess
}

func TestRegisterThenLogin(t *testing.T) {
	f := newFixture(t)
	sess := f.login(t)

	st := sess.State()
	assert.Equal(t, "ana@example.com", st.Identifier)
	assert.False(t, st.Guest)
	assert.Equal(t, view.Catalog, st.Screen)
	assert.Empty(t, st.Profile.Cart)
	assert.Empty(t, st.Profile.Purchases)
	assert.Equal(t, 1, f.sf.ActiveSessions())
}

func TestRegisterDuplicateKeepsAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := f.login(t)
	require.NoError(t, sess.Navigate(view.Profile))
	_, err := sess.SaveProfile(ctx, entity.ContactDetails{Name: "Ana", PostalCode: "01000"})
	require.NoError(t, err)
	userID := sess.UserID()
	f.sf.Logout(ctx, sess.ID)

	err = f.sf.Register(ctx, " Ana@Example.com", "otra-clave")
	assert.ErrorIs(t, err, apperr.ErrDuplicateAccount)

	again, err := f.sf.Login(ctx, "ana@example.com", "secreto123")
	require.NoError(t, err)
	assert.Equal(t, userID, again.UserID())
	assert.Equal(t, "Ana", again.Profile().Name)
	assert.Equal(t, "01000", again.Profile().PostalCode)

	_, err = f.sf.Login(ctx, "ana@example.com", "otra-clave")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}

func TestRegisterConcurrentSameIdentifier(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.sf.Register(ctx, "ana@example.com", fmt.Sprintf("secreto-%d", i))
		}(i)
	}
	wg.Wait()

	winner := -1
	for i, err := range errs {
		if err == nil {
			require.Equal(t, -1, winner, "more than one registration succeeded")
			winner = i
			continue
		}
		assert.ErrorIs(t, err, apperr.ErrDuplicateAccount)
	}
	require.NotEqual(t, -1, winner)

	sess, err := f.sf.Login(ctx, "ana@example.com", fmt.Sprintf("secreto-%d", winner))
	require.NoError(t, err)
	_, err = f.sf.Profiles.Load(ctx, sess.UserID())
	assert.NoError(t, err)
}

func TestLoginNormalizesIdentifier(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.sf.Register(ctx, "ana@example.com", "secreto123"))

	sess, err := f.sf.Login(ctx, "  Ana@Example.COM ", "secreto123")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", sess.State().Identifier)
	_, err = sess.AddToCart(ctx, 1)
	require.NoError(t, err)
	p, err := sess.Checkout(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", p.Owner)
}

func TestLoginWrongSecret(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.sf.Register(ctx, "ana@example.com", "secreto123"))

	_, err := f.sf.Login(ctx, "ana@example.com", "incorrecta")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	_, err = f.sf.Login(ctx, "nadie@example.com", "secreto123")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	assert.Equal(t, 0, f.sf.ActiveSessions())
}

func TestCheckoutTotalsAndClearsCart(t *testing.T) {
	f := newFixture(t)
	sess := f.login(t)
	ctx := context.Background()

	_, err := sess.AddToCart(ctx, 2)
	require.NoError(t, err)
	cart, err := sess.AddToCart(ctx, 5)
	require.NoError(t, err)
	require.Len(t, cart, 2)

	require.NoError(t, sess.Navigate(view.Cart))
	p, err := sess.Checkout(ctx)
	require.NoError(t, err)
	assert.Equal(t, 550, p.Total)
	assert.Equal(t, "ana@example.com", p.Owner)
	assert.Len(t, p.Items, 2)

	items, total := sess.Cart()
	assert.Empty(t, items)
	assert.Zero(t, total)
	require.Len(t, sess.Purchases(), 1)
	assert.Equal(t, view.Purchases, sess.State().Screen)

	stored, err := f.sf.Profiles.Load(ctx, sess.UserID())
	require.NoError(t, err)
	assert.Empty(t, stored.Cart)
	require.Len(t, stored.Purchases, 1)
	assert.Equal(t, 550, stored.Purchases[0].Total)
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newFixture(t)
	sess := f.login(t)

	_, err := sess.Checkout(context.Background())
	assert.ErrorIs(t, err, apperr.ErrEmptyCart)
	assert.Empty(t, sess.Purchases())
}

func TestCheckoutFailedWriteLeavesState(t *testing.T) {
	f := newFixture(t)
	sess := f.login(t)
	ctx := context.Background()
	_, err := sess.AddToCart(ctx, 1)
	require.NoError(t, err)

	f.store.failUsers = true
	_, err = sess.Checkout(ctx)
	assert.ErrorIs(t, err, apperr.ErrPersistence)

	items, total := sess.Cart()
	assert.Len(t, items, 1)
	assert.Equal(t, 1200, total)
	assert.Empty(t, sess.Purchases())

	f.store.failUsers = false
	p, err := sess.Checkout(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1200, p.Total)
}

func TestAddUnknownProduct(t *testing.T) {
	f := newFixture(t)
	sess := f.login(t)

	_, err := sess.AddToCart(context.Background(), 99)
	assert.ErrorIs(t, err, apperr.ErrProductNotFound)
}

func TestRemoveFromCart(t *testing.T) {
	f := newFixture(t)
	sess := f.login(t)
	ctx := context.Background()
	for _, id := range []int{1, 2, 1} {
		_, err := sess.AddToCart(ctx, id)
		require.NoError(t, err)
	}

	cart, err := sess.RemoveFromCart(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, cart, 3)
	cart, err = sess.RemoveFromCart(ctx, -1)
	require.NoError(t, err)
	assert.Len(t, cart, 3)

	cart, err = sess.RemoveFromCart(ctx, 1)
	require.NoError(t, err)
	require.Len(t, cart, 2)
	assert.Equal(t, 1, cart[0].ID)
	assert.Equal(t, 1, cart[1].ID)
}

func TestGuestNeverWritesStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := f.sf.EnterAsGuest()
	assert.True(t, sess.Guest())
	assert.Equal(t, view.Catalog, sess.State().Screen)

	_, err := sess.AddToCart(ctx, 3)
	require.NoError(t, err)
	_, err = sess.SaveProfile(ctx, entity.ContactDetails{Name: "Invitado"})
	require.NoError(t, err)
	p, err := sess.Checkout(ctx)
	require.NoError(t, err)
	assert.Equal(t, 750, p.Total)

	assert.Zero(t, f.store.puts.Load())
	assert.Zero(t, f.store.Len())

	f.sf.Logout(ctx, sess.ID)
	_, err = f.sf.Current(ctx, sess.ID)
	assert.ErrorIs(t, err, apperr.ErrNoSession)
}

func TestSaveProfileKeepsCart(t *testing.T) {
	f := newFixture(t)
	sess := f.login(t)
	ctx := context.Background()
	_, err := sess.AddToCart(ctx, 4)
	require.NoError(t, err)
	require.NoError(t, sess.Navigate(view.Profile))

	details := entity.ContactDetails{Name: "Ana", PostalCode: "01000", Neighborhood: "Centro"}
	p, err := sess.SaveProfile(ctx, details)
	require.NoError(t, err)
	assert.Equal(t, details, p.ContactDetails)
	assert.Len(t, p.Cart, 1)
	assert.Equal(t, view.Catalog, sess.State().Screen)

	stored, err := f.sf.Profiles.Load(ctx, sess.UserID())
	require.NoError(t, err)
	assert.Equal(t, "Centro", stored.Neighborhood)
	assert.Len(t, stored.Cart, 1)
}

func TestSessionRehydratesFromPointer(t *testing.T) {
	f := newFixture(t)
	sess := f.login(t)
	ctx := context.Background()
	_, err := sess.AddToCart(ctx, 2)
	require.NoError(t, err)

	// a fresh process sharing the same store
	restarted := NewStorefront(f.sf.Auth, f.sf.Profiles, f.sf.Pointers, f.sf.Catalog, f.notifier, f.sf.JWT, nil)
	got, err := restarted.Current(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.UserID(), got.UserID())
	items, total := got.Cart()
	assert.Len(t, items, 1)
	assert.Equal(t, 350, total)

	restarted.Logout(ctx, sess.ID)
	_, err = f.sf.Pointers.Get(ctx, sess.ID)
	assert.Error(t, err)
}

func TestLogoutClosesSession(t *testing.T) {
	f := newFixture(t)
	sess := f.login(t)
	ctx := context.Background()

	f.sf.Logout(ctx, sess.ID)
	assert.Equal(t, 0, f.sf.ActiveSessions())
	assert.Equal(t, view.Login, sess.State().Screen)
	_, err := sess.AddToCart(ctx, 1)
	assert.ErrorIs(t, err, apperr.ErrNoSession)
	_, err = f.sf.Current(ctx, sess.ID)
	assert.ErrorIs(t, err, apperr.ErrNoSession)
}

func TestLogoutWinsOverConcurrentLookup(t *testing.T) {
	f := newFixture(t)
	sess := f.login(t)
	ctx := context.Background()
	f.store.holdDelete = newHold("sessions/")

	done := make(chan struct{})
	go func() {
		f.sf.Logout(ctx, sess.ID)
		close(done)
	}()
	<-f.store.holdDelete.entered

	// the pointer is still stored while logout is deleting it
	_, err := f.sf.Current(ctx, sess.ID)
	assert.ErrorIs(t, err, apperr.ErrNoSession)

	close(f.store.holdDelete.release)
	<-done
	_, err = f.sf.Current(ctx, sess.ID)
	assert.ErrorIs(t, err, apperr.ErrNoSession)
	assert.Equal(t, 0, f.sf.ActiveSessions())
}

func TestLogoutDuringRehydration(t *testing.T) {
	f := newFixture(t)
	sess := f.login(t)
	ctx := context.Background()
	restarted := NewStorefront(f.sf.Auth, f.sf.Profiles, f.sf.Pointers, f.sf.Catalog, f.notifier, f.sf.JWT, nil)
	f.store.holdGet = newHold("sessions/")

	type result struct {
		sess *Session
		err  error
	}
	res := make(chan result, 1)
	go func() {
		s, err := restarted.Current(ctx, sess.ID)
		res <- result{s, err}
	}()
	<-f.store.holdGet.entered

	restarted.Logout(ctx, sess.ID)
	close(f.store.holdGet.release)

	got := <-res
	assert.Nil(t, got.sess)
	assert.ErrorIs(t, got.err, apperr.ErrNoSession)
	assert.Equal(t, 0, restarted.ActiveSessions())
}

func TestSelectProductAndNavigate(t *testing.T) {
	f := newFixture(t)
	sess := f.login(t)

	p, err := sess.SelectProduct(3)
	require.NoError(t, err)
	assert.Equal(t, "Bidet portátil", p.Name)
	st := sess.State()
	assert.Equal(t, view.ProductDetail, st.Screen)
	require.NotNil(t, st.Selected)
	assert.Equal(t, 3, st.Selected.ID)

	assert.ErrorIs(t, sess.Navigate(view.ProductDetail), apperr.ErrMissingSelection)
	assert.ErrorIs(t, sess.Navigate(view.Profile), apperr.ErrInvalidTransition)
	require.NoError(t, sess.Navigate(view.Catalog))

	_, err = sess.SelectProduct(42)
	assert.ErrorIs(t, err, apperr.ErrProductNotFound)
}

func TestBrowse(t *testing.T) {
	f := newFixture(t)
	sess := f.login(t)

	got, err := sess.Browse(catalog.Filter{Category: catalog.AllCategories, MaxPrice: "500"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 350, got[0].Price)
	assert.Equal(t, 200, got[1].Price)
	assert.Equal(t, "500", sess.State().Filter.MaxPrice)

	all, err := sess.ClearFilters()
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestSubmitContact(t *testing.T) {
	f := newFixture(t)
	sess := f.login(t)
	ctx := context.Background()
	msg := service.ContactMessage{Name: "Ana", Email: "ana@example.com", Message: "Hola"}

	status, err := sess.SubmitContact(ctx, msg)
	require.NoError(t, err)
	assert.Equal(t, service.StatusSent, status)
	assert.Len(t, f.notifier.sent, 1)

	f.notifier.err = apperr.Delivery(errors.New("smtp down"))
	status, err = sess.SubmitContact(ctx, msg)
	assert.ErrorIs(t, err, apperr.ErrDelivery)
	assert.Equal(t, service.StatusFailed, status)
	assert.Equal(t, service.StatusFailed, sess.ContactStatus())
	assert.Empty(t, sess.Purchases())
}

func TestTokensRoundTrip(t *testing.T) {
	f := newFixture(t)
	sess := f.login(t)
	ctx := context.Background()

	pair, err := f.sf.IssueTokens(sess)
	require.NoError(t, err)
	_, again, err := f.sf.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Same(t, sess, again)

	_, _, err = f.sf.Refresh(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, apperr.ErrNoSession)

	f.sf.Logout(ctx, sess.ID)
	_, _, err = f.sf.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, apperr.ErrNoSession)
}

func TestSessionRegistry(t *testing.T) {
	r := NewSessionRegistry()
	sf := NewStorefront(nil, nil, nil, catalog.Default(nil), nil, nil, nil)
	a := newSession(sf, "s1", entity.NewGuest())
	b := newSession(sf, "s1", entity.NewGuest())

	kept, ok := r.AddIfAbsent(a)
	require.True(t, ok)
	assert.Same(t, a, kept)
	kept, ok = r.AddIfAbsent(b)
	require.True(t, ok)
	assert.Same(t, a, kept)
	assert.Equal(t, 1, r.Len())

	got, ok := r.Remove("s1")
	require.True(t, ok)
	assert.Same(t, a, got)
	_, ok = r.Get("s1")
	assert.False(t, ok)
	assert.True(t, r.Closed("s1"))

	kept, ok = r.AddIfAbsent(b)
	assert.False(t, ok)
	assert.Nil(t, kept)
	assert.Equal(t, 0, r.Len())
}
