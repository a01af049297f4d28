package application

import (
	"context"
	"sync"
	"time"

	"github.com/oksasatya/go-ddd-storefront/internal/domain/apperr"
	"github.com/oksasatya/go-ddd-storefront/internal/domain/catalog"
	"github.com/oksasatya/go-ddd-storefront/internal/domain/entity"
	"github.com/oksasatya/go-ddd-storefront/internal/domain/service"
	"github.com/oksasatya/go-ddd-storefront/internal/domain/view"
)

// Session is one client's application state: identity, cached profile,
// current screen and catalog filter. Every gesture holds the session lock
// for its whole duration, so the store sees writes in gesture order.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu      sync.Mutex
	user    *entity.User
	router  *view.Router
	filter  catalog.Filter
	contact service.DeliveryStatus
	closed  bool
	owner   *Storefront
}

func newSession(owner *Storefront, id string, u *entity.User) *Session {
	if u.Profile == nil {
		u.Profile = &entity.Profile{}
	}
	return &Session{
		ID:        id,
		CreatedAt: owner.now(),
		user:      u,
		router:    view.NewRouter(),
		filter:    catalog.ClearFilters(),
		owner:     owner,
	}
}

// State is a copy of a session safe to read without the lock.
type State struct {
	SessionID     string
	UserID        string
	Identifier    string
	Guest         bool
	Profile       *entity.Profile
	Screen        view.Screen
	Selected      *entity.Product
	Filter        catalog.Filter
	ContactStatus service.DeliveryStatus
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{
		SessionID:     s.ID,
		UserID:        s.user.ID,
		Identifier:    s.user.Identifier,
		Guest:         s.user.Guest,
		Profile:       s.user.Profile.Clone(),
		Screen:        s.router.Screen(),
		Filter:        s.filter,
		ContactStatus: s.contact,
	}
	if p, ok := s.router.Selected(); ok {
		st.Selected = &p
	}
	return st
}

func (s *Session) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user.ID
}

func (s *Session) Guest() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user.Guest
}

// Profile returns a copy of the cached profile.
func (s *Session) Profile() *entity.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user.Profile.Clone()
}

func (s *Session) close() {
	s.mu.Lock()
	s.closed = true
	s.router.Reset()
	s.mu.Unlock()
}

// lock starts a gesture. A session closed by logout accepts no more gestures.
func (s *Session) lock() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return apperr.ErrNoSession
	}
	return nil
}

// commit persists next as the whole profile record and only then makes it
// current. Guests skip the store.
func (s *Session) commit(ctx context.Context, next *entity.Profile) error {
	if !s.user.Guest {
		c, cancel := s.owner.withTimeout(ctx)
		defer cancel()
		if err := s.owner.Profiles.Save(c, s.user.ID, s.user.Identifier, next); err != nil {
			s.owner.Logger.WithError(err).WithField("user_id", s.user.ID).Error("save profile failed")
			return apperr.Persistence(err)
		}
	}
	s.user.Profile = next
	return nil
}

// Navigate moves to a screen that needs no payload.
func (s *Session) Navigate(to view.Screen) error {
	if err := s.lock(); err != nil {
		return err
	}
	defer s.mu.Unlock()
	return s.router.Show(to)
}

// Browse sets the catalog filter, shows the catalog and returns the
// visible products.
func (s *Session) Browse(f catalog.Filter) ([]entity.Product, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	if err := s.router.Show(view.Catalog); err != nil {
		return nil, err
	}
	s.filter = f
	return s.owner.Catalog.Visible(f), nil
}

// ClearFilters resets the filter and returns the full catalog.
func (s *Session) ClearFilters() ([]entity.Product, error) {
	return s.Browse(catalog.ClearFilters())
}

// SelectProduct opens the detail screen for a catalog product.
func (s *Session) SelectProduct(productID int) (entity.Product, error) {
	if err := s.lock(); err != nil {
		return entity.Product{}, err
	}
	defer s.mu.Unlock()
	p, ok := s.owner.Catalog.Get(productID)
	if !ok {
		return entity.Product{}, apperr.ErrProductNotFound
	}
	if err := s.router.ShowProduct(p); err != nil {
		return entity.Product{}, err
	}
	return p, nil
}

// closedRetention bounds how long a logged-out session id is remembered. It
// only has to outlive rehydrations that were already in flight at logout.
const closedRetention = 30 * time.Minute

// SessionRegistry maps session ids to open sessions. Removed ids are kept as
// closed for a while so a concurrent rehydration cannot bring them back.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	closed   map[string]time.Time
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*Session),
		closed:   make(map[string]time.Time),
	}
}

func (r *SessionRegistry) Add(s *Session) {
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
}

// AddIfAbsent stores s unless a session with the same id exists, and returns
// the one kept. It reports false, storing nothing, when the id was closed.
func (r *SessionRegistry) AddIfAbsent(s *Session) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, gone := r.closed[s.ID]; gone {
		return nil, false
	}
	if existing, ok := r.sessions[s.ID]; ok {
		return existing, true
	}
	r.sessions[s.ID] = s
	return s, true
}

func (r *SessionRegistry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Closed reports whether id was removed recently.
func (r *SessionRegistry) Closed(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.closed[id]
	return ok
}

// Remove drops the session and marks its id closed, whether or not it was
// open in this process.
func (r *SessionRegistry) Remove(id string) (*Session, bool) {
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	for sid, at := range r.closed {
		if now.Sub(at) > closedRetention {
			delete(r.closed, sid)
		}
	}
	r.closed[id] = now
	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	return s, ok
}

func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
